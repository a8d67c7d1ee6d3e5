package conflict

import (
	"errors"
	"reflect"
	"testing"
)

func TestDetailsRecord_EachCodeIncrementsOneCounter(t *testing.T) {
	tests := []struct {
		code string
		want Details
	}{
		{"UU", Details{BothModified: 1}},
		{"AA", Details{BothAdded: 1}},
		{"DD", Details{BothDeleted: 1}},
		{"AU", Details{AddedByUs: 1}},
		{"UA", Details{AddedByThem: 1}},
		{"DU", Details{DeletedByUs: 1}},
		{"UD", Details{DeletedByThem: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			var got Details
			got.record(tt.code)
			if got != tt.want {
				t.Errorf("record(%q) = %+v, want %+v", tt.code, got, tt.want)
			}
		})
	}
}

func TestDetailsRecord_IgnoresUnknownCodes(t *testing.T) {
	// Forward compatibility: codes outside the seven conflict-stage
	// combinations must not disturb any counter.
	for _, code := range []string{"MM", "??", "A ", " M", "XY", "", "U"} {
		var got Details
		got.record(code)
		if got != (Details{}) {
			t.Errorf("record(%q) = %+v, want all counters zero", code, got)
		}
	}
}

func TestDetectActive_CleanWorktree(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("", nil) // no unmerged paths

	d := NewDetectorWithRunner(mock)
	if info := d.DetectActive("/wt"); info != nil {
		t.Errorf("DetectActive() = %+v, want nil for clean worktree", info)
	}
}

func TestDetectActive_CommandFailure(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("fatal: not a git repository\n", errors.New("exit status 128"))

	d := NewDetectorWithRunner(mock)
	if info := d.DetectActive("/not-a-repo"); info != nil {
		t.Errorf("DetectActive() = %+v, want nil when git fails", info)
	}
}

func TestDetectActive_SingleBothModified(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("README.md\n", nil)
	mock.addResponse("UU README.md\n", nil)

	d := NewDetectorWithRunner(mock)
	info := d.DetectActive("/wt")
	if info == nil {
		t.Fatal("DetectActive() = nil, want conflict info")
	}

	if info.Kind != KindActive {
		t.Errorf("Kind = %q, want %q", info.Kind, KindActive)
	}
	if !reflect.DeepEqual(info.Files, []string{"README.md"}) {
		t.Errorf("Files = %v, want [README.md]", info.Files)
	}
	if info.Count != 1 {
		t.Errorf("Count = %d, want 1", info.Count)
	}
	want := Details{BothModified: 1}
	if info.Details == nil || *info.Details != want {
		t.Errorf("Details = %+v, want %+v", info.Details, want)
	}
}

func TestDetectActive_MixedCodes(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("a.go\nb.go\nc.go\n", nil)
	mock.addResponse("UU a.go\n", nil)
	mock.addResponse("DU b.go\n", nil)
	mock.addResponse("AA c.go\n", nil)

	d := NewDetectorWithRunner(mock)
	info := d.DetectActive("/wt")
	if info == nil {
		t.Fatal("DetectActive() = nil, want conflict info")
	}

	// Insertion order follows the status scan.
	if !reflect.DeepEqual(info.Files, []string{"a.go", "b.go", "c.go"}) {
		t.Errorf("Files = %v, want [a.go b.go c.go]", info.Files)
	}
	if info.Count != 3 {
		t.Errorf("Count = %d, want 3", info.Count)
	}
	want := Details{BothModified: 1, DeletedByUs: 1, BothAdded: 1}
	if *info.Details != want {
		t.Errorf("Details = %+v, want %+v", *info.Details, want)
	}
}

func TestDetectActive_UnreadableStatusStillCountsFile(t *testing.T) {
	// A path in a conflicted index state stays in Files even when its
	// per-file status cannot be classified.
	mock := newMockRunner()
	mock.addResponse("flaky.txt\n", nil)
	mock.addResponse("", errors.New("status failed"))

	d := NewDetectorWithRunner(mock)
	info := d.DetectActive("/wt")
	if info == nil {
		t.Fatal("DetectActive() = nil, want conflict info")
	}
	if info.Count != 1 || len(info.Files) != 1 {
		t.Errorf("Count = %d, Files = %v, want the file counted", info.Count, info.Files)
	}
	if *info.Details != (Details{}) {
		t.Errorf("Details = %+v, want all counters zero", *info.Details)
	}
}
