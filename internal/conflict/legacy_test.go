package conflict

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/arbor-cli/arbor/internal/gitexec"
)

func mergeFailure(output string) error {
	return &gitexec.CommandError{
		Args:     []string{"merge"},
		ExitCode: 1,
		Stdout:   output,
	}
}

func TestDetectPotentialLegacy_SameBranch(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("main\n", nil)

	d := NewDetectorWithRunner(mock)
	if info := d.DetectPotentialLegacy("/wt", "main"); info != nil {
		t.Errorf("DetectPotentialLegacy() = %+v, want nil on target branch", info)
	}
	if mock.invoked("merge") {
		t.Error("merge invoked despite same-branch short-circuit")
	}
}

func TestDetectPotentialLegacy_CleanMergeCleanTree(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("feature\n", nil) // rev-parse
	mock.addResponse("", nil)          // status: clean
	mock.addResponse("", nil)          // merge succeeds
	mock.addResponse("", nil)          // merge --abort

	d := NewDetectorWithRunner(mock)
	if info := d.DetectPotentialLegacy("/wt", "main"); info != nil {
		t.Errorf("DetectPotentialLegacy() = %+v, want nil for clean merge", info)
	}

	// Even a successful probe merge must be aborted, and a clean tree
	// must not be stashed.
	got := mock.subcommands()
	want := []string{"rev-parse", "status", "merge", "merge"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("call sequence = %v, want %v", got, want)
	}
	if mock.invoked("stash") {
		t.Error("stash invoked for a clean working tree")
	}
}

func TestDetectPotentialLegacy_ConflictWithDirtyTree(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("feature\n", nil)                          // rev-parse
	mock.addResponse(" M notes.txt\n", nil)                     // status: dirty
	mock.addResponse("Saved working directory\n", nil)          // stash push
	mock.addResponse("", mergeFailure("CONFLICT (content)...")) // merge
	mock.addResponse("shared.txt\n", nil)                       // diff --diff-filter=U
	mock.addResponse("", nil)                                   // merge --abort
	mock.addResponse("", nil)                                   // stash pop

	d := NewDetectorWithRunner(mock)
	info := d.DetectPotentialLegacy("/wt", "main")
	if info == nil {
		t.Fatal("DetectPotentialLegacy() = nil, want conflict info")
	}

	if !reflect.DeepEqual(info.Files, []string{"shared.txt"}) {
		t.Errorf("Files = %v, want [shared.txt]", info.Files)
	}
	if info.Count != 1 {
		t.Errorf("Count = %d, want 1", info.Count)
	}

	got := mock.subcommands()
	want := []string{"rev-parse", "status", "stash", "merge", "diff", "merge", "stash"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("call sequence = %v, want %v", got, want)
	}

	// The stash label must make probe entries recognizable.
	stashPush := mock.calls[2]
	if !reflect.DeepEqual(stashPush.args, []string{"stash", "push", "-u", "-m", StashLabel}) {
		t.Errorf("stash push args = %v, want labelled push", stashPush.args)
	}
	// Restore runs last.
	stashPop := mock.calls[len(mock.calls)-1]
	if len(stashPop.args) < 2 || stashPop.args[1] != "pop" {
		t.Errorf("final call = %v, want stash pop", stashPop.args)
	}
}

func TestDetectPotentialLegacy_CustomStashLabel(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("feature\n", nil)      // rev-parse
	mock.addResponse(" M notes.txt\n", nil) // status: dirty
	mock.addResponse("", nil)               // stash push
	mock.addResponse("", nil)               // merge succeeds
	mock.addResponse("", nil)               // merge --abort
	mock.addResponse("", nil)               // stash pop

	d := NewDetectorWithRunner(mock).WithStashLabel("team-probe")
	d.DetectPotentialLegacy("/wt", "main")

	stashPush := mock.calls[2]
	if !reflect.DeepEqual(stashPush.args, []string{"stash", "push", "-u", "-m", "team-probe"}) {
		t.Errorf("stash push args = %v, want custom label", stashPush.args)
	}
}

func TestDetectPotentialLegacy_StashPopFailureDoesNotChangeResult(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("feature\n", nil)
	mock.addResponse(" M notes.txt\n", nil)
	mock.addResponse("", nil)                          // stash push
	mock.addResponse("", mergeFailure("CONFLICT"))     // merge
	mock.addResponse("shared.txt\n", nil)              // unmerged files
	mock.addResponse("", nil)                          // merge --abort
	mock.addResponse("", errors.New("pop conflicted")) // stash pop fails

	d := NewDetectorWithRunner(mock)
	info := d.DetectPotentialLegacy("/wt", "main")
	if info == nil || info.Count != 1 {
		t.Fatalf("DetectPotentialLegacy() = %+v, want one conflict regardless of pop failure", info)
	}
	// The failed pop leaves the stash entry alone: no drop, no retry.
	for _, c := range mock.calls {
		if len(c.args) >= 2 && c.args[0] == "stash" && c.args[1] == "drop" {
			t.Error("stash drop invoked, stash entry must be left for manual recovery")
		}
	}
}

func TestDetectPotentialLegacy_AbortFailureSwallowed(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("feature\n", nil)
	mock.addResponse("", nil)                      // clean tree
	mock.addResponse("", mergeFailure("CONFLICT")) // merge
	mock.addResponse("a.txt\n", nil)               // unmerged files
	mock.addResponse("", errors.New("no merge to abort"))

	d := NewDetectorWithRunner(mock)
	info := d.DetectPotentialLegacy("/wt", "main")
	if info == nil || info.Count != 1 {
		t.Fatalf("DetectPotentialLegacy() = %+v, want conflict despite abort failure", info)
	}
}

func TestDetectPotentialLegacy_StashPushFailure(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("feature\n", nil)
	mock.addResponse(" M notes.txt\n", nil)
	mock.addResponse("", errors.New("stash failed"))

	d := NewDetectorWithRunner(mock)
	if info := d.DetectPotentialLegacy("/wt", "main"); info != nil {
		t.Errorf("DetectPotentialLegacy() = %+v, want nil when snapshot fails", info)
	}
	// No merge may run against an unsnapshotted dirty tree.
	if mock.invoked("merge") {
		t.Error("merge invoked after failed stash push")
	}
}

func TestDetectPotentialLegacy_MergeFailsWithoutConflicts(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("feature\n", nil)
	mock.addResponse("", nil) // clean tree
	mock.addResponse("", mergeFailure("fatal: 'nosuch' does not point to a commit"))
	mock.addResponse("", nil) // unmerged files: none
	mock.addResponse("", nil) // merge --abort

	d := NewDetectorWithRunner(mock)
	if info := d.DetectPotentialLegacy("/wt", "nosuch"); info != nil {
		t.Errorf("DetectPotentialLegacy() = %+v, want nil for non-conflict merge failure", info)
	}
}

func TestDetectPotentialLegacy_RestoreRunsWhenMergeExplodes(t *testing.T) {
	// RESTORE must run on every exit path once a stash exists.
	mock := newMockRunner()
	mock.addResponse("feature\n", nil)
	mock.addResponse(" M notes.txt\n", nil)
	mock.addResponse("", nil)                             // stash push
	mock.addResponse("", errors.New("fork/exec: killed")) // merge transport error
	mock.addResponse("", nil)                             // unmerged files
	mock.addResponse("", nil)                             // merge --abort
	mock.addResponse("", nil)                             // stash pop

	d := NewDetectorWithRunner(mock)
	d.DetectPotentialLegacy("/wt", "main")

	subs := strings.Join(mock.subcommands(), " ")
	if !strings.HasSuffix(subs, "stash") {
		t.Errorf("call sequence %q does not end with stash pop", subs)
	}
}
