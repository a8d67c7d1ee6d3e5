package conflict

import (
	"strings"
	"testing"

	"github.com/arbor-cli/arbor/internal/errors"
	"github.com/arbor-cli/arbor/internal/gitexec"
)

// -----------------------------------------------------------------------------
// Mock Runner for Unit Tests
// -----------------------------------------------------------------------------

// runnerCall records a single git invocation
type runnerCall struct {
	dir  string
	args []string
}

// mockRunner is a test double for gitexec.Runner that replays canned
// responses in call order
type mockRunner struct {
	calls     []runnerCall
	outputs   []string
	errs      []error
	callIndex int
}

func newMockRunner() *mockRunner {
	return &mockRunner{}
}

func (m *mockRunner) addResponse(output string, err error) {
	m.outputs = append(m.outputs, output)
	m.errs = append(m.errs, err)
}

func (m *mockRunner) Run(dir string, args ...string) (string, error) {
	m.calls = append(m.calls, runnerCall{dir: dir, args: args})
	idx := m.callIndex
	m.callIndex++
	if idx < len(m.outputs) {
		return m.outputs[idx], m.errs[idx]
	}
	return "", nil
}

func (m *mockRunner) Quiet(dir string, args ...string) error {
	_, err := m.Run(dir, args...)
	return err
}

// subcommands returns the first argument of each recorded call.
func (m *mockRunner) subcommands() []string {
	var subs []string
	for _, c := range m.calls {
		if len(c.args) > 0 {
			subs = append(subs, c.args[0])
		}
	}
	return subs
}

func (m *mockRunner) invoked(subcommand string) bool {
	for _, s := range m.subcommands() {
		if s == subcommand {
			return true
		}
	}
	return false
}

// conflictExit builds the error the runner produces when git exits with
// the merge-tree conflict status.
func conflictExit(stdout string) error {
	return &gitexec.CommandError{
		Args:     []string{"merge-tree"},
		ExitCode: mergeTreeConflictExit,
		Stdout:   stdout,
	}
}

// -----------------------------------------------------------------------------
// Version Resolution
// -----------------------------------------------------------------------------

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    Version
		wantErr bool
	}{
		{
			name:   "plain version",
			output: "git version 2.39.1\n",
			want:   Version{Major: 2, Minor: 39, Patch: 1},
		},
		{
			name:   "apple git suffix",
			output: "git version 2.39.3 (Apple Git-146)\n",
			want:   Version{Major: 2, Minor: 39, Patch: 3},
		},
		{
			name:   "large components",
			output: "git version 10.0.12",
			want:   Version{Major: 10, Minor: 0, Patch: 12},
		},
		{
			name:    "missing patch component",
			output:  "git version 2.39\n",
			wantErr: true,
		},
		{
			name:    "empty output",
			output:  "",
			wantErr: true,
		},
		{
			name:    "unrelated output",
			output:  "command not found\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v, wantErr %v", tt.output, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrVersionParse) {
					t.Errorf("ParseVersion(%q) error = %v, want ErrVersionParse", tt.output, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.output, got, tt.want)
			}
		})
	}
}

func TestSupportsMergeTree(t *testing.T) {
	tests := []struct {
		version Version
		want    bool
	}{
		{Version{2, 38, 0}, true},
		{Version{2, 38, 1}, true},
		{Version{2, 39, 0}, true},
		{Version{2, 37, 9}, false},
		{Version{2, 0, 0}, false},
		{Version{3, 0, 0}, true},
		{Version{1, 99, 99}, false},
	}

	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			if got := SupportsMergeTree(tt.version); got != tt.want {
				t.Errorf("SupportsMergeTree(%v) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestResolveVersion_CachesAcrossCalls(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("git version 2.40.0\n", nil)

	d := NewDetectorWithRunner(mock)

	for i := 0; i < 3; i++ {
		v, err := d.ResolveVersion()
		if err != nil {
			t.Fatalf("ResolveVersion() call %d error: %v", i, err)
		}
		if v != (Version{Major: 2, Minor: 40, Patch: 0}) {
			t.Fatalf("ResolveVersion() call %d = %v, want 2.40.0", i, v)
		}
	}

	if len(mock.calls) != 1 {
		t.Errorf("git invoked %d times, want 1 (cached)", len(mock.calls))
	}
}

func TestResolveVersion_ResetForcesReresolve(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("git version 2.36.0\n", nil)
	mock.addResponse("git version 2.41.0\n", nil)

	d := NewDetectorWithRunner(mock)

	if v, _ := d.ResolveVersion(); v != (Version{Major: 2, Minor: 36, Patch: 0}) {
		t.Fatalf("first ResolveVersion() = %v, want 2.36.0", v)
	}

	d.ResetVersion()

	if v, _ := d.ResolveVersion(); v != (Version{Major: 2, Minor: 41, Patch: 0}) {
		t.Fatalf("ResolveVersion() after reset = %v, want 2.41.0", v)
	}
	if len(mock.calls) != 2 {
		t.Errorf("git invoked %d times, want 2", len(mock.calls))
	}
}

func TestResolveVersion_UnparseableOutput(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("definitely not git\n", nil)

	d := NewDetectorWithRunner(mock)
	_, err := d.ResolveVersion()
	if err == nil {
		t.Fatal("ResolveVersion() error = nil, want VersionError")
	}

	var versionErr *errors.VersionError
	if !errors.As(err, &versionErr) {
		t.Fatalf("ResolveVersion() error = %T, want *errors.VersionError", err)
	}
	if !strings.Contains(versionErr.RawOutput, "definitely not git") {
		t.Errorf("VersionError.RawOutput = %q, want raw output preserved", versionErr.RawOutput)
	}
}

// -----------------------------------------------------------------------------
// DetectConflicts Aggregation
// -----------------------------------------------------------------------------

func TestDetectConflicts_ActiveKeptWhenVersionFails(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("README.md\n", nil)              // diff --diff-filter=U
	mock.addResponse("UU README.md\n", nil)           // status for README.md
	mock.addResponse("unversioned build of git", nil) // git version

	d := NewDetectorWithRunner(mock)
	result := d.DetectConflicts("/wt", "main")

	if result.Active == nil {
		t.Fatal("Active = nil, want conflict info")
	}
	if got := result.Active.Files; len(got) != 1 || got[0] != "README.md" {
		t.Errorf("Active.Files = %v, want [README.md]", got)
	}
	if result.Active.Count != 1 {
		t.Errorf("Active.Count = %d, want 1", result.Active.Count)
	}
	if result.Active.Details == nil || result.Active.Details.BothModified != 1 {
		t.Errorf("Active.Details = %+v, want BothModified=1", result.Active.Details)
	}
	if result.Potential != nil {
		t.Errorf("Potential = %+v, want nil when version resolution fails", result.Potential)
	}
}

func TestDetectConflicts_SelectsModernStrategy(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("", nil)                                       // active scan: clean
	mock.addResponse("git version 2.39.5\n", nil)                   // version
	mock.addResponse("feature\n", nil)                              // rev-parse
	mock.addResponse("abc123\n", nil)                               // merge-base
	mock.addResponse("", conflictExit("+++ a.txt\n<<<<<<< ours\n")) // merge-tree

	d := NewDetectorWithRunner(mock)
	result := d.DetectConflicts("/wt", "main")

	if result.Active != nil {
		t.Errorf("Active = %+v, want nil for clean worktree", result.Active)
	}
	if result.Potential == nil {
		t.Fatal("Potential = nil, want conflict info")
	}
	if !mock.invoked("merge-tree") {
		t.Error("merge-tree not invoked, modern strategy expected for git 2.39")
	}
	if mock.invoked("merge") {
		t.Error("merge invoked, legacy strategy must not run on git 2.39")
	}
}

func TestDetectConflicts_SelectsLegacyStrategy(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("", nil)                     // active scan: clean
	mock.addResponse("git version 2.37.9\n", nil) // version
	mock.addResponse("feature\n", nil)            // rev-parse
	mock.addResponse("", nil)                     // status: clean, no stash
	mock.addResponse("", nil)                     // merge: clean
	mock.addResponse("", nil)                     // merge --abort

	d := NewDetectorWithRunner(mock)
	result := d.DetectConflicts("/wt", "main")

	if result.Potential != nil {
		t.Errorf("Potential = %+v, want nil for clean merge", result.Potential)
	}
	if mock.invoked("merge-tree") {
		t.Error("merge-tree invoked, dry-run primitive unavailable on git 2.37")
	}
	if !mock.invoked("merge") {
		t.Error("merge not invoked, legacy strategy expected for git 2.37")
	}
}

func TestDetectConflicts_DefaultsTargetBranch(t *testing.T) {
	mock := newMockRunner()
	mock.addResponse("", nil)                     // active scan
	mock.addResponse("git version 2.40.1\n", nil) // version
	mock.addResponse("main\n", nil)               // rev-parse: already on main

	d := NewDetectorWithRunner(mock)
	result := d.DetectConflicts("/wt", "")

	if result.Active != nil || result.Potential != nil {
		t.Errorf("DetectConflicts() = %+v, want empty result", result)
	}
	// Same-branch short-circuit: no merge-base call after rev-parse.
	if mock.invoked("merge-base") {
		t.Error("merge-base invoked for worktree already on the default target branch")
	}
}

func TestDetectConflicts_VersionResolvedOncePerBatch(t *testing.T) {
	mock := newMockRunner()
	// First detection
	mock.addResponse("", nil)                     // active
	mock.addResponse("git version 2.40.1\n", nil) // version
	mock.addResponse("main\n", nil)               // rev-parse
	// Second detection: no version response scripted; a second version
	// call would consume the rev-parse response and fail the assertions.
	mock.addResponse("", nil)       // active
	mock.addResponse("main\n", nil) // rev-parse

	d := NewDetectorWithRunner(mock)
	d.DetectConflicts("/wt-a", "main")
	d.DetectConflicts("/wt-b", "main")

	versionCalls := 0
	for _, sub := range mock.subcommands() {
		if sub == "version" {
			versionCalls++
		}
	}
	if versionCalls != 1 {
		t.Errorf("git version invoked %d times across batch, want 1", versionCalls)
	}
}

func TestResultHasConflicts(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   bool
	}{
		{"empty", Result{}, false},
		{"active only", Result{Active: &Info{Kind: KindActive, Count: 1}}, true},
		{"potential only", Result{Potential: &Info{Kind: KindPotential, Count: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.HasConflicts(); got != tt.want {
				t.Errorf("HasConflicts() = %v, want %v", got, tt.want)
			}
		})
	}
}
