package conflict

import (
	"strings"
	"sync"

	"github.com/arbor-cli/arbor/internal/gitexec"
	"github.com/arbor-cli/arbor/internal/logging"
)

// DefaultTargetBranch is the branch merged against when the caller does
// not name one.
const DefaultTargetBranch = "main"

// Detector predicts merge conflicts for worktrees. It holds the
// per-batch git version cache: create one Detector per batch of
// detections, and the version is resolved at most once across it.
//
// All detection methods are total: they return nil rather than an error
// when a probe is indeterminate. The one exception is ResolveVersion,
// whose failure DetectConflicts contains.
type Detector struct {
	runner     gitexec.Runner
	log        *logging.Logger
	stashLabel string

	mu      sync.Mutex
	version *Version
}

// NewDetector creates a Detector that executes git via the CLI.
func NewDetector() *Detector {
	return NewDetectorWithRunner(gitexec.NewCLIRunner())
}

// NewDetectorWithRunner creates a Detector with a custom command runner.
// This is primarily useful for testing.
func NewDetectorWithRunner(runner gitexec.Runner) *Detector {
	return &Detector{
		runner:     runner,
		log:        logging.NopLogger(),
		stashLabel: StashLabel,
	}
}

// WithLogger sets the logger used for probe diagnostics and returns the
// Detector for chaining.
func (d *Detector) WithLogger(log *logging.Logger) *Detector {
	if log != nil {
		d.log = log
	}
	return d
}

// WithStashLabel overrides the message used when the legacy probe stashes
// uncommitted changes.
func (d *Detector) WithStashLabel(label string) *Detector {
	if label != "" {
		d.stashLabel = label
	}
	return d
}

// DetectConflicts runs both detection phases for one worktree and never
// returns an error.
//
// The active scan runs first and its result is kept unconditionally. The
// potential phase then selects the modern or legacy strategy based on the
// installed git version; if the version cannot be resolved, or the
// selected probe is indeterminate, the Potential field is simply absent.
// Callers must not read an absent field as a conflict-free guarantee.
func (d *Detector) DetectConflicts(worktreePath, targetBranch string) Result {
	if targetBranch == "" {
		targetBranch = DefaultTargetBranch
	}

	result := Result{Active: d.DetectActive(worktreePath)}

	v, err := d.ResolveVersion()
	if err != nil {
		// The one hard error in the engine. An already-computed active
		// result is never discarded because this phase failed.
		d.log.Warn("skipping potential-conflict detection", "error", err.Error())
		return result
	}

	if SupportsMergeTree(v) {
		result.Potential = d.DetectPotentialModern(worktreePath, targetBranch)
	} else {
		result.Potential = d.DetectPotentialLegacy(worktreePath, targetBranch)
	}
	return result
}

// currentBranch returns the worktree's checked-out branch name.
func (d *Detector) currentBranch(worktreePath string) (string, error) {
	out, err := d.runner.Run(worktreePath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// mergeBase returns the common ancestor of two refs.
func (d *Detector) mergeBase(worktreePath, ref, target string) (string, error) {
	out, err := d.runner.Run(worktreePath, "merge-base", ref, target)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// unmergedFiles lists paths currently in a conflicted index state, in
// status-scan order. Failures collapse to an empty list.
func (d *Detector) unmergedFiles(worktreePath string) []string {
	out, err := d.runner.Run(worktreePath, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil
	}
	return splitLines(out)
}

// splitLines splits command output into trimmed, non-empty lines.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
