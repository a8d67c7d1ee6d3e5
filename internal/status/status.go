// Package status collects and renders per-worktree conflict reports.
package status

import (
	"encoding/json"

	"github.com/arbor-cli/arbor/internal/conflict"
	"github.com/arbor-cli/arbor/internal/errors"
	"github.com/arbor-cli/arbor/internal/worktree"
)

// Detector is the part of conflict.Detector the collector needs.
type Detector interface {
	DetectConflicts(worktreePath, targetBranch string) conflict.Result
}

// Entry is the status of one worktree.
type Entry struct {
	Path      string          `json:"path"`
	Branch    string          `json:"branch,omitempty"`
	Main      bool            `json:"main,omitempty"`
	Dirty     bool            `json:"dirty"`
	Conflicts conflict.Result `json:"conflicts"`
}

// Report is the full status of a repository's worktrees.
type Report struct {
	TargetBranch string  `json:"target_branch"`
	Entries      []Entry `json:"worktrees"`
}

// Collect builds a Report for every linked worktree of the repository.
// The main worktree is listed but not probed against the target branch,
// since it usually is the target. A nil detector skips conflict
// detection entirely.
func Collect(ops worktree.Operations, det Detector, targetBranch string) (*Report, error) {
	trees, err := ops.List()
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect worktree status")
	}

	report := &Report{TargetBranch: targetBranch}
	for _, tree := range trees {
		entry := Entry{
			Path:   tree.Path,
			Branch: tree.Branch,
			Main:   tree.Main,
		}

		if dirty, err := ops.HasUncommittedChanges(tree.Path); err == nil {
			entry.Dirty = dirty
		}

		if det != nil && !tree.Main {
			entry.Conflicts = det.DetectConflicts(tree.Path, targetBranch)
		}

		report.Entries = append(report.Entries, entry)
	}

	return report, nil
}

// HasConflicts reports whether any worktree in the report has active or
// potential conflicts.
func (r *Report) HasConflicts() bool {
	for _, e := range r.Entries {
		if e.Conflicts.HasConflicts() {
			return true
		}
	}
	return false
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal status report")
	}
	return string(data), nil
}
