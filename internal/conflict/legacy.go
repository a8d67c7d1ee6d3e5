package conflict

import "strings"

// StashLabel is the default message marking stash entries created by the
// legacy probe, so a user can recognize them if a restore ever fails.
const StashLabel = "arbor-conflict-probe"

// DetectPotentialLegacy predicts merge conflicts on git versions without
// the dry-run tree merge, by performing a real merge attempt and undoing
// it. The worktree is left byte-identical to its pre-call state on every
// path through the probe, with one deliberate exception: if restoring
// stashed changes fails, the stash entry is left in the stash list for
// manual recovery rather than dropped. Silently losing uncommitted work
// is worse than leaving a stash entry behind.
//
// The stash list and in-progress merge marker are repository-wide state
// shared across worktrees, so callers must serialize legacy probes
// against worktrees of the same repository.
//
// The probe is total: every failure collapses to nil.
func (d *Detector) DetectPotentialLegacy(worktreePath, targetBranch string) *Info {
	branch, err := d.currentBranch(worktreePath)
	if err != nil || branch == targetBranch {
		return nil
	}

	statusOut, err := d.runner.Run(worktreePath, "status", "--porcelain")
	if err != nil {
		return nil
	}

	stashed := false
	if strings.TrimSpace(statusOut) != "" {
		if _, err := d.runner.Run(worktreePath, "stash", "push", "-u", "-m", d.stashLabel); err != nil {
			return nil
		}
		stashed = true
	}
	// Once a stash exists, restore must run no matter how the merge
	// attempt exits.
	defer func() {
		if !stashed {
			return
		}
		if _, err := d.runner.Run(worktreePath, "stash", "pop"); err != nil {
			d.log.Warn("stash pop failed, leaving changes in stash list",
				"worktree", worktreePath, "label", d.stashLabel)
		}
	}()

	_, mergeErr := d.runner.Run(worktreePath, "merge", "--no-commit", "--no-ff", targetBranch)
	if mergeErr == nil {
		// Clean merge. The probe must never commit it.
		d.abortMerge(worktreePath)
		return nil
	}

	files := d.unmergedFiles(worktreePath)

	// Abort failure is swallowed: some git versions clear merge state on
	// their own when the merge attempt fails.
	d.abortMerge(worktreePath)

	if len(files) == 0 {
		// The merge failed for a reason other than conflicts (bad target
		// ref, unrelated histories). Indeterminate, not an error.
		return nil
	}

	return &Info{Kind: KindPotential, Files: files, Count: len(files)}
}

// abortMerge unwinds an in-progress merge, ignoring failure.
func (d *Detector) abortMerge(worktreePath string) {
	_, _ = d.runner.Run(worktreePath, "merge", "--abort")
}
