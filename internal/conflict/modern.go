package conflict

import (
	"strings"

	"github.com/arbor-cli/arbor/internal/errors"
	"github.com/arbor-cli/arbor/internal/gitexec"
)

// mergeTreeConflictExit is the exit status `git merge-tree --write-tree`
// documents for "merge completed with conflicts".
const mergeTreeConflictExit = 1

// DetectPotentialModern predicts whether merging the worktree's branch
// into targetBranch would conflict, using the dry-run tree merge available
// in git >= 2.38. The primitive never touches the index or the working
// directory, so concurrent probes across worktrees of one repository are
// safe.
//
// The probe is total: same-branch, missing merge base, and every
// unexpected failure mode collapse to nil, which means indeterminate,
// not conflict-free.
func (d *Detector) DetectPotentialModern(worktreePath, targetBranch string) *Info {
	branch, err := d.currentBranch(worktreePath)
	if err != nil || branch == targetBranch {
		return nil
	}

	base, err := d.mergeBase(worktreePath, branch, targetBranch)
	if err != nil {
		// No common ancestor, detached HEAD and similar edge cases.
		d.log.Debug("merge-base unavailable", "worktree", worktreePath, "target", targetBranch)
		return nil
	}

	_, err = d.runner.Run(worktreePath,
		"merge-tree", "--write-tree", "--merge-base", base, branch, targetBranch)
	if err == nil {
		// Merge computes cleanly.
		return nil
	}

	var cmdErr *gitexec.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.ExitCode != mergeTreeConflictExit {
		// Transport error or an exit status the tool does not document as
		// "conflicts present". Indeterminate is not an error.
		return nil
	}

	files := parseMergeTreeConflicts(cmdErr.Stdout)
	if len(files) == 0 {
		// The exit status proves a conflict exists even though no paths
		// were recoverable from the output. Never report clean here.
		return &Info{Kind: KindPotential, Count: 1}
	}

	return &Info{Kind: KindPotential, Files: files, Count: len(files)}
}

// parseMergeTreeConflicts recovers candidate conflicting paths from
// merge-tree output: diff-style `+++ <path>` headers contribute paths,
// de-duplicated in first-seen order, and conflict-marker lines are
// tolerated without contributing one.
//
// This is a textual heuristic and can under- or over-count when file
// contents or paths collide with marker-like substrings. That imprecision
// is a documented limitation of the probe, compensated by the count=1
// fallback above.
func parseMergeTreeConflicts(output string) []string {
	seen := make(map[string]struct{})
	var files []string

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "+++ "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
			path = strings.TrimPrefix(path, "b/")
			if path == "" || path == "/dev/null" {
				continue
			}
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			files = append(files, path)
		case strings.HasPrefix(line, "<<<<<<<"),
			strings.HasPrefix(line, "======="),
			strings.HasPrefix(line, ">>>>>>>"):
			// Markers confirm conflict content but carry no usable path.
			continue
		}
	}

	return files
}
