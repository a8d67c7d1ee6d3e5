// Package conflict predicts merge conflicts for git worktrees without
// mutating repository state and without ever surfacing an error to the
// caller.
//
// Detection has two independent phases. The active scan inspects the
// index for conflicts that already exist. The potential probe asks
// whether merging the worktree's branch into a target branch would
// conflict, using one of two mutually exclusive strategies gated by the
// installed git version:
//
//   - git >= 2.38: a dry-run tree merge (`merge-tree --write-tree`) that
//     touches neither the index nor the working directory.
//   - older git: a real merge attempt wrapped in a stash/abort/restore
//     protocol that leaves the worktree byte-identical afterwards.
//
// Every probe is best-effort. Indeterminate situations (same branch as
// target, missing merge base, unexpected tool failures) collapse to a nil
// result, which callers must read as "not determinable", never as a
// conflict-free guarantee. The only hard error in the package is git
// version resolution, and DetectConflicts contains it.
//
// A Detector caches the resolved git version for its lifetime; create one
// Detector per batch of detections.
package conflict
