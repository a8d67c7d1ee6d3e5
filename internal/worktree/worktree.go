// Package worktree manages git worktrees for arbor: creating them with
// fresh branches, listing them, and removing them when work is done.
package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arbor-cli/arbor/internal/errors"
	"github.com/arbor-cli/arbor/internal/gitexec"
	"github.com/arbor-cli/arbor/internal/logging"
)

// Worktree describes a single entry from `git worktree list`.
type Worktree struct {
	// Path is the absolute path of the worktree's root directory.
	Path string
	// Head is the commit the worktree is checked out at.
	Head string
	// Branch is the short branch name, or empty for a detached HEAD.
	Branch string
	// Main marks the primary worktree (the repository itself).
	Main bool
}

// Manager handles git worktree operations for a single repository.
type Manager struct {
	repoDir string
	runner  gitexec.Runner
	log     *logging.Logger
}

// FindGitRoot finds the root of the git repository by traversing up from
// startDir. It returns the directory containing .git, which may be a
// directory (normal repo) or a file (linked worktree).
func FindGitRoot(startDir string) (string, error) {
	dir := startDir
	for {
		gitPath := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() || info.Mode().IsRegular() {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.NewGitError(
				fmt.Sprintf("no repository found above %s", startDir), errors.ErrNotGitRepository)
		}
		dir = parent
	}
}

// gitOutput extracts the captured stderr of a failed git command, if any.
func gitOutput(err error) string {
	var cmdErr *gitexec.CommandError
	if errors.As(err, &cmdErr) {
		return strings.TrimSpace(cmdErr.Stderr)
	}
	return ""
}

// New creates a Manager for the repository containing repoDir.
func New(repoDir string) (*Manager, error) {
	return NewWithRunner(repoDir, gitexec.NewCLIRunner())
}

// NewWithRunner is New with an explicit command runner, for tests.
func NewWithRunner(repoDir string, runner gitexec.Runner) (*Manager, error) {
	gitRoot, err := FindGitRoot(repoDir)
	if err != nil {
		return nil, errors.NewGitError("not a git repository", err).WithRepository(repoDir)
	}

	return &Manager{
		repoDir: gitRoot,
		runner:  runner,
		log:     logging.NopLogger(),
	}, nil
}

// WithLogger sets the logger used for worktree operations and returns m.
func (m *Manager) WithLogger(log *logging.Logger) *Manager {
	if log != nil {
		m.log = log
	}
	return m
}

// RepoDir returns the repository root the manager operates on.
func (m *Manager) RepoDir() string {
	return m.repoDir
}

// Create creates a new worktree at path with a new branch started from HEAD.
func (m *Manager) Create(path, branch string) error {
	m.log.Debug("creating worktree", "path", path, "branch", branch)
	if err := m.runner.Quiet(m.repoDir, "worktree", "add", "-b", branch, path); err != nil {
		return errors.NewGitError("failed to create worktree", err).
			WithWorktree(path).WithBranch(branch).WithGitOutput(gitOutput(err))
	}
	return nil
}

// CreateFromBranch creates a new worktree at path with a new branch
// started from baseBranch instead of HEAD.
func (m *Manager) CreateFromBranch(path, newBranch, baseBranch string) error {
	m.log.Debug("creating worktree", "path", path, "branch", newBranch, "base", baseBranch)
	if err := m.runner.Quiet(m.repoDir, "worktree", "add", "-b", newBranch, path, baseBranch); err != nil {
		return errors.NewGitError("failed to create worktree from "+baseBranch, err).
			WithWorktree(path).WithBranch(newBranch).WithGitOutput(gitOutput(err))
	}
	return nil
}

// CreateFromExisting creates a worktree at path checked out at an
// existing branch, without creating a new one.
func (m *Manager) CreateFromExisting(path, branch string) error {
	if err := m.runner.Quiet(m.repoDir, "worktree", "add", path, branch); err != nil {
		return errors.NewGitError("failed to create worktree for existing branch", err).
			WithWorktree(path).WithBranch(branch).WithGitOutput(gitOutput(err))
	}
	return nil
}

// Remove removes the worktree at path. If git refuses, the directory is
// deleted manually and stale worktree metadata is pruned.
func (m *Manager) Remove(path string) error {
	m.log.Debug("removing worktree", "path", path)
	if err := m.runner.Quiet(m.repoDir, "worktree", "remove", "--force", path); err != nil {
		_ = os.RemoveAll(path)
		_ = m.runner.Quiet(m.repoDir, "worktree", "prune")
		return errors.NewGitError("failed to remove worktree cleanly", err).
			WithWorktree(path).WithGitOutput(gitOutput(err))
	}
	return nil
}

// Prune removes stale worktree metadata for directories deleted outside git.
func (m *Manager) Prune() error {
	if err := m.runner.Quiet(m.repoDir, "worktree", "prune"); err != nil {
		return errors.NewGitError("failed to prune worktrees", err).WithRepository(m.repoDir)
	}
	return nil
}

// List returns all worktrees of the repository, the main worktree first.
func (m *Manager) List() ([]Worktree, error) {
	out, err := m.runner.Run(m.repoDir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, errors.NewGitError("failed to list worktrees", err).WithRepository(m.repoDir)
	}
	return parseWorktreeList(out), nil
}

// parseWorktreeList parses `git worktree list --porcelain` output.
// Entries are blocks of attribute lines separated by blank lines; the
// first entry is always the main worktree.
func parseWorktreeList(out string) []Worktree {
	var worktrees []Worktree
	var current *Worktree

	flush := func() {
		if current != nil {
			worktrees = append(worktrees, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &Worktree{
				Path: strings.TrimPrefix(line, "worktree "),
				Main: len(worktrees) == 0,
			}
		case current == nil:
			// Attribute line before any worktree header; ignore.
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "":
			flush()
		}
	}
	flush()

	return worktrees
}

// GetBranch returns the branch checked out in the worktree at path.
func (m *Manager) GetBranch(path string) (string, error) {
	out, err := gitexec.Output(m.runner, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", errors.NewGitError("failed to resolve branch", err).WithWorktree(path)
	}
	return out, nil
}

// DeleteBranch force-deletes a branch.
func (m *Manager) DeleteBranch(branch string) error {
	if err := m.runner.Quiet(m.repoDir, "branch", "-D", branch); err != nil {
		return errors.NewGitError("failed to delete branch", err).
			WithBranch(branch).WithGitOutput(gitOutput(err))
	}
	return nil
}

// HasUncommittedChanges reports whether the worktree at path has any
// staged, unstaged, or untracked changes.
func (m *Manager) HasUncommittedChanges(path string) (bool, error) {
	out, err := gitexec.Output(m.runner, path, "status", "--porcelain")
	if err != nil {
		return false, errors.NewGitError("failed to check status", err).WithWorktree(path)
	}
	return out != "", nil
}

// FindMainBranch returns the repository's primary branch name, "main"
// when such a branch exists and "master" otherwise.
func (m *Manager) FindMainBranch() string {
	if err := m.runner.Quiet(m.repoDir, "rev-parse", "--verify", "main"); err == nil {
		return "main"
	}
	return "master"
}

// BranchName builds a worktree branch name from a prefix and a task name.
// An empty prefix yields the bare name.
func BranchName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
