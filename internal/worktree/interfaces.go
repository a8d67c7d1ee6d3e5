package worktree

// Operations abstracts worktree management so commands can be tested
// against a mock implementation.
type Operations interface {
	// Create creates a worktree at path with a new branch from HEAD.
	Create(path, branch string) error

	// CreateFromBranch creates a worktree at path with a new branch
	// started from baseBranch.
	CreateFromBranch(path, newBranch, baseBranch string) error

	// CreateFromExisting creates a worktree checked out at an existing branch.
	CreateFromExisting(path, branch string) error

	// Remove removes the worktree at path.
	Remove(path string) error

	// Prune removes stale worktree metadata.
	Prune() error

	// List returns all worktrees, the main worktree first.
	List() ([]Worktree, error)

	// GetBranch returns the branch checked out in the worktree at path.
	GetBranch(path string) (string, error)

	// DeleteBranch force-deletes a branch.
	DeleteBranch(branch string) error

	// HasUncommittedChanges reports whether the worktree at path is dirty.
	HasUncommittedChanges(path string) (bool, error)

	// FindMainBranch returns the repository's primary branch name.
	FindMainBranch() string

	// RepoDir returns the repository root the implementation operates on.
	RepoDir() string
}

var _ Operations = (*Manager)(nil)
