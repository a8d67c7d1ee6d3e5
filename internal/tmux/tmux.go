// Package tmux provides helpers for arbor's optional tmux integration.
//
// Arbor keeps its windows on a dedicated socket (default "arbor") so it
// never touches the user's own tmux server. All windows live in a single
// session, one window per worktree.
package tmux

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/arbor-cli/arbor/internal/errors"
)

// DefaultSocketName is the tmux socket arbor uses unless configured otherwise.
const DefaultSocketName = "arbor"

// SessionName is the single tmux session holding arbor's worktree windows.
const SessionName = "arbor"

const commandTimeout = 2 * time.Second

// Client runs tmux commands against one socket.
type Client struct {
	socket string
}

// NewClient returns a Client for the given socket name. An empty name
// uses DefaultSocketName.
func NewClient(socket string) *Client {
	if socket == "" {
		socket = DefaultSocketName
	}
	return &Client{socket: socket}
}

// Socket returns the socket name the client talks to.
func (c *Client) Socket() string {
	return c.socket
}

// Command creates an exec.Cmd for tmux on the client's socket.
func (c *Client) Command(args ...string) *exec.Cmd {
	return exec.Command("tmux", append([]string{"-L", c.socket}, args...)...)
}

// CommandContext is Command with context cancellation.
func (c *Client) CommandContext(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, "tmux", append([]string{"-L", c.socket}, args...)...)
}

// Available reports whether a tmux binary can be found on PATH.
func Available() bool {
	_, err := exec.LookPath("tmux")
	return err == nil
}

// HasServer reports whether a tmux server is running on the client's socket.
func (c *Client) HasServer() bool {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return c.CommandContext(ctx, "has-session").Run() == nil
}

// EnsureSession starts the arbor session if it does not exist yet.
// The first window is created detached with the given working directory.
func (c *Client) EnsureSession(dir string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if c.CommandContext(ctx, "has-session", "-t", SessionName).Run() == nil {
		return nil
	}

	if err := c.Command("new-session", "-d", "-s", SessionName, "-c", dir).Run(); err != nil {
		return errors.NewTmuxError("failed to start session", err).WithSession(SessionName)
	}
	return nil
}

// OpenWindow creates a detached window named for the worktree, with the
// worktree as its working directory. The session is created on demand.
func (c *Client) OpenWindow(name, dir string) error {
	if err := c.EnsureSession(dir); err != nil {
		return err
	}

	window := WindowName(name)
	if err := c.Command("new-window", "-d", "-t", SessionName, "-n", window, "-c", dir).Run(); err != nil {
		return errors.NewTmuxError("failed to open window", err).
			WithSession(SessionName).WithWindow(window)
	}
	return nil
}

// CloseWindow kills the window for the named worktree. Missing windows
// are not an error.
func (c *Client) CloseWindow(name string) error {
	window := WindowName(name)
	target := SessionName + ":" + window

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	// Probe first so a missing window isn't reported as a failure.
	if c.CommandContext(ctx, "list-windows", "-t", SessionName, "-F", "#{window_name}").Run() != nil {
		return nil
	}

	windows, err := c.ListWindows()
	if err != nil {
		return nil
	}
	for _, w := range windows {
		if w == window {
			if err := c.Command("kill-window", "-t", target).Run(); err != nil {
				return errors.NewTmuxError("failed to close window", err).
					WithSession(SessionName).WithWindow(window)
			}
			return nil
		}
	}
	return nil
}

// ListWindows returns the names of all windows in the arbor session.
func (c *Client) ListWindows() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := c.CommandContext(ctx, "list-windows", "-t", SessionName, "-F", "#{window_name}").Output()
	if err != nil {
		return nil, errors.NewTmuxError("failed to list windows", err).WithSession(SessionName)
	}

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// KillServer kills the tmux server on the client's socket, taking all
// arbor windows with it.
func (c *Client) KillServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return c.CommandContext(ctx, "kill-server").Run()
}

// WindowName converts a worktree name into a valid tmux window name.
// tmux treats dots and colons as target syntax, so they are replaced.
func WindowName(name string) string {
	r := strings.NewReplacer(".", "-", ":", "-", " ", "-")
	return r.Replace(name)
}
