// Package history commits table rewrites to a git repository, giving a
// browsable mutation log for a data directory. Pure Go via go-git; no git
// binary is required.
package history

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	defaultName  = "dtfdb"
	defaultEmail = "dtfdb@localhost"
)

// Tracker records mutations as commits in a repository rooted at the data
// directory.
type Tracker struct {
	dir  string
	repo *gogit.Repository
	mu   sync.Mutex
}

// New opens the repository at dir, initializing one if absent.
func New(dir string) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		// Not a repo yet — initialize.
		repo, err = gogit.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize history repo: %w", err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, fmt.Errorf("failed to read git config: %w", err)
		}
		cfg.User.Name = defaultName
		cfg.User.Email = defaultEmail
		if err := repo.SetConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to write git config: %w", err)
		}
	}
	return &Tracker{dir: dir, repo: repo}, nil
}

// Commit stages the given files (paths relative to the data directory)
// and commits them with msg. A commit with no staged changes is a no-op.
func (t *Tracker) Commit(ctx context.Context, msg string, files ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	w, err := t.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	for _, f := range files {
		if _, err := w.Add(f); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f, err)
		}
	}
	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to get worktree status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	_, err = w.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  defaultName,
			Email: defaultEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
