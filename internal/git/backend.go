// Package git reads commit history and refs from a repository and runs the
// branch operations the UI offers.
package git

import (
	"context"
	"time"

	"github.com/chmouel/lazygraph/internal/models"
)

// Backend is everything the UI needs from a repository.
type Backend interface {
	Root() string
	ListRefs(ctx context.Context) ([]models.Ref, error)
	Head(ctx context.Context) (hash, branch string, err error)
	WalkCommits(ctx context.Context, limit int) ([]models.Commit, error)
	DiffStat(ctx context.Context, hash string) (models.DiffStat, error)
	WorkingTreeDirty(ctx context.Context) (bool, error)
	WorkingTreeChanges(ctx context.Context) ([]models.WorktreeFile, error)

	Checkout(ctx context.Context, target string) error
	CreateBranch(ctx context.Context, name, at string) error
	DeleteBranch(ctx context.Context, name string) error
	Merge(ctx context.Context, branch string) error
	Rebase(ctx context.Context, onto string) error
	Fetch(ctx context.Context, remote string) error
}

// LoadSnapshot reads a complete commit model through b. History beyond
// limit commits is cut and flagged as truncated.
func LoadSnapshot(ctx context.Context, b Backend, limit int) (*models.Snapshot, error) {
	if limit <= 0 {
		limit = DefaultCommitLimit
	}
	refs, err := b.ListRefs(ctx)
	if err != nil {
		return nil, err
	}
	headHash, headBranch, err := b.Head(ctx)
	if err != nil {
		return nil, err
	}
	commits, err := b.WalkCommits(ctx, limit+1)
	if err != nil {
		return nil, err
	}
	truncated := len(commits) > limit
	if truncated {
		commits = commits[:limit]
	}
	dirty, err := b.WorkingTreeDirty(ctx)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		Commits:    commits,
		Refs:       refs,
		HeadHash:   headHash,
		HeadBranch: headBranch,
		Dirty:      dirty,
		Truncated:  truncated,
		LoadedAt:   time.Now(),
	}
	snap.AttachRefs()
	return snap, nil
}
