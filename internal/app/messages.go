package app

import "github.com/chmouel/lazygraph/internal/models"

// Message types for the Bubble Tea app
type (
	snapshotLoadedMsg struct {
		seq  uint64
		snap *models.Snapshot
		err  error
	}
	opResultMsg struct {
		id  uint64
		op  operation
		err error
	}
	diffStatLoadedMsg struct {
		hash string
		stat models.DiffStat
		err  error
	}
	worktreeChangesMsg struct {
		files []models.WorktreeFile
		err   error
	}
	detailDebounceMsg struct {
		key string
	}
	statusExpiredMsg struct {
		seq uint64
	}
	gitDirChangedMsg   struct{}
	autoRefreshTickMsg struct{}
)
