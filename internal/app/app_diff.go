package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	log "github.com/chmouel/lazygraph/internal/log"
)

// detailKey identifies what the detail pane should show for the current
// graph selection.
func (m *Model) detailKey() string {
	if m.isUncommittedRow(m.view.Graph.Selected) {
		return uncommittedKey
	}
	if c, ok := m.selectedCommit(); ok {
		return c.Hash
	}
	return ""
}

// selectionChanged schedules a detail load for the new selection once the
// cursor has settled.
func (m *Model) selectionChanged() tea.Cmd {
	key := m.detailKey()
	if key == "" || key == m.detail.key {
		return nil
	}
	m.detail = detailState{key: key, loading: true, changes: m.detail.changes}
	if key == uncommittedKey {
		m.detail.loading = false
		return nil
	}
	return tea.Tick(detailDebounce, func(time.Time) tea.Msg {
		return detailDebounceMsg{key: key}
	})
}

func (m *Model) handleDetailDebounce(msg detailDebounceMsg) tea.Cmd {
	if msg.key != m.detail.key || m.detail.stat != nil {
		return nil
	}
	ctx, backend, hash := m.ctx, m.backend, msg.key
	return func() tea.Msg {
		stat, err := backend.DiffStat(ctx, hash)
		return diffStatLoadedMsg{hash: hash, stat: stat, err: err}
	}
}

func (m *Model) handleDiffStatLoaded(msg diffStatLoadedMsg) {
	if msg.hash != m.detail.key {
		return
	}
	m.detail.loading = false
	if msg.err != nil {
		log.Printf("diff stat %s: %v", msg.hash, msg.err)
		m.detail.err = msg.err
		return
	}
	stat := msg.stat
	m.detail.stat = &stat
}

func (m *Model) loadWorktreeChanges() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		files, err := backend.WorkingTreeChanges(ctx)
		return worktreeChangesMsg{files: files, err: err}
	}
}

func (m *Model) handleWorktreeChanges(msg worktreeChangesMsg) {
	if msg.err != nil {
		log.Printf("working tree changes: %v", msg.err)
		return
	}
	m.detail.changes = msg.files
}
