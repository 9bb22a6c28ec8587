package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	log "github.com/chmouel/lazygraph/internal/log"
)

func (m *Model) startAutoRefresh() tea.Cmd {
	if m.autoRefreshStarted {
		return nil
	}
	if m.autoRefreshInterval() <= 0 {
		return nil
	}
	m.autoRefreshStarted = true
	return m.autoRefreshTick()
}

func (m *Model) autoRefreshInterval() time.Duration {
	if m.config == nil || !m.config.AutoRefresh {
		return 0
	}
	if m.config.RefreshInterval <= 0 {
		return 0
	}
	if m.config.RefreshInterval < time.Second {
		log.Printf("auto refresh interval too small (%s), clamping to 1s", m.config.RefreshInterval)
		return time.Second
	}
	return m.config.RefreshInterval
}

func (m *Model) autoRefreshTick() tea.Cmd {
	interval := m.autoRefreshInterval()
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autoRefreshTickMsg{}
	})
}

func (m *Model) startGitWatcher() tea.Cmd {
	if m.watch == nil || m.watch.Running() {
		return nil
	}
	started, err := m.watch.Start(m.ctx)
	if err != nil {
		return m.setError("Auto refresh disabled: " + err.Error())
	}
	if !started {
		return nil
	}
	return m.waitForGitWatchEvent()
}

func (m *Model) stopGitWatcher() {
	if m.watch != nil {
		m.watch.Stop()
	}
}

func (m *Model) waitForGitWatchEvent() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	changes, done := m.watch.Changes(), m.watch.Done()
	return func() tea.Msg {
		select {
		case <-changes:
			return gitDirChangedMsg{}
		case <-done:
			return nil
		}
	}
}

// handleGitDirChanged reloads once the git directory has settled. A change
// seen while an operation runs is held until the operation completes.
func (m *Model) handleGitDirChanged() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	var reload tea.Cmd
	if m.dispatcher.Busy() {
		log.Debug("auto refresh: change deferred until the operation ends")
		m.watchPending = true
	} else {
		log.Debug("auto refresh: git directory changed")
		reload = m.loadSnapshot()
	}
	return tea.Batch(reload, m.waitForGitWatchEvent())
}
