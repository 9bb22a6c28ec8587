package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygraph/internal/config"
	log "github.com/chmouel/lazygraph/internal/log"
)

func (m *Model) statusTimeout() time.Duration {
	if m.config.StatusTimeout <= 0 {
		return config.DefaultStatusTimeout
	}
	return m.config.StatusTimeout
}

// setStatus shows text until the status timeout elapses or another status
// replaces it.
func (m *Model) setStatus(text string) tea.Cmd {
	return m.showStatus(text, false)
}

// setError is setStatus drawn in the error colour.
func (m *Model) setError(text string) tea.Cmd {
	log.Printf("status error: %s", text)
	return m.showStatus(text, true)
}

func (m *Model) showStatus(text string, isErr bool) tea.Cmd {
	m.status = statusState{text: text, seq: m.status.seq + 1, isErr: isErr}
	seq := m.status.seq
	return tea.Tick(m.statusTimeout(), func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// setStickyStatus shows text until another status replaces it.
func (m *Model) setStickyStatus(text string) {
	m.status = statusState{text: text, seq: m.status.seq + 1, sticky: true}
}
