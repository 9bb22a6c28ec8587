package screen

import tea "github.com/charmbracelet/bubbletea"

// Manager keeps the stack of open modal screens. Only the top one receives keys.
type Manager struct {
	current Screen
	stack   []Screen
}

// NewManager creates an empty screen manager.
func NewManager() *Manager {
	return &Manager{}
}

// Push shows s above whatever is open.
func (m *Manager) Push(s Screen) {
	if s == nil {
		return
	}
	if m.current != nil {
		m.stack = append(m.stack, m.current)
	}
	m.current = s
}

// Pop closes the top screen and returns it, revealing the one below.
func (m *Manager) Pop() Screen {
	removed := m.current
	if n := len(m.stack); n > 0 {
		m.current = m.stack[n-1]
		m.stack = m.stack[:n-1]
	} else {
		m.current = nil
	}
	return removed
}

// Current returns the top screen, or nil.
func (m *Manager) Current() Screen {
	return m.current
}

// IsActive reports whether any screen is open.
func (m *Manager) IsActive() bool {
	return m.current != nil
}

// Type returns the type of the top screen, or TypeNone.
func (m *Manager) Type() Type {
	if m.current == nil {
		return TypeNone
	}
	return m.current.Type()
}

// Clear closes every screen.
func (m *Manager) Clear() {
	m.current = nil
	m.stack = m.stack[:0]
}

// Depth is the number of open screens.
func (m *Manager) Depth() int {
	if m.current == nil {
		return 0
	}
	return len(m.stack) + 1
}

// Handle sends a key to the top screen and pops it when it asks to close.
// It reports whether a screen was open to receive the key.
func (m *Manager) Handle(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.current == nil {
		return nil, false
	}
	top := m.current
	next, cmd := top.Update(msg)
	if next == nil {
		// the callback may already have pushed a follow-up screen
		if m.current == top {
			m.Pop()
		} else {
			m.remove(top)
		}
		return cmd, true
	}
	if m.current == top {
		m.current = next
	}
	return cmd, true
}

func (m *Manager) remove(s Screen) {
	for i, candidate := range m.stack {
		if candidate == s {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			return
		}
	}
}
