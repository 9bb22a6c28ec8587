package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygraph/internal/app/state"
)

// Zone ids of the clickable panes.
const (
	zoneGraph    = "graph-rows"
	zoneBranches = "branch-rows"
)

const wheelStep = 3

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.config.Mouse || m.snapshot == nil || m.screens.IsActive() || m.view.Focused.IsOverlay() {
		return nil
	}

	pane := state.PaneCommitGraph
	if z := m.zones.Get(zoneBranches); z != nil && z.InBounds(msg) {
		pane = state.PaneBranchList
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		delta := wheelStep
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -wheelStep
		}
		return m.scroll(pane, delta)

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionRelease {
			return nil
		}
		return m.click(msg)
	}
	return nil
}

// scroll moves a pane's window, dragging its selection along.
func (m *Model) scroll(pane state.Pane, delta int) tea.Cmd {
	if pane == state.PaneBranchList {
		m.view.Branches.Scroll(delta, len(m.branches), m.branchHeight())
		return nil
	}
	m.view.Graph.Scroll(delta, m.rowCount(), m.graphHeight())
	return m.selectionChanged()
}

// click selects the row under the pointer and focuses its pane.
func (m *Model) click(msg tea.MouseMsg) tea.Cmd {
	if z := m.zones.Get(zoneGraph); z != nil && z.InBounds(msg) {
		_, y := z.Pos(msg)
		row := m.view.Graph.Offset + y
		if row >= m.rowCount() {
			return nil
		}
		m.view.Focus(state.PaneCommitGraph)
		m.selectGraphRow(row)
		return m.selectionChanged()
	}
	if z := m.zones.Get(zoneBranches); z != nil && z.InBounds(msg) {
		_, y := z.Pos(msg)
		row := m.view.Branches.Offset + y
		if row >= len(m.branches) {
			return nil
		}
		m.view.Focus(state.PaneBranchList)
		m.view.Branches.Set(row, len(m.branches))
		m.view.Branches.Follow(len(m.branches), m.branchHeight(), m.view.Margin)
	}
	return nil
}
