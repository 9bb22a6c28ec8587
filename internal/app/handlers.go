package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	appscreen "github.com/chmouel/lazygraph/internal/app/screen"
	"github.com/chmouel/lazygraph/internal/app/state"
)

// handleKeyMsg routes a key to the open screen, the search overlay, or the
// list panes, in that order.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screens.IsActive() {
		cmd, _ := m.screens.Handle(msg)
		if m.view.Focused == state.PaneHelp && m.screens.Type() != appscreen.TypeHelp {
			m.view.CancelOverlay()
		}
		return m, cmd
	}
	if m.view.Focused == state.PaneSearch {
		return m, m.handleSearchKey(msg)
	}
	return m, m.handleNormalKey(msg)
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	page := m.view.PageSize
	half := m.view.HalfPage()

	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()
	case key.Matches(msg, k.Help):
		m.openHelp()
		return nil
	case key.Matches(msg, k.Search):
		return m.openSearch()
	case key.Matches(msg, k.Branches):
		m.view.Focus(state.PaneBranchList)
		return nil
	case key.Matches(msg, k.Graph):
		m.view.Focus(state.PaneCommitGraph)
		return m.selectionChanged()
	case key.Matches(msg, k.Refresh):
		return m.refresh()
	}

	// Navigation and operations need a loaded history.
	if m.snapshot == nil {
		return nil
	}

	switch {
	case key.Matches(msg, k.Down):
		return m.moveCursor(func(c *state.Cursor, n int) { c.Move(1, n) })
	case key.Matches(msg, k.Up):
		return m.moveCursor(func(c *state.Cursor, n int) { c.Move(-1, n) })
	case key.Matches(msg, k.HalfDown):
		return m.moveCursor(func(c *state.Cursor, n int) { c.Move(half, n) })
	case key.Matches(msg, k.HalfUp):
		return m.moveCursor(func(c *state.Cursor, n int) { c.Move(-half, n) })
	case key.Matches(msg, k.PageDown):
		return m.moveCursor(func(c *state.Cursor, n int) { c.Move(page, n) })
	case key.Matches(msg, k.PageUp):
		return m.moveCursor(func(c *state.Cursor, n int) { c.Move(-page, n) })
	case key.Matches(msg, k.Top):
		return m.moveCursor(func(c *state.Cursor, n int) { c.Home(n) })
	case key.Matches(msg, k.Bottom):
		return m.moveCursor(func(c *state.Cursor, n int) { c.End(n) })
	case key.Matches(msg, k.Head):
		return m.jumpHead()
	case key.Matches(msg, k.NextLabel):
		return m.jumpLabelled(true)
	case key.Matches(msg, k.PrevLabel):
		return m.jumpLabelled(false)
	case key.Matches(msg, k.CycleLeft):
		m.cycleLabel(-1)
		return nil
	case key.Matches(msg, k.CycleRight):
		m.cycleLabel(1)
		return nil
	case key.Matches(msg, k.Enter):
		if m.view.ListPane() == state.PaneBranchList {
			return m.jumpToSelectedBranch()
		}
		return m.checkout()
	case key.Matches(msg, k.CreateBranch):
		return m.promptCreateBranch()
	case key.Matches(msg, k.Delete):
		return m.confirmDelete()
	case key.Matches(msg, k.Merge):
		return m.confirmIntegrate(opMerge)
	case key.Matches(msg, k.Rebase):
		return m.confirmIntegrate(opRebase)
	case key.Matches(msg, k.Fetch):
		return m.fetch()
	}
	return nil
}

func (m *Model) openHelp() {
	layout := m.computeLayout()
	m.view.OpenOverlay(state.PaneHelp)
	m.screens.Push(appscreen.NewHelpScreen(layout.width, layout.height, m.keys.HelpSections(), m.theme))
}
