package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygraph/internal/app/state"
	"github.com/chmouel/lazygraph/internal/models"
)

// rowOffset is 1 when the uncommitted changes row sits above the commits.
func (m *Model) rowOffset() int {
	if m.snapshot != nil && m.snapshot.Dirty {
		return 1
	}
	return 0
}

// rowCount is the number of graph rows including the uncommitted row.
func (m *Model) rowCount() int {
	if m.snapshot == nil {
		return 0
	}
	return len(m.snapshot.Commits) + m.rowOffset()
}

// isUncommittedRow reports whether row is the synthetic working tree row.
func (m *Model) isUncommittedRow(row int) bool {
	return m.rowOffset() == 1 && row == 0
}

// commitAt returns the commit drawn on a graph row.
func (m *Model) commitAt(row int) (*models.Commit, bool) {
	if m.snapshot == nil {
		return nil, false
	}
	i := row - m.rowOffset()
	if i < 0 || i >= len(m.snapshot.Commits) {
		return nil, false
	}
	return &m.snapshot.Commits[i], true
}

// selectedCommit returns the commit under the graph cursor.
func (m *Model) selectedCommit() (*models.Commit, bool) {
	return m.commitAt(m.view.Graph.Selected)
}

// labelGroup returns the labels of a commit with the cycled member selected.
func (m *Model) labelGroup(c *models.Commit) models.LabelGroup {
	group := models.NewLabelGroup(c.Refs)
	if sel, ok := m.labelSel[c.Hash]; ok && sel < group.Len() {
		group.Selected = sel
	}
	return group
}

// selectedRef is the ref an operation acts on: the highlighted branch list
// entry, or the displayed label of the selected graph row.
func (m *Model) selectedRef() (models.Ref, bool) {
	if m.view.ListPane() == state.PaneBranchList {
		i := m.view.Branches.Selected
		if i < 0 || i >= len(m.branches) {
			return models.Ref{}, false
		}
		return m.branches[i], true
	}
	c, ok := m.selectedCommit()
	if !ok {
		return models.Ref{}, false
	}
	group := m.labelGroup(c)
	return group.Primary()
}

// headRow is the graph row of the HEAD commit.
func (m *Model) headRow() (int, bool) {
	if m.snapshot == nil {
		return 0, false
	}
	idx := m.snapshot.IndexOf(m.snapshot.HeadHash)
	if idx < 0 {
		return 0, false
	}
	return idx + m.rowOffset(), true
}

func (m *Model) selectGraphRow(row int) {
	m.view.Graph.Set(row, m.rowCount())
	m.view.Graph.Follow(m.rowCount(), m.graphHeight(), m.view.Margin)
}

func (m *Model) followCursors() {
	m.view.Graph.Set(m.view.Graph.Selected, m.rowCount())
	m.view.Graph.Follow(m.rowCount(), m.graphHeight(), m.view.Margin)
	m.view.Branches.Set(m.view.Branches.Selected, len(m.branches))
	m.view.Branches.Follow(len(m.branches), m.branchHeight(), m.view.Margin)
}

// moveCursor applies a cursor movement to the active list pane.
func (m *Model) moveCursor(move func(c *state.Cursor, n int)) tea.Cmd {
	if m.view.ListPane() == state.PaneBranchList {
		n := len(m.branches)
		move(&m.view.Branches, n)
		m.view.Branches.Follow(n, m.branchHeight(), m.view.Margin)
		return nil
	}
	n := m.rowCount()
	move(&m.view.Graph, n)
	m.view.Graph.Follow(n, m.graphHeight(), m.view.Margin)
	return m.selectionChanged()
}

func (m *Model) jumpHead() tea.Cmd {
	if m.snapshot == nil {
		return nil
	}
	if m.view.ListPane() == state.PaneBranchList {
		for i, ref := range m.branches {
			if ref.IsLocal() && ref.Name == m.snapshot.HeadBranch {
				m.view.Branches.Set(i, len(m.branches))
				m.view.Branches.Follow(len(m.branches), m.branchHeight(), m.view.Margin)
				return nil
			}
		}
		return m.setStatus("HEAD is not on a branch")
	}
	row, ok := m.headRow()
	if !ok {
		return m.setStatus("HEAD is outside the loaded history")
	}
	m.selectGraphRow(row)
	return m.selectionChanged()
}

// jumpLabelled moves the graph cursor to the next or previous labelled row.
func (m *Model) jumpLabelled(forward bool) tea.Cmd {
	if m.view.ListPane() != state.PaneCommitGraph {
		return nil
	}
	var (
		row int
		ok  bool
	)
	if forward {
		row, ok = state.NextLabelled(m.labelled, m.view.Graph.Selected)
	} else {
		row, ok = state.PrevLabelled(m.labelled, m.view.Graph.Selected)
	}
	if !ok {
		return nil
	}
	m.selectGraphRow(row)
	return m.selectionChanged()
}

// cycleLabel shows the next or previous ref of the selected row's group.
// The selected commit does not change.
func (m *Model) cycleLabel(delta int) {
	if m.view.ListPane() != state.PaneCommitGraph {
		return
	}
	c, ok := m.selectedCommit()
	if !ok {
		return
	}
	group := m.labelGroup(c)
	if group.Cycle(delta) {
		m.labelSel[c.Hash] = group.Selected
	}
}

// jumpToSelectedBranch selects the commit of the highlighted branch list
// entry in the graph and focuses it.
func (m *Model) jumpToSelectedBranch() tea.Cmd {
	ref, ok := m.selectedRef()
	if !ok {
		return nil
	}
	if !m.jumpToRef(ref) {
		return m.setStatus(ref.Name + " is beyond the loaded history")
	}
	m.view.Focus(state.PaneCommitGraph)
	return m.selectionChanged()
}

// labelledRows returns the distinct rows carrying at least one label.
func labelledRows(positions []models.Position) []int {
	var rows []int
	for _, p := range positions {
		if n := len(rows); n == 0 || rows[n-1] != p.Row {
			rows = append(rows, p.Row)
		}
	}
	return rows
}

// branchList orders refs for the branch pane: locals, then remotes, then tags.
func branchList(refs []models.Ref) []models.Ref {
	out := make([]models.Ref, 0, len(refs))
	for _, kind := range []models.RefKind{models.RefLocal, models.RefRemote, models.RefTag} {
		for _, ref := range refs {
			if ref.Kind == kind {
				out = append(out, ref)
			}
		}
	}
	return out
}
