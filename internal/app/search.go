package app

import (
	"maps"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygraph/internal/app/state"
	log "github.com/chmouel/lazygraph/internal/log"
	"github.com/chmouel/lazygraph/internal/models"
	"github.com/chmouel/lazygraph/internal/search"
	"github.com/chmouel/lazygraph/internal/theme"
)

// searchChrome is the input line and the rule under it.
const searchChrome = 2

// searchState is the ref search overlay: a query, its ranked matches and a
// cursor over them.
type searchState struct {
	input   textinput.Model
	refs    []models.Ref
	matches []search.Match
	cursor  state.Cursor

	// savedLabels is the label cycling in effect when the overlay opened.
	savedLabels map[string]int
}

func newSearchState(thm *theme.Theme) searchState {
	ti := textinput.New()
	ti.Placeholder = "Search refs..."
	ti.Prompt = "/ "
	ti.CharLimit = 128
	ti.PromptStyle = lipgloss.NewStyle().Foreground(thm.Accent).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(thm.TextFg)
	return searchState{input: ti}
}

// rank recomputes the matches for the current query and resets the cursor.
func (s *searchState) rank() {
	names := make([]string, len(s.refs))
	for i, ref := range s.refs {
		names[i] = ref.Name
	}
	s.matches = search.Rank(s.input.Value(), names)
	s.cursor = state.Cursor{}
}

// selected returns the ref under the result cursor.
func (s *searchState) selected() (models.Ref, bool) {
	if s.cursor.Selected < 0 || s.cursor.Selected >= len(s.matches) {
		return models.Ref{}, false
	}
	return s.refs[s.matches[s.cursor.Selected].Index], true
}

func (m *Model) openSearch() tea.Cmd {
	m.view.OpenOverlay(state.PaneSearch)
	m.search.savedLabels = maps.Clone(m.labelSel)
	m.search.refs = m.branches
	m.search.input.SetValue("")
	m.search.rank()
	return m.search.input.Focus()
}

func (m *Model) cancelSearch() tea.Cmd {
	m.search.input.Blur()
	m.view.CancelOverlay()
	if m.search.savedLabels != nil {
		m.labelSel = m.search.savedLabels
	}
	m.search.savedLabels = nil
	return m.selectionChanged()
}

func (m *Model) confirmSearch() tea.Cmd {
	m.search.input.Blur()
	m.search.savedLabels = nil
	ref, ok := m.search.selected()
	jumped := ok && m.jumpToRef(ref)
	m.view.CloseOverlay(state.PaneCommitGraph)
	if ok && !jumped {
		return tea.Batch(m.selectionChanged(), m.setStatus(ref.Name+" is beyond the loaded history"))
	}
	return m.selectionChanged()
}

// moveSearch moves the result cursor, jumping the graph along when live.
func (m *Model) moveSearch(delta int, live bool) tea.Cmd {
	s := &m.search
	s.cursor.Move(delta, len(s.matches))
	s.cursor.Follow(len(s.matches), m.branchHeight(), 0)
	if !live {
		return nil
	}
	if ref, ok := s.selected(); ok {
		m.jumpToRef(ref)
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.SearchCancel):
		return m.cancelSearch()
	case msg.Type == tea.KeyBackspace && m.search.input.Value() == "":
		return m.cancelSearch()
	case key.Matches(msg, k.SearchConfirm):
		return m.confirmSearch()
	case key.Matches(msg, k.SearchDown):
		return m.moveSearch(1, true)
	case key.Matches(msg, k.SearchUp):
		return m.moveSearch(-1, true)
	case key.Matches(msg, k.SearchNextQuiet):
		return m.moveSearch(1, false)
	case key.Matches(msg, k.SearchPrevQuiet):
		return m.moveSearch(-1, false)
	}

	before := m.search.input.Value()
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	if m.search.input.Value() == before {
		return cmd
	}
	m.search.rank()
	log.Debug("search", "query", m.search.input.Value(), "matches", len(m.search.matches))
	if ref, ok := m.search.selected(); ok {
		m.jumpToRef(ref)
	}
	return cmd
}

// jumpToRef selects the graph row of ref's commit and shows ref as the
// row's label. It reports false when the commit is outside the loaded
// history.
func (m *Model) jumpToRef(ref models.Ref) bool {
	for i, b := range m.branches {
		if b.Kind == ref.Kind && b.Name == ref.Name {
			m.view.Branches.Set(i, len(m.branches))
			m.view.Branches.Follow(len(m.branches), m.branchHeight(), m.view.Margin)
			break
		}
	}

	idx := m.snapshot.IndexOf(ref.Hash)
	if idx < 0 {
		return false
	}
	commit := m.snapshot.Commits[idx]
	group := models.NewLabelGroup(commit.Refs)
	for i, member := range group.Members {
		if member.Kind == ref.Kind && member.Name == ref.Name {
			m.labelSel[commit.Hash] = i
			break
		}
	}
	m.selectGraphRow(idx + m.rowOffset())
	return true
}
