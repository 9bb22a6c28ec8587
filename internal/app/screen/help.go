package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygraph/internal/theme"
)

// HelpEntry is one documented key binding.
type HelpEntry struct {
	Keys string
	Desc string
}

// HelpSection groups entries under a heading.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpScreen is a scrollable, searchable list of key bindings.
type HelpScreen struct {
	Viewport    viewport.Model
	Width       int
	Height      int
	Sections    []HelpSection
	SearchInput textinput.Model
	Searching   bool
	SearchQuery string
	Thm         *theme.Theme
}

// NewHelpScreen sizes the help box to the terminal.
func NewHelpScreen(maxWidth, maxHeight int, sections []HelpSection, thm *theme.Theme) *HelpScreen {
	ti := textinput.New()
	ti.Placeholder = "Search help (Enter to apply, Esc to clear)"
	ti.CharLimit = 64
	ti.Prompt = "/ "
	ti.Blur()

	hs := &HelpScreen{
		Sections:    sections,
		SearchInput: ti,
		Thm:         thm,
	}
	hs.SetSize(maxWidth, maxHeight)
	hs.refreshContent()
	return hs
}

// Type returns TypeHelp.
func (s *HelpScreen) Type() Type {
	return TypeHelp
}

// SetSize updates the help box dimensions on terminal resize.
func (s *HelpScreen) SetSize(maxWidth, maxHeight int) {
	s.Width, s.Height = 70, 24
	if maxWidth > 0 {
		s.Width = minInt(90, maxInt(40, maxWidth*3/4))
	}
	if maxHeight > 0 {
		s.Height = minInt(40, maxInt(10, maxHeight*7/10))
	}
	s.SearchInput.Width = maxInt(20, s.Width-6)
	s.Viewport.Width = s.Width - 2
	s.Viewport.Height = maxInt(3, s.Height-4)
}

// Update scrolls, searches, and closes the help.
func (s *HelpScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	key := msg.String()

	if s.Searching {
		switch key {
		case keyEnter:
			s.Searching = false
			s.SearchInput.Blur()
			return s, nil
		case keyEsc, keyEscRaw, keyCtrlC:
			s.clearSearch()
			return s, nil
		}
		var cmd tea.Cmd
		s.SearchInput, cmd = s.SearchInput.Update(msg)
		if query := strings.TrimSpace(s.SearchInput.Value()); query != s.SearchQuery {
			s.SearchQuery = query
			s.refreshContent()
		}
		return s, cmd
	}

	switch key {
	case "/":
		s.Searching = true
		s.SearchInput.Focus()
		return s, textinput.Blink
	case keyEsc, keyEscRaw, keyCtrlC:
		if s.SearchQuery != "" {
			s.clearSearch()
			return s, nil
		}
		return nil, nil
	case "q", "?":
		return nil, nil
	case "j", "down":
		s.Viewport.ScrollDown(1)
	case "k", "up":
		s.Viewport.ScrollUp(1)
	case "ctrl+d", "pgdown":
		s.Viewport.HalfPageDown()
	case "ctrl+u", "pgup":
		s.Viewport.HalfPageUp()
	case "g", "home":
		s.Viewport.GotoTop()
	case "G", "end":
		s.Viewport.GotoBottom()
	}
	return s, nil
}

func (s *HelpScreen) clearSearch() {
	s.Searching = false
	s.SearchInput.SetValue("")
	s.SearchInput.Blur()
	s.SearchQuery = ""
	s.refreshContent()
}

func (s *HelpScreen) refreshContent() {
	s.Viewport.SetContent(s.renderContent())
	s.Viewport.GotoTop()
}

// Lines returns the plain help lines matching the current search.
func (s *HelpScreen) Lines() []string {
	query := strings.ToLower(s.SearchQuery)
	var lines []string
	for _, section := range s.Sections {
		var matched []string
		for _, e := range section.Entries {
			line := fmt.Sprintf("%s: %s", e.Keys, e.Desc)
			if query == "" || strings.Contains(strings.ToLower(line), query) {
				matched = append(matched, line)
			}
		}
		if len(matched) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.Title)
		lines = append(lines, matched...)
	}
	return lines
}

func (s *HelpScreen) renderContent() string {
	titleStyle := lipgloss.NewStyle().Foreground(s.Thm.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(s.Thm.SuccessFg).Bold(true)

	var out []string
	query := strings.ToLower(s.SearchQuery)
	for _, section := range s.Sections {
		var rows []string
		for _, e := range section.Entries {
			line := fmt.Sprintf("%s: %s", e.Keys, e.Desc)
			if query != "" && !strings.Contains(strings.ToLower(line), query) {
				continue
			}
			rows = append(rows, "  "+keyStyle.Render(e.Keys)+": "+e.Desc)
		}
		if len(rows) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, titleStyle.Render(section.Title))
		out = append(out, rows...)
	}
	if len(out) == 0 {
		return fmt.Sprintf("No help entries match %q", s.SearchQuery)
	}
	return strings.Join(out, "\n")
}

// View renders the help box.
func (s *HelpScreen) View() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Width(s.Width)

	title := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(s.Thm.BorderDim).
		Width(s.Width-2).
		Padding(0, 1).
		Render("Help")

	blocks := []string{title}
	if s.Searching || s.SearchQuery != "" {
		blocks = append(blocks, lipgloss.NewStyle().Width(s.Width-2).Padding(0, 1).Render(s.SearchInput.View()))
	}
	blocks = append(blocks,
		lipgloss.NewStyle().Padding(0, 1).Width(s.Width-2).Render(s.Viewport.View()),
		lipgloss.NewStyle().Foreground(s.Thm.MutedFg).Width(s.Width-2).Padding(0, 1).
			Render("j/k: scroll • ctrl+d/u: page • /: search • q/esc: close"),
	)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}
