package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygraph/internal/theme"
)

// InputScreen prompts for a single line of text, such as a new branch name.
type InputScreen struct {
	Prompt   string
	Input    textinput.Model
	ErrorMsg string
	Thm      *theme.Theme

	// Validate returns an error message for value, or "" when it is acceptable.
	Validate func(value string) string

	OnSubmit func(value string) tea.Cmd
	OnCancel func() tea.Cmd

	boxWidth int
}

// NewInputScreen creates a focused input prompt.
func NewInputScreen(prompt, placeholder, value string, thm *theme.Theme) *InputScreen {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.Focus()
	ti.CharLimit = 200
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(thm.TextFg)
	ti.Width = 52

	return &InputScreen{
		Prompt:   prompt,
		Input:    ti,
		Thm:      thm,
		boxWidth: 60,
	}
}

// Type returns the screen type.
func (s *InputScreen) Type() Type {
	return TypeInput
}

// Update handles typing, enter and esc. The screen stays open while the
// value fails validation.
func (s *InputScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		value := strings.TrimSpace(s.Input.Value())
		if s.Validate != nil {
			if errMsg := strings.TrimSpace(s.Validate(value)); errMsg != "" {
				s.ErrorMsg = errMsg
				return s, nil
			}
		}
		s.ErrorMsg = ""
		if s.OnSubmit != nil {
			return nil, s.OnSubmit(value)
		}
		return nil, nil
	case keyEsc, keyEscRaw, keyCtrlC:
		if s.OnCancel != nil {
			return nil, s.OnCancel()
		}
		return nil, nil
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.ErrorMsg != "" && msg.Type == tea.KeyRunes {
		s.ErrorMsg = ""
	}
	return s, cmd
}

// View renders the prompt box.
func (s *InputScreen) View() string {
	width := s.boxWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(width)

	promptStyle := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Width(width - 6).
		Align(lipgloss.Center)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.Thm.Border).
		Padding(0, 1).
		Width(width - 6)

	footerStyle := lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Width(width - 6).
		Align(lipgloss.Center)

	lines := []string{
		promptStyle.Render(s.Prompt),
		inputStyle.Render(s.Input.View()),
	}
	if s.ErrorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(s.Thm.ErrorFg).
			Width(width-6).
			Align(lipgloss.Center).
			Render(s.ErrorMsg))
	}
	lines = append(lines, footerStyle.Render("Enter to confirm • Esc to cancel"))

	return boxStyle.Render(strings.Join(lines, "\n\n"))
}
