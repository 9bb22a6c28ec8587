package screen

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/chmouel/lazygraph/internal/theme"
)

// ConfirmScreen asks a yes/no question before a destructive or history
// changing operation.
type ConfirmScreen struct {
	Message        string
	SelectedButton int // 0 = Confirm, 1 = Cancel
	Thm            *theme.Theme

	OnConfirm func() tea.Cmd
	OnCancel  func() tea.Cmd
}

// NewConfirmScreen creates a confirm screen with the Confirm button focused.
func NewConfirmScreen(message string, thm *theme.Theme) *ConfirmScreen {
	return &ConfirmScreen{Message: message, Thm: thm}
}

// Type returns the screen type.
func (s *ConfirmScreen) Type() Type {
	return TypeConfirm
}

func (s *ConfirmScreen) confirm() (Screen, tea.Cmd) {
	if s.OnConfirm != nil {
		return nil, s.OnConfirm()
	}
	return nil, nil
}

func (s *ConfirmScreen) cancel() (Screen, tea.Cmd) {
	if s.OnCancel != nil {
		return nil, s.OnCancel()
	}
	return nil, nil
}

// Update handles y/enter to confirm and n/esc to cancel. Tab and the
// arrows move the button focus that enter acts on.
func (s *ConfirmScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyTab, keyShiftTab, "left", "right":
		s.SelectedButton = 1 - s.SelectedButton
	case "y", "Y":
		return s.confirm()
	case "n", "N", keyEsc, keyEscRaw, "q", keyCtrlC:
		return s.cancel()
	case keyEnter:
		if s.SelectedButton == 0 {
			return s.confirm()
		}
		return s.cancel()
	}
	return s, nil
}

// View renders the question and both buttons.
func (s *ConfirmScreen) View() string {
	const width = 60
	inner := width - 6

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(width)

	messageStyle := lipgloss.NewStyle().
		Width(inner).
		Align(lipgloss.Center).
		Foreground(s.Thm.TextFg)

	button := lipgloss.NewStyle().
		Width(inner/2 - 1).
		Align(lipgloss.Center)
	focused := button.Foreground(s.Thm.AccentFg).Bold(true)
	unfocused := button.Foreground(s.Thm.MutedFg).Background(s.Thm.BorderDim)

	confirmButton := unfocused.Render("[Confirm]")
	cancelButton := unfocused.Render("[Cancel]")
	if s.SelectedButton == 0 {
		confirmButton = focused.Background(s.Thm.ErrorFg).Render("[Confirm]")
	} else {
		cancelButton = focused.Background(s.Thm.Accent).Render("[Cancel]")
	}

	footer := lipgloss.NewStyle().Foreground(s.Thm.MutedFg).Width(inner).Align(lipgloss.Center).
		Render("y/enter confirm • n/esc cancel")

	content := fmt.Sprintf("%s\n\n%s  %s\n\n%s",
		messageStyle.Render(wordwrap.String(s.Message, inner)),
		confirmButton,
		cancelButton,
		footer,
	)
	return boxStyle.Render(content)
}
