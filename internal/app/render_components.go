package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygraph/internal/app/state"
	"github.com/chmouel/lazygraph/internal/models"
)

// renderHeader renders the application header.
func (m *Model) renderHeader(layout layoutDims) string {
	headerStyle := lipgloss.NewStyle().
		Background(m.theme.AccentDim).
		Foreground(m.theme.TextFg).
		Bold(true).
		Width(layout.width).
		Padding(0, 2).Align(lipgloss.Center)

	content := "Lazygraph"
	if name := m.repoName(); name != "" {
		content = fmt.Sprintf("%s  •  %s", content, name)
	}
	return headerStyle.Render(content)
}

func (m *Model) repoName() string {
	if m.backend == nil {
		return ""
	}
	root := m.backend.Root()
	if root == "" {
		return ""
	}
	return filepath.Base(root)
}

// headLabel describes HEAD for the status bar.
func headLabel(snap *models.Snapshot) string {
	switch {
	case snap == nil:
		return ""
	case snap.HeadBranch != "":
		return snap.HeadBranch
	case snap.HeadHash != "":
		return "detached at " + models.ShortenHash(snap.HeadHash)
	}
	return "no commits"
}

// renderFooter renders the status bar: repository, HEAD, then either the
// current status message or key hints for the focused pane.
func (m *Model) renderFooter(layout layoutDims) string {
	footerStyle := lipgloss.NewStyle().
		Foreground(m.theme.TextFg).
		Background(m.theme.BorderDim).
		Padding(0, 1)

	var parts []string
	if name := m.repoName(); name != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true).Render(name))
	}
	if head := headLabel(m.snapshot); head != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.Head).Render(head))
	}

	switch {
	case m.status.text != "":
		style := lipgloss.NewStyle().Foreground(m.theme.TextFg)
		switch {
		case m.status.isErr:
			style = style.Foreground(m.theme.ErrorFg).Bold(true)
		case m.status.sticky:
			style = style.Foreground(m.theme.WarnFg)
		}
		parts = append(parts, style.Render(m.status.text))
	case m.loading && m.snapshot == nil:
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("Loading history..."))
	default:
		parts = append(parts, strings.Join(m.footerHints(), "  "))
	}

	line := clipLine(strings.Join(parts, "  "), maxInt(1, layout.width-2))
	return footerStyle.Width(layout.width).Render(line)
}

func (m *Model) footerHints() []string {
	switch m.view.Focused {
	case state.PaneSearch:
		return []string{
			m.renderKeyHint("↑/↓", "Jump"),
			m.renderKeyHint("Tab", "Move"),
			m.renderKeyHint("Enter", "Select"),
			m.renderKeyHint("Esc", "Cancel"),
		}
	case state.PaneBranchList:
		return []string{
			m.renderKeyHint("j/k", "Navigate"),
			m.renderKeyHint("Enter", "Show"),
			m.renderKeyHint("d", "Delete"),
			m.renderKeyHint("/", "Search"),
			m.renderKeyHint("2", "Graph"),
			m.renderKeyHint("q", "Quit"),
			m.renderKeyHint("?", "Help"),
		}
	}
	return []string{
		m.renderKeyHint("j/k", "Navigate"),
		m.renderKeyHint("Enter", "Checkout"),
		m.renderKeyHint("b", "Branch"),
		m.renderKeyHint("m", "Merge"),
		m.renderKeyHint("r", "Rebase"),
		m.renderKeyHint("f", "Fetch"),
		m.renderKeyHint("h/l", "Label"),
		m.renderKeyHint("/", "Search"),
		m.renderKeyHint("q", "Quit"),
		m.renderKeyHint("?", "Help"),
	}
}

// renderKeyHint renders a single key hint with pill styling.
func (m *Model) renderKeyHint(key, label string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.Accent)
	return fmt.Sprintf("%s %s", keyStyle.Render(key), labelStyle.Render(label))
}

// renderPaneTitle renders a pane title with focus indicators.
func (m *Model) renderPaneTitle(index int, title string, focused bool, width int, extra string) string {
	numStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if focused {
		numStyle = numStyle.Foreground(m.theme.Accent).Bold(true)
		titleStyle = titleStyle.Foreground(m.theme.TextFg).Bold(true)
	}
	line := numStyle.Render(fmt.Sprintf("[%d]", index)) + " " + titleStyle.Render(title)
	if index <= 0 {
		line = titleStyle.Render(title)
	}
	if extra != "" {
		line += "  " + lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(extra)
	}
	return clipLine(line, width)
}

// paneStyle returns a pane style with focus indication.
func (m *Model) paneStyle(focused bool) lipgloss.Style {
	borderColor := m.theme.BorderDim
	borderStyle := lipgloss.NormalBorder()
	if focused {
		borderColor = m.theme.Accent
		borderStyle = lipgloss.RoundedBorder()
	}
	return lipgloss.NewStyle().
		Border(borderStyle).
		BorderForeground(borderColor)
}

// framePane draws title and lines inside a bordered pane of the given
// outer size. Lines are clipped and padded to the inner area; when zoneID
// is set the rows below the title become a mouse zone.
func (m *Model) framePane(title string, lines []string, width, height int, focused bool, zoneID string) string {
	innerW := maxInt(1, width-paneFrame)
	innerH := maxInt(1, height-paneFrame-paneTitle)
	rows := make([]string, 0, innerH)
	for _, line := range lines {
		if len(rows) == innerH {
			break
		}
		rows = append(rows, clipLine(line, innerW))
	}
	for len(rows) < innerH {
		rows = append(rows, strings.Repeat(" ", innerW))
	}
	body := strings.Join(rows, "\n")
	if zoneID != "" {
		body = m.zones.Mark(zoneID, body)
	}
	return m.paneStyle(focused).Width(innerW).Render(clipLine(title, innerW) + "\n" + body)
}
