package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygraph/internal/app/state"
	"github.com/chmouel/lazygraph/internal/models"
	"github.com/chmouel/lazygraph/internal/search"
)

const (
	gutterSelected = "▌"
	gutterBlank    = " "
)

// renderBody renders the main body area with panes.
func (m *Model) renderBody(layout layoutDims) string {
	searching := m.view.Focused == state.PaneSearch

	var right string
	if layout.leftWidth == 0 && searching {
		right = m.renderSearchPane(layout.rightWidth, layout.bodyHeight)
	} else {
		right = m.renderGraphPane(layout)
		if layout.detailHeight > 0 {
			right = lipgloss.JoinVertical(lipgloss.Left, right, m.renderDetailPane(layout))
		}
	}
	if layout.leftWidth == 0 {
		return right
	}

	var left string
	if searching {
		left = m.renderSearchPane(layout.leftWidth, layout.bodyHeight)
	} else {
		left = m.renderBranchPane(layout)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) gutter(selected, focused bool) string {
	if !selected {
		return gutterBlank
	}
	color := m.theme.MutedFg
	if focused {
		color = m.theme.Accent
	}
	return lipgloss.NewStyle().Foreground(color).Render(gutterSelected)
}

func (m *Model) newRowRenderer(width int) rowRenderer {
	lanes := 1
	if m.layout != nil {
		lanes = maxInt(1, m.layout.Width)
	}
	return rowRenderer{
		painter: m.painter,
		styles:  newRowStyles(m.theme),
		lanes:   lanes,
		width:   width,
		now:     time.Now(),
	}
}

// renderGraphPane renders the visible window of graph rows.
func (m *Model) renderGraphPane(layout layoutDims) string {
	focused := m.view.ListPane() == state.PaneCommitGraph && m.view.Focused != state.PaneSearch
	innerW := maxInt(1, layout.rightWidth-paneFrame)

	extra := ""
	if m.snapshot != nil {
		extra = fmt.Sprintf("%d commits", len(m.snapshot.Commits))
		if m.snapshot.Truncated {
			extra += " (truncated)"
		}
	}
	title := m.renderPaneTitle(2, "Commits", focused, innerW, extra)

	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	var lines []string
	switch {
	case m.snapshot == nil && m.loadErr != nil:
		lines = []string{lipgloss.NewStyle().Foreground(m.theme.ErrorFg).Render(m.loadErr.Error())}
	case m.snapshot == nil:
		lines = []string{muted.Render("Loading history...")}
	case m.rowCount() == 0:
		lines = []string{muted.Render("No commits yet")}
	default:
		lines = m.graphLines(innerW, layout.graphInnerHeight, focused)
	}
	return m.framePane(title, lines, layout.rightWidth, layout.graphHeight, focused, zoneGraph)
}

func (m *Model) graphLines(width, height int, focused bool) []string {
	r := m.newRowRenderer(maxInt(1, width-1))
	snap := m.snapshot
	offset := m.rowOffset()

	changed := -1
	if m.detail.changes != nil {
		changed = len(m.detail.changes)
	}

	lines := make([]string, 0, height)
	for row := m.view.Graph.Offset; row < m.rowCount() && len(lines) < height; row++ {
		selected := row == m.view.Graph.Selected
		gutter := m.gutter(selected, focused)
		if m.isUncommittedRow(row) {
			lines = append(lines, gutter+r.uncommittedLine(changed))
			continue
		}
		i := row - offset
		c := &snap.Commits[i]
		group := m.labelGroup(c)
		lines = append(lines, gutter+r.commitLine(m.layout.Rows[i], c, group, snap.HeadHash, snap.HeadBranch, selected))
	}
	return lines
}

func (m *Model) refStyle(ref models.Ref) lipgloss.Style {
	switch {
	case m.snapshot != nil && ref.Kind == models.RefLocal && ref.Name == m.snapshot.HeadBranch:
		return lipgloss.NewStyle().Foreground(m.theme.Head).Bold(true)
	case ref.Kind == models.RefLocal:
		return lipgloss.NewStyle().Foreground(m.theme.SuccessFg)
	case ref.Kind == models.RefRemote:
		return lipgloss.NewStyle().Foreground(m.theme.Accent)
	}
	return lipgloss.NewStyle().Foreground(m.theme.WarnFg)
}

// refMarker prefixes a ref in the lists: "*" for the HEAD branch, then one
// letter per kind.
func (m *Model) refMarker(ref models.Ref) string {
	if m.snapshot != nil && ref.Kind == models.RefLocal && ref.Name == m.snapshot.HeadBranch {
		return "* "
	}
	switch ref.Kind {
	case models.RefRemote:
		return "r "
	case models.RefTag:
		return "t "
	}
	return "  "
}

// renderBranchPane renders the ref list: locals, remotes, then tags.
func (m *Model) renderBranchPane(layout layoutDims) string {
	focused := m.view.Focused == state.PaneBranchList
	innerW := maxInt(1, layout.leftWidth-paneFrame)
	title := m.renderPaneTitle(1, "Branches", focused, innerW, fmt.Sprintf("%d", len(m.branches)))

	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	lines := make([]string, 0, layout.leftInnerHeight)
	cur := m.view.Branches
	for i := cur.Offset; i < len(m.branches) && len(lines) < layout.leftInnerHeight; i++ {
		ref := m.branches[i]
		name := fitWidth(ref.Name, maxInt(1, innerW-3))
		lines = append(lines, m.gutter(i == cur.Selected, focused)+muted.Render(m.refMarker(ref))+m.refStyle(ref).Render(name))
	}
	if len(lines) == 0 && m.snapshot != nil {
		lines = append(lines, muted.Render("No refs"))
	}
	return m.framePane(title, lines, layout.leftWidth, layout.bodyHeight, focused, zoneBranches)
}

// renderSearchPane renders the query input above the ranked results.
func (m *Model) renderSearchPane(width, height int) string {
	innerW := maxInt(1, width-paneFrame)
	title := m.renderPaneTitle(0, "Search refs", true, innerW, fmt.Sprintf("%d/%d", len(m.search.matches), len(m.search.refs)))

	m.search.input.Width = maxInt(1, innerW-lipgloss.Width(m.search.input.Prompt)-1)
	lines := []string{
		m.search.input.View(),
		lipgloss.NewStyle().Foreground(m.theme.BorderDim).Render(strings.Repeat("─", innerW)),
	}

	rows := maxInt(1, height-paneFrame-paneTitle-searchChrome)
	cur := m.search.cursor
	for i := cur.Offset; i < len(m.search.matches) && i-cur.Offset < rows; i++ {
		match := m.search.matches[i]
		ref := m.search.refs[match.Index]
		name := m.highlightMatch(match, m.refStyle(ref))
		lines = append(lines, m.gutter(i == cur.Selected, true)+lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(m.refMarker(ref))+name)
	}
	if len(m.search.matches) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("No matching refs"))
	}
	return m.framePane(title, lines, width, height, true, "")
}

// highlightMatch styles a match's name, emphasising the matched runes.
func (m *Model) highlightMatch(match search.Match, base lipgloss.Style) string {
	if len(match.Positions) == 0 {
		return base.Render(match.Name)
	}
	hit := base.Foreground(m.theme.Accent).Bold(true).Underline(true)
	marked := make(map[int]bool, len(match.Positions))
	for _, p := range match.Positions {
		marked[p] = true
	}
	var b strings.Builder
	for i, r := range []rune(match.Name) {
		if marked[i] {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// renderDetailPane renders the commit or working tree summary of the
// selected graph row.
func (m *Model) renderDetailPane(layout layoutDims) string {
	innerW := maxInt(1, layout.rightWidth-paneFrame)
	title := m.renderPaneTitle(0, "Details", false, innerW, "")
	var lines []string
	switch {
	case m.detail.key == uncommittedKey:
		lines = m.worktreeDetailLines()
	case m.detail.key != "":
		if c, ok := m.selectedCommit(); ok && c.Hash == m.detail.key {
			lines = m.commitDetailLines(c)
		}
	}
	return m.framePane(title, lines, layout.rightWidth, layout.detailHeight, false, "")
}

func (m *Model) commitDetailLines(c *models.Commit) []string {
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	hash := lipgloss.NewStyle().Foreground(m.theme.WarnFg).Render(c.Hash)
	lines := []string{
		hash + "  " + lipgloss.NewStyle().Foreground(m.theme.Accent).Render(c.Author) +
			muted.Render(fmt.Sprintf("  %s (%s)", c.When.Format("2006-01-02 15:04"), formatRelativeTime(c.When, time.Now()))),
		lipgloss.NewStyle().Foreground(m.theme.TextFg).Bold(true).Render(c.Subject),
	}

	switch {
	case m.detail.err != nil:
		return append(lines, lipgloss.NewStyle().Foreground(m.theme.ErrorFg).Render("Could not load changes: "+m.detail.err.Error()))
	case m.detail.stat == nil:
		return append(lines, muted.Render("Loading changes..."))
	}

	stat := m.detail.stat
	added, deleted := stat.Totals()
	summary := fmt.Sprintf("%d files changed  ", stat.TotalFiles)
	if stat.TotalFiles == 1 {
		summary = "1 file changed  "
	}
	lines = append(lines, muted.Render(summary)+m.addDel(added, deleted))
	for _, f := range stat.Files {
		lines = append(lines, fmt.Sprintf("%s %s %s%s",
			m.changeMarker(f.Change.Marker()), m.addDel(f.Added, f.Deleted), m.fileIcon(f.Path), f.Path))
	}
	if stat.Truncated {
		lines = append(lines, muted.Render(fmt.Sprintf("… and %d more files", stat.TotalFiles-len(stat.Files))))
	}
	if stat.SkippedBinary > 0 {
		lines = append(lines, muted.Render(fmt.Sprintf("%d binary files not counted", stat.SkippedBinary)))
	}
	return lines
}

func (m *Model) worktreeDetailLines() []string {
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	files := m.detail.changes
	if files == nil {
		return []string{muted.Render("Loading working tree...")}
	}
	staged, unstaged := models.WorktreeSummary(files)
	lines := []string{
		lipgloss.NewStyle().Foreground(m.theme.WarnFg).Bold(true).Render("Uncommitted changes") +
			muted.Render(fmt.Sprintf("  %d staged, %d unstaged", staged, unstaged)),
	}
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("%s%s %s%s",
			m.changeMarker(string(f.Staged)), m.changeMarker(string(f.Unstaged)), m.fileIcon(f.Path), f.Path))
	}
	return lines
}

func (m *Model) addDel(added, deleted int) string {
	return lipgloss.NewStyle().Foreground(m.theme.SuccessFg).Render(fmt.Sprintf("+%d", added)) + " " +
		lipgloss.NewStyle().Foreground(m.theme.ErrorFg).Render(fmt.Sprintf("-%d", deleted))
}

func (m *Model) changeMarker(marker string) string {
	color := m.theme.WarnFg
	switch marker {
	case "A", "?":
		color = m.theme.SuccessFg
	case "D":
		color = m.theme.ErrorFg
	case " ":
		return " "
	}
	return lipgloss.NewStyle().Foreground(color).Render(marker)
}
