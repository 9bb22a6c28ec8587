package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/chmouel/lazygraph/internal/graph"
	"github.com/chmouel/lazygraph/internal/models"
	"github.com/chmouel/lazygraph/internal/theme"
)

// Right-aligned column widths.
const (
	dateWidth   = 8
	authorWidth = 8
	hashWidth   = models.ShortHashLen

	rightFull       = 1 + dateWidth + 2 + authorWidth + 2 + hashWidth + 1
	rightDateAuthor = 1 + dateWidth + 2 + authorWidth + 1
	rightAuthor     = 2 + authorWidth + 1

	// contentMinWidth is kept for labels and subject before any right
	// column is shown.
	contentMinWidth = 30
)

type rowStyles struct {
	local, remote, tag, head lipgloss.Style
	subject, selected        lipgloss.Style
	hash, author, date       lipgloss.Style
	uncommitted              lipgloss.Style
}

func newRowStyles(t *theme.Theme) rowStyles {
	return rowStyles{
		local:       lipgloss.NewStyle().Foreground(t.SuccessFg).Bold(true),
		remote:      lipgloss.NewStyle().Foreground(t.Accent),
		tag:         lipgloss.NewStyle().Foreground(t.WarnFg),
		head:        lipgloss.NewStyle().Foreground(t.Head).Bold(true),
		subject:     lipgloss.NewStyle().Foreground(t.TextFg),
		selected:    lipgloss.NewStyle().Foreground(t.TextFg).Bold(true),
		hash:        lipgloss.NewStyle().Foreground(t.WarnFg),
		author:      lipgloss.NewStyle().Foreground(t.Accent),
		date:        lipgloss.NewStyle().Foreground(t.MutedFg),
		uncommitted: lipgloss.NewStyle().Foreground(t.WarnFg).Italic(true),
	}
}

// rowRenderer draws graph rows as single terminal lines.
type rowRenderer struct {
	painter *graph.Painter
	styles  rowStyles
	lanes   int // lane columns reserved for the graph
	width   int // total line width
	now     time.Time
}

func (r rowRenderer) graphWidth() int { return r.lanes*2 + 1 }

// labelStyle picks the label colour of a group's displayed ref.
func (r rowRenderer) labelStyle(ref models.Ref, headBranch string) lipgloss.Style {
	switch {
	case ref.Kind == models.RefLocal && ref.Name == headBranch:
		return r.styles.head
	case ref.Kind == models.RefLocal:
		return r.styles.local
	case ref.Kind == models.RefRemote:
		return r.styles.remote
	default:
		return r.styles.tag
	}
}

// rightColumns picks which of date, author and hash fit next to content.
func rightColumns(remaining int) (date, author, hash bool, width int) {
	available := remaining - contentMinWidth
	switch {
	case available >= rightFull:
		return true, true, true, rightFull
	case available >= rightDateAuthor:
		return true, true, false, rightDateAuthor
	case available >= rightAuthor:
		return false, true, false, rightAuthor
	}
	return false, false, false, 0
}

// commitLine renders one commit: lane glyphs, labels, subject, then the
// right-aligned date, author and short hash.
func (r rowRenderer) commitLine(row graph.Row, c *models.Commit, group models.LabelGroup, headHash, headBranch string, selected bool) string {
	var b strings.Builder
	b.WriteString(r.painter.Paint(row, r.lanes, c.Hash == headHash))
	b.WriteByte(' ')
	used := r.graphWidth()
	remaining := r.width - used

	showDate, showAuthor, showHash, rightWidth := rightColumns(remaining)

	labelWidth := 0
	if primary, ok := group.Primary(); ok {
		label := models.FormatLabels(c.Refs, primary.Name)
		labelWidth = runewidth.StringWidth(label) + 1
		if labelWidth > remaining {
			label = runewidth.Truncate(label, maxInt(0, remaining-1), "")
			labelWidth = runewidth.StringWidth(label) + 1
		}
		b.WriteString(r.labelStyle(primary, headBranch).Render(label))
		b.WriteByte(' ')
	}

	subjectWidth := maxInt(0, remaining-labelWidth-rightWidth)
	subject := runewidth.Truncate(c.Subject, subjectWidth, "…")
	style := r.styles.subject
	if selected {
		style = r.styles.selected
	}
	b.WriteString(style.Render(subject))

	used += labelWidth + runewidth.StringWidth(subject)
	if pad := r.width - used - rightWidth; pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	if showDate {
		b.WriteByte(' ')
		b.WriteString(r.styles.date.Render(fitWidth(formatRelativeTime(c.When, r.now), dateWidth)))
	}
	if showAuthor {
		b.WriteString("  ")
		b.WriteString(r.styles.author.Render(fitWidth(c.Author, authorWidth)))
	}
	if showHash {
		b.WriteString("  ")
		b.WriteString(r.styles.hash.Render(fitWidth(c.ShortHash, hashWidth)))
	}
	if rightWidth > 0 {
		b.WriteByte(' ')
	}
	return ansi.Truncate(b.String(), r.width, "")
}

// uncommittedLine renders the synthetic working tree row. count is the
// number of changed paths, or -1 when not known yet.
func (r rowRenderer) uncommittedLine(count int) string {
	text := "uncommitted changes"
	if count >= 0 {
		text = fmt.Sprintf("uncommitted changes (%d)", count)
	}
	node := runewidth.FillRight(string(uncommittedGlyph), r.graphWidth())
	return ansi.Truncate(r.styles.uncommitted.Render(node+text), r.width, "")
}

// uncommittedGlyph marks the working tree row in the node column.
const uncommittedGlyph = '◌'
