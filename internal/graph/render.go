package graph

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Glyphs returns the uncoloured connector text of a row, padded to width
// lanes. head draws the node as the HEAD marker.
func (r Row) Glyphs(width int, head bool) string {
	var b strings.Builder
	n := max(width, len(r.Cells)/2) * 2
	for i := 0; i < n; i++ {
		if i >= len(r.Cells) {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(glyphFor(r.Cells[i], head))
	}
	return b.String()
}

func glyphFor(c Cell, head bool) rune {
	if c.Kind == CellNode && head {
		return HeadNodeGlyph
	}
	return c.Kind.Rune()
}

// Painter colours connector glyphs with a lane palette.
type Painter struct {
	styles []lipgloss.Style
	node   lipgloss.Style
}

// NewPainter builds a painter whose lane colour i maps to colors[i%len(colors)].
func NewPainter(colors []lipgloss.TerminalColor) *Painter {
	p := &Painter{node: lipgloss.NewStyle().Bold(true)}
	for _, c := range colors {
		p.styles = append(p.styles, lipgloss.NewStyle().Foreground(c))
	}
	return p
}

// Paint renders a row's glyphs with lane colours, padded to width lanes.
func (p *Painter) Paint(r Row, width int, head bool) string {
	if p == nil || len(p.styles) == 0 {
		return r.Glyphs(width, head)
	}
	var b strings.Builder
	n := max(width, len(r.Cells)/2) * 2
	// consecutive cells with the same colour share one style run
	run := strings.Builder{}
	runColor := -1
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runColor < 0 {
			b.WriteString(run.String())
		} else {
			b.WriteString(p.styles[runColor%len(p.styles)].Render(run.String()))
		}
		run.Reset()
	}
	for i := 0; i < n; i++ {
		if i >= len(r.Cells) || r.Cells[i].Kind == CellEmpty {
			if runColor != -1 {
				flush()
				runColor = -1
			}
			run.WriteByte(' ')
			continue
		}
		c := r.Cells[i]
		if c.Kind == CellNode {
			flush()
			runColor = -1
			b.WriteString(p.node.Inherit(p.styles[c.Color%len(p.styles)]).Render(string(glyphFor(c, head))))
			continue
		}
		if c.Color != runColor {
			flush()
			runColor = c.Color
		}
		run.WriteRune(c.Kind.Rune())
	}
	flush()
	return b.String()
}
