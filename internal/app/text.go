package app

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/chmouel/lazygraph/internal/graph"
	"github.com/chmouel/lazygraph/internal/models"
	"github.com/chmouel/lazygraph/internal/theme"
)

// TextOptions controls the non-interactive graph dump.
type TextOptions struct {
	Width       int
	PaletteSize int
	Theme       *theme.Theme
	Color       bool
	// Changes is the number of changed paths shown on the uncommitted
	// row, -1 when unknown.
	Changes int
	Now     time.Time
}

// RenderText writes every row of snap, one per line, the way the graph
// pane draws them but without selection or panes.
func RenderText(w io.Writer, snap *models.Snapshot, opts TextOptions) error {
	if opts.Width <= 0 {
		opts.Width = 120
	}
	if opts.Theme == nil {
		opts.Theme = theme.Dracula()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.PaletteSize <= 0 {
		opts.PaletteSize = graph.DefaultPaletteSize
	}

	layout := graph.Build(snap.Commits, graph.Options{PaletteSize: opts.PaletteSize})
	r := rowRenderer{
		styles: newRowStyles(opts.Theme),
		lanes:  maxInt(1, layout.Width),
		width:  opts.Width,
		now:    opts.Now,
	}
	if opts.Color {
		r.painter = graph.NewPainter(opts.Theme.Palette(opts.PaletteSize))
	}

	bw := bufio.NewWriter(w)
	emit := func(line string) {
		if !opts.Color {
			line = ansi.Strip(line)
		}
		_, _ = bw.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	if snap.Dirty {
		emit(r.uncommittedLine(opts.Changes))
	}
	for i := range snap.Commits {
		c := &snap.Commits[i]
		emit(r.commitLine(layout.Rows[i], c, models.NewLabelGroup(c.Refs), snap.HeadHash, snap.HeadBranch, false))
	}
	return bw.Flush()
}
