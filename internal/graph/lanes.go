// Package graph assigns commits to lanes and derives the connector glyphs
// drawn between them.
package graph

import (
	"sort"

	"github.com/chmouel/lazygraph/internal/models"
)

// DefaultPaletteSize is the number of distinct lane colours.
const DefaultPaletteSize = 11

// Options tune the layout.
type Options struct {
	PaletteSize int
}

// Lane is an active column tracking one unresolved path toward an ancestor.
type Lane struct {
	Column int
	Color  int
	Expect string // hash of the next commit this lane waits for
}

// Row is the layout of a single commit.
type Row struct {
	Hash      string
	Column    int // column of the node
	Color     int // colour of the drawing lane
	Cells     []Cell
	Before    []Lane // lanes active when the row starts, by column
	After     []Lane // lanes active when the row ends, by column
	Converged []int  // columns merged into the node and freed on this row
	Diverged  []int  // columns opened on this row for extra parents
	Joined    []int  // columns already waiting for an extra parent
	Opened    bool   // the node started a new lane
	Closed    bool   // the node is a root and its lane ended
}

// Layout is the lane assignment for an ordered commit sequence.
type Layout struct {
	Rows      []Row
	Width     int // widest column count over all rows
	Allocated int
	Freed     int
	Open      []Lane // lanes still waiting after the last row
}

type slot struct {
	active bool
	color  int
	expect string
}

type engine struct {
	slots   []slot
	free    []int // sorted ascending
	palette int
	counter int
	layout  *Layout
}

// Build assigns lanes for commits, which must be ordered children before
// parents. Parents missing from the sequence leave their lane open.
func Build(commits []models.Commit, opts Options) *Layout {
	palette := opts.PaletteSize
	if palette <= 0 {
		palette = DefaultPaletteSize
	}
	e := &engine{
		palette: palette,
		layout:  &Layout{Rows: make([]Row, 0, len(commits))},
	}
	for i := range commits {
		e.step(&commits[i])
	}
	e.layout.Open = e.active()
	return e.layout
}

func (e *engine) step(c *models.Commit) {
	row := Row{Hash: c.Hash, Before: e.active()}

	var matches []int
	for col, s := range e.slots {
		if s.active && s.expect == c.Hash {
			matches = append(matches, col)
		}
	}

	var pending []int
	if len(matches) == 0 {
		row.Column = e.alloc(c.Hash)
		row.Opened = true
	} else {
		row.Column = matches[0]
		row.Converged = matches[1:]
		pending = append(pending, row.Converged...)
	}
	row.Color = e.slots[row.Column].color

	parents := uniqueParents(c.Parents)
	if len(parents) == 0 {
		pending = append(pending, row.Column)
		row.Closed = true
	} else {
		e.slots[row.Column].expect = parents[0]
		for _, p := range parents[1:] {
			if col, ok := e.expecting(p, row.Column, pending); ok {
				row.Joined = append(row.Joined, col)
				continue
			}
			row.Diverged = append(row.Diverged, e.alloc(p))
		}
	}

	// Freed columns go back to the pool only once the row is complete, so a
	// column is never reused within the row that released it.
	for _, col := range pending {
		e.release(col)
	}

	row.After = e.active()
	row.Cells = cellsFor(&row)
	if w := rowWidth(&row); w > e.layout.Width {
		e.layout.Width = w
	}
	e.layout.Rows = append(e.layout.Rows, row)
}

func (e *engine) alloc(expect string) int {
	col := len(e.slots)
	if len(e.free) > 0 {
		col = e.free[0]
		e.free = e.free[1:]
	} else {
		e.slots = append(e.slots, slot{})
	}
	e.slots[col] = slot{active: true, color: e.counter % e.palette, expect: expect}
	e.counter++
	e.layout.Allocated++
	return col
}

func (e *engine) release(col int) {
	if col < 0 || col >= len(e.slots) || !e.slots[col].active {
		return
	}
	e.slots[col].active = false
	e.slots[col].expect = ""
	i := sort.SearchInts(e.free, col)
	e.free = append(e.free, 0)
	copy(e.free[i+1:], e.free[i:])
	e.free[i] = col
	e.layout.Freed++
}

// expecting finds another live lane already waiting for hash.
func (e *engine) expecting(hash string, self int, releasing []int) (int, bool) {
	for col, s := range e.slots {
		if col == self || !s.active || s.expect != hash || containsInt(releasing, col) {
			continue
		}
		return col, true
	}
	return 0, false
}

func (e *engine) active() []Lane {
	var lanes []Lane
	for col, s := range e.slots {
		if s.active {
			lanes = append(lanes, Lane{Column: col, Color: s.color, Expect: s.expect})
		}
	}
	return lanes
}

func uniqueParents(parents []string) []string {
	if len(parents) < 2 {
		return parents
	}
	out := make([]string, 0, len(parents))
	for _, p := range parents {
		dup := false
		for _, seen := range out {
			if seen == p {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func rowWidth(r *Row) int {
	w := r.Column + 1
	for _, l := range r.Before {
		if l.Column+1 > w {
			w = l.Column + 1
		}
	}
	for _, l := range r.After {
		if l.Column+1 > w {
			w = l.Column + 1
		}
	}
	return w
}
