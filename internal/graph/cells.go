package graph

import "sort"

// CellKind identifies the glyph drawn in one cell of a row.
type CellKind uint8

// Cell kinds. Every lane occupies two cells: the lane cell and the gap to its right.
const (
	CellEmpty       CellKind = iota
	CellPipe                 // │
	CellNode                 // ○, ◉ for HEAD
	CellBranchRight          // ╭
	CellBranchLeft           // ╮
	CellMergeRight           // ╰
	CellMergeLeft            // ╯
	CellHorizontal           // ─
	CellCross                // ┼
	CellTeeRight             // ├
	CellTeeLeft              // ┤
	CellTeeUp                // ┴
	CellTeeDown              // ┬
)

// Node glyphs.
const (
	NodeGlyph     = '○'
	HeadNodeGlyph = '◉'
)

var glyphs = [...]rune{
	CellEmpty:       ' ',
	CellPipe:        '│',
	CellNode:        NodeGlyph,
	CellBranchRight: '╭',
	CellBranchLeft:  '╮',
	CellMergeRight:  '╰',
	CellMergeLeft:   '╯',
	CellHorizontal:  '─',
	CellCross:       '┼',
	CellTeeRight:    '├',
	CellTeeLeft:     '┤',
	CellTeeUp:       '┴',
	CellTeeDown:     '┬',
}

// Rune returns the glyph for the cell kind.
func (k CellKind) Rune() rune {
	if int(k) < len(glyphs) {
		return glyphs[k]
	}
	return ' '
}

// Cell is one drawn character with the colour index of the lane it belongs to.
type Cell struct {
	Kind  CellKind
	Color int
}

type link uint8

const (
	linkConverge link = iota + 1 // lane comes down into the node and ends
	linkDiverge                  // lane starts here and continues down
	linkJoin                     // lane passes through and receives an edge
)

// endGlyph is the glyph at the far end of a horizontal run, indexed by side.
var endGlyph = map[link][2]CellKind{
	linkConverge: {CellMergeRight, CellMergeLeft},
	linkDiverge:  {CellBranchRight, CellBranchLeft},
	linkJoin:     {CellTeeRight, CellTeeLeft},
}

var midGlyph = map[link]CellKind{
	linkConverge: CellTeeUp,
	linkDiverge:  CellTeeDown,
	linkJoin:     CellCross,
}

// cellsFor derives the glyphs of a row from the lanes before and after it
// and the edges drawn at the node. It carries no state of its own.
func cellsFor(r *Row) []Cell {
	cells := make([]Cell, rowWidth(r)*2)

	colors := make(map[int]int, len(r.Before)+len(r.After))
	after := make(map[int]bool, len(r.After))
	for _, l := range r.Before {
		colors[l.Column] = l.Color
	}
	for _, l := range r.After {
		colors[l.Column] = l.Color
		after[l.Column] = true
	}

	links := make(map[int]link)
	for _, c := range r.Converged {
		links[c] = linkConverge
	}
	for _, c := range r.Diverged {
		links[c] = linkDiverge
	}
	for _, c := range r.Joined {
		links[c] = linkJoin
	}

	for _, l := range r.Before {
		if l.Column == r.Column || !after[l.Column] {
			continue
		}
		if _, ok := links[l.Column]; ok {
			continue
		}
		cells[2*l.Column] = Cell{Kind: CellPipe, Color: l.Color}
	}
	cells[2*r.Column] = Cell{Kind: CellNode, Color: r.Color}

	var left, right []int
	for c := range links {
		if c < r.Column {
			left = append(left, c)
		} else if c > r.Column {
			right = append(right, c)
		}
	}
	sort.Ints(left)
	sort.Ints(right)

	if len(right) > 0 {
		far := right[len(right)-1]
		for x := 2*r.Column + 1; x < 2*far; x++ {
			col := x / 2
			target := nearestAtOrAbove(right, col+x%2)
			drawRun(cells, x, col, links, colors, colors[target])
		}
		cells[2*far] = Cell{Kind: endGlyph[links[far]][1], Color: colors[far]}
	}
	if len(left) > 0 {
		far := left[0]
		for x := 2*far + 1; x < 2*r.Column; x++ {
			col := x / 2
			target := nearestAtOrBelow(left, col)
			drawRun(cells, x, col, links, colors, colors[target])
		}
		cells[2*far] = Cell{Kind: endGlyph[links[far]][0], Color: colors[far]}
	}
	return cells
}

// drawRun fills cell x of a horizontal edge.
func drawRun(cells []Cell, x, col int, links map[int]link, colors map[int]int, color int) {
	if x%2 == 0 {
		if l, ok := links[col]; ok {
			cells[x] = Cell{Kind: midGlyph[l], Color: colors[col]}
			return
		}
		if cells[x].Kind == CellPipe {
			cells[x] = Cell{Kind: CellCross, Color: cells[x].Color}
			return
		}
	}
	cells[x] = Cell{Kind: CellHorizontal, Color: color}
}

func nearestAtOrAbove(sorted []int, col int) int {
	i := sort.SearchInts(sorted, col)
	if i >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i]
}

func nearestAtOrBelow(sorted []int, col int) int {
	i := sort.SearchInts(sorted, col+1) - 1
	if i < 0 {
		return sorted[0]
	}
	return sorted[i]
}
