package app

import "github.com/chmouel/lazygraph/internal/app/state"

// layoutDims holds computed layout dimensions for the UI.
type layoutDims struct {
	width        int
	height       int
	headerHeight int
	footerHeight int
	bodyHeight   int

	leftWidth       int
	leftInnerWidth  int
	leftInnerHeight int

	rightWidth        int
	rightInnerWidth   int
	graphHeight       int
	graphInnerHeight  int
	detailHeight      int
	detailInnerHeight int
}

const (
	paneFrame        = 2 // rounded border on each side
	paneTitle        = 1
	minLeftWidth     = 22
	maxLeftWidth     = 40
	minDetailHeight  = 6
	maxDetailHeight  = 12
	detailMinBody    = 18
	minRightPaneCols = 30
)

// setWindowSize updates the window dimensions and keeps both cursors in view.
func (m *Model) setWindowSize(width, height int) {
	m.view.WindowWidth = width
	m.view.WindowHeight = height
	if hs, ok := m.screens.Current().(interface{ SetSize(int, int) }); ok {
		hs.SetSize(width, height)
	}
	m.followCursors()
}

// computeLayout calculates the layout dimensions based on window size.
func (m *Model) computeLayout() layoutDims {
	width := m.view.WindowWidth
	height := m.view.WindowHeight
	if width <= 0 {
		width = 120
	}
	if height <= 0 {
		height = 40
	}

	l := layoutDims{
		width:        width,
		height:       height,
		headerHeight: 1,
		footerHeight: 1,
	}
	l.bodyHeight = maxInt(height-l.headerHeight-l.footerHeight, paneFrame+1)

	l.leftWidth = minInt(maxLeftWidth, maxInt(minLeftWidth, width/4))
	if width-l.leftWidth < minRightPaneCols {
		l.leftWidth = 0
	}
	l.rightWidth = width - l.leftWidth
	l.leftInnerWidth = maxInt(1, l.leftWidth-paneFrame)
	l.rightInnerWidth = maxInt(1, l.rightWidth-paneFrame)
	l.leftInnerHeight = maxInt(1, l.bodyHeight-paneFrame-paneTitle)

	if l.bodyHeight >= detailMinBody {
		l.detailHeight = minInt(maxDetailHeight, maxInt(minDetailHeight, l.bodyHeight/3))
		l.detailInnerHeight = l.detailHeight - paneFrame - paneTitle
	}
	l.graphHeight = l.bodyHeight - l.detailHeight
	l.graphInnerHeight = maxInt(1, l.graphHeight-paneFrame-paneTitle)
	return l
}

// graphHeight is the number of graph rows on screen.
func (m *Model) graphHeight() int { return m.computeLayout().graphInnerHeight }

// branchHeight is the number of branch list rows on screen.
func (m *Model) branchHeight() int {
	h := m.computeLayout().leftInnerHeight
	if m.view.Focused == state.PaneSearch {
		h -= searchChrome
	}
	return maxInt(1, h)
}
