package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorMoveClamps(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		n     int
		want  int
	}{
		{name: "down", start: 0, delta: 1, n: 5, want: 1},
		{name: "up at top", start: 0, delta: -1, n: 5, want: 0},
		{name: "down at bottom", start: 4, delta: 1, n: 5, want: 4},
		{name: "page past end", start: 2, delta: 10, n: 5, want: 4},
		{name: "empty list", start: 3, delta: 1, n: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cursor{Selected: tt.start}
			c.Move(tt.delta, tt.n)
			assert.Equal(t, tt.want, c.Selected)
		})
	}
}

func TestCursorHomeEnd(t *testing.T) {
	c := Cursor{Selected: 3}
	c.End(10)
	assert.Equal(t, 9, c.Selected)
	c.Home(10)
	assert.Equal(t, 0, c.Selected)
}

func TestCursorFollowKeepsMargin(t *testing.T) {
	c := Cursor{}
	const n, height, margin = 100, 10, 3

	for i := 0; i < 20; i++ {
		c.Move(1, n)
		c.Follow(n, height, margin)
	}
	assert.Equal(t, 20, c.Selected)
	assert.Equal(t, 20+margin-height+1, c.Offset)

	c.End(n)
	c.Follow(n, height, margin)
	assert.Equal(t, n-height, c.Offset, "never scrolls past the content")

	c.Home(n)
	c.Follow(n, height, margin)
	assert.Equal(t, 0, c.Offset)
}

func TestCursorFollowShortList(t *testing.T) {
	c := Cursor{Selected: 2, Offset: 5}
	c.Follow(3, 10, 3)
	assert.Equal(t, 0, c.Offset)
}

func TestCursorScrollDragsSelection(t *testing.T) {
	c := Cursor{}
	c.Scroll(3, 50, 10)
	assert.Equal(t, 3, c.Offset)
	assert.Equal(t, 3, c.Selected)

	c.Scroll(-10, 50, 10)
	assert.Equal(t, 0, c.Offset)
	assert.Equal(t, 3, c.Selected)
}

func TestLabelledRowNavigationDoesNotWrap(t *testing.T) {
	rows := []int{1, 4, 9}

	next, ok := NextLabelled(rows, 0)
	require.True(t, ok)
	assert.Equal(t, 1, next)

	next, ok = NextLabelled(rows, 4)
	require.True(t, ok)
	assert.Equal(t, 9, next)

	_, ok = NextLabelled(rows, 9)
	assert.False(t, ok)

	prev, ok := PrevLabelled(rows, 9)
	require.True(t, ok)
	assert.Equal(t, 4, prev)

	prev, ok = PrevLabelled(rows, 3)
	require.True(t, ok)
	assert.Equal(t, 1, prev)

	_, ok = PrevLabelled(rows, 1)
	assert.False(t, ok)

	_, ok = NextLabelled(nil, 0)
	assert.False(t, ok)
}

func TestFocusSwitchKeepsSelections(t *testing.T) {
	v := NewViewState(10, 3)
	v.Graph.Selected = 7
	v.Branches.Selected = 2

	v.Focus(PaneBranchList)
	assert.Equal(t, PaneBranchList, v.Focused)
	assert.Equal(t, 2, v.Cursor().Selected)

	v.Focus(PaneCommitGraph)
	assert.Equal(t, 7, v.Cursor().Selected)
	assert.Equal(t, 2, v.Branches.Selected)
}

func TestSearchOverlayRestoresOnCancel(t *testing.T) {
	v := NewViewState(10, 3)
	v.Focus(PaneBranchList)
	v.Graph = Cursor{Selected: 12, Offset: 5}
	v.Branches = Cursor{Selected: 1}

	v.OpenOverlay(PaneSearch)
	assert.Equal(t, PaneSearch, v.Focused)
	assert.Equal(t, PaneBranchList, v.ListPane())

	// live jumps move the graph cursor while searching
	v.Graph = Cursor{Selected: 40, Offset: 35}
	v.Focus(PaneCommitGraph)
	assert.Equal(t, PaneSearch, v.Focused, "list focus keys are ignored under an overlay")

	v.CancelOverlay()
	assert.Equal(t, PaneBranchList, v.Focused)
	assert.Equal(t, Cursor{Selected: 12, Offset: 5}, v.Graph)
	assert.Equal(t, Cursor{Selected: 1}, v.Branches)
}

func TestSearchOverlayConfirmKeepsJump(t *testing.T) {
	v := NewViewState(10, 3)
	v.OpenOverlay(PaneSearch)
	v.Graph.Selected = 30

	v.CloseOverlay(PaneCommitGraph)
	assert.Equal(t, PaneCommitGraph, v.Focused)
	assert.Equal(t, 30, v.Graph.Selected)

	v.CancelOverlay()
	assert.Equal(t, PaneCommitGraph, v.Focused)
}

func TestPaneHelpers(t *testing.T) {
	assert.True(t, PaneHelp.IsOverlay())
	assert.False(t, PaneBranchList.IsOverlay())
	assert.Equal(t, "graph", PaneCommitGraph.String())

	v := NewViewState(0, -1)
	assert.Equal(t, 10, v.PageSize)
	assert.Equal(t, 5, v.HalfPage())
	assert.Equal(t, 0, v.Margin)
	v.WindowHeight = 3
	assert.Equal(t, 1, v.Height(5))
}

func TestSavedCursorsFollowEdits(t *testing.T) {
	v := NewViewState(10, 3)
	branches, graph := v.Saved()
	assert.Nil(t, branches)
	assert.Nil(t, graph)

	v.Graph = Cursor{Selected: 4}
	v.OpenOverlay(PaneSearch)
	branches, graph = v.Saved()
	require.NotNil(t, graph)
	require.NotNil(t, branches)
	graph.Selected = 5
	v.Graph.Selected = 9

	v.CancelOverlay()
	assert.Equal(t, 5, v.Graph.Selected)
	branches, graph = v.Saved()
	assert.Nil(t, branches)
	assert.Nil(t, graph)
}
