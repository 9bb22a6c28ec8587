package state

import "sort"

// Cursor is the selection and scroll offset of one list pane.
type Cursor struct {
	Selected int
	Offset   int
}

// Set moves the selection to row, clamped to [0, n).
func (c *Cursor) Set(row, n int) {
	switch {
	case n <= 0:
		c.Selected = 0
	case row < 0:
		c.Selected = 0
	case row >= n:
		c.Selected = n - 1
	default:
		c.Selected = row
	}
}

// Move shifts the selection by delta, clamped.
func (c *Cursor) Move(delta, n int) { c.Set(c.Selected+delta, n) }

// Home selects the first row.
func (c *Cursor) Home(n int) { c.Set(0, n) }

// End selects the last row.
func (c *Cursor) End(n int) { c.Set(n-1, n) }

// Follow scrolls the offset so the selection sits at least margin rows away
// from either edge of a height-row window, without scrolling past the content.
func (c *Cursor) Follow(n, height, margin int) {
	if height <= 0 || n <= 0 {
		c.Offset = 0
		return
	}
	if maxMargin := (height - 1) / 2; margin > maxMargin {
		margin = maxMargin
	}
	if margin < 0 {
		margin = 0
	}
	if c.Selected-margin < c.Offset {
		c.Offset = c.Selected - margin
	}
	if c.Selected+margin >= c.Offset+height {
		c.Offset = c.Selected + margin - height + 1
	}
	maxOffset := n - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.Offset > maxOffset {
		c.Offset = maxOffset
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
}

// Scroll moves the window by delta rows and drags the selection along when
// it would leave the window.
func (c *Cursor) Scroll(delta, n, height int) {
	if n <= 0 {
		return
	}
	maxOffset := n - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	c.Offset += delta
	if c.Offset < 0 {
		c.Offset = 0
	}
	if c.Offset > maxOffset {
		c.Offset = maxOffset
	}
	if c.Selected < c.Offset {
		c.Selected = c.Offset
	}
	if height > 0 && c.Selected >= c.Offset+height {
		c.Selected = c.Offset + height - 1
	}
	c.Set(c.Selected, n)
}

// NextLabelled returns the first row in rows after current. rows must be
// sorted ascending. It does not wrap.
func NextLabelled(rows []int, current int) (int, bool) {
	i := sort.SearchInts(rows, current+1)
	if i >= len(rows) {
		return current, false
	}
	return rows[i], true
}

// PrevLabelled returns the last row in rows before current. It does not wrap.
func PrevLabelled(rows []int, current int) (int, bool) {
	i := sort.SearchInts(rows, current) - 1
	if i < 0 {
		return current, false
	}
	return rows[i], true
}
