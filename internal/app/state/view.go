package state

// Pane identifies the focused area of the screen.
type Pane int

// Panes. Exactly one is focused at any time.
const (
	PaneBranchList Pane = iota
	PaneCommitGraph
	PaneSearch
	PaneHelp
)

func (p Pane) String() string {
	switch p {
	case PaneBranchList:
		return "branches"
	case PaneCommitGraph:
		return "graph"
	case PaneSearch:
		return "search"
	case PaneHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsOverlay reports whether the pane is drawn over the list panes.
func (p Pane) IsOverlay() bool { return p == PaneSearch || p == PaneHelp }

// overlaySnapshot is the state captured when an overlay opens.
type overlaySnapshot struct {
	pane     Pane
	branches Cursor
	graph    Cursor
}

// ViewState holds UI-related state for the model.
type ViewState struct {
	Focused      Pane
	Branches     Cursor
	Graph        Cursor
	WindowWidth  int
	WindowHeight int
	Margin       int
	PageSize     int

	saved *overlaySnapshot
}

// NewViewState returns a view focused on the commit graph.
func NewViewState(pageSize, margin int) *ViewState {
	if pageSize <= 0 {
		pageSize = 10
	}
	if margin < 0 {
		margin = 0
	}
	return &ViewState{Focused: PaneCommitGraph, PageSize: pageSize, Margin: margin}
}

// Focus switches between the list panes without touching either cursor.
// Overlays are opened through OpenOverlay instead.
func (v *ViewState) Focus(p Pane) {
	if p.IsOverlay() || v.Focused.IsOverlay() {
		return
	}
	v.Focused = p
}

// ListPane returns the list pane that owns navigation, looking through any
// open overlay to the pane beneath it.
func (v *ViewState) ListPane() Pane {
	if v.Focused.IsOverlay() && v.saved != nil {
		return v.saved.pane
	}
	if v.Focused == PaneBranchList {
		return PaneBranchList
	}
	return PaneCommitGraph
}

// Cursor returns the cursor of the active list pane.
func (v *ViewState) Cursor() *Cursor {
	if v.ListPane() == PaneBranchList {
		return &v.Branches
	}
	return &v.Graph
}

// OpenOverlay focuses an overlay pane and remembers what it covered.
func (v *ViewState) OpenOverlay(p Pane) {
	if !p.IsOverlay() {
		return
	}
	if !v.Focused.IsOverlay() {
		v.saved = &overlaySnapshot{pane: v.Focused, branches: v.Branches, graph: v.Graph}
	}
	v.Focused = p
}

// CancelOverlay closes the overlay and restores the pane and both cursors
// exactly as they were when it opened.
func (v *ViewState) CancelOverlay() {
	if v.saved == nil {
		if v.Focused.IsOverlay() {
			v.Focused = PaneCommitGraph
		}
		return
	}
	v.Focused = v.saved.pane
	v.Branches = v.saved.branches
	v.Graph = v.saved.graph
	v.saved = nil
}

// CloseOverlay closes the overlay, keeping cursor movement made while it
// was open, and focuses next.
func (v *ViewState) CloseOverlay(next Pane) {
	v.saved = nil
	if next.IsOverlay() {
		next = PaneCommitGraph
	}
	v.Focused = next
}

// Saved returns the cursors CancelOverlay will restore, or nils when no
// overlay is open. A reload rewrites them so they stay on the same rows.
func (v *ViewState) Saved() (branches, graph *Cursor) {
	if v.saved == nil {
		return nil, nil
	}
	return &v.saved.branches, &v.saved.graph
}

// Height is the number of list rows visible in a pane.
func (v *ViewState) Height(chrome int) int {
	h := v.WindowHeight - chrome
	if h < 1 {
		return 1
	}
	return h
}

// HalfPage is the ctrl+d / ctrl+u step.
func (v *ViewState) HalfPage() int {
	if v.PageSize < 2 {
		return 1
	}
	return v.PageSize / 2
}
