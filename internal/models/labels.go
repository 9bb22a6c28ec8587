package models

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// MaxLabelWidth is the widest a single rendered label may be, brackets included.
const MaxLabelWidth = 40

const (
	labelTailLen  = 5
	labelEllipsis = "..."
)

// Position is one selectable ref on a graph row.
type Position struct {
	Row int
	Ref Ref
}

// LabelGroup is the set of refs resolving to the same commit, shown as one
// primary name plus a count of the others.
type LabelGroup struct {
	Members  []Ref
	Selected int
}

// NewLabelGroup builds the display group for a commit's refs.
func NewLabelGroup(refs []Ref) LabelGroup {
	return LabelGroup{Members: OrderLabels(refs)}
}

// Len returns the number of selectable members.
func (g LabelGroup) Len() int { return len(g.Members) }

// Primary returns the currently selected member.
func (g LabelGroup) Primary() (Ref, bool) {
	if g.Selected < 0 || g.Selected >= len(g.Members) {
		return Ref{}, false
	}
	return g.Members[g.Selected], true
}

// Cycle moves the selection by delta, stopping at the ends.
func (g *LabelGroup) Cycle(delta int) bool {
	next := g.Selected + delta
	if next < 0 || next >= len(g.Members) {
		return false
	}
	g.Selected = next
	return true
}

// OrderLabels returns the selectable members of a commit's refs: local
// branches first, then remote branches with no local counterpart on the same
// commit, then tags. Enumeration order is preserved inside each class.
func OrderLabels(refs []Ref) []Ref {
	if len(refs) == 0 {
		return nil
	}
	locals := make(map[string]bool)
	for _, ref := range refs {
		if ref.Kind == RefLocal {
			locals[ref.Name] = true
		}
	}
	out := make([]Ref, 0, len(refs))
	for _, ref := range refs {
		if ref.Kind == RefLocal {
			out = append(out, ref)
		}
	}
	for _, ref := range refs {
		if ref.Kind == RefRemote && !locals[ref.BranchName()] {
			out = append(out, ref)
		}
	}
	for _, ref := range refs {
		if ref.Kind == RefTag {
			out = append(out, ref)
		}
	}
	return out
}

// BuildPositions flattens the refs of every commit into selectable positions.
// rowOffset shifts row indices when synthetic rows precede the commits.
func BuildPositions(commits []Commit, rowOffset int) []Position {
	var positions []Position
	for i, c := range commits {
		for _, ref := range OrderLabels(c.Refs) {
			positions = append(positions, Position{Row: i + rowOffset, Ref: ref})
		}
	}
	return positions
}

// pairedRemote returns the remote counterpart of a local branch on the same commit.
func pairedRemote(local Ref, refs []Ref) (Ref, bool) {
	for _, ref := range refs {
		if ref.Kind == RefRemote && ref.BranchName() == local.Name {
			return ref, true
		}
	}
	return Ref{}, false
}

func labelName(ref Ref) string {
	if ref.Kind == RefTag {
		return "tag: " + ref.Name
	}
	return ref.Name
}

// FormatLabels renders the label text for a commit's refs. A local branch
// with a matching remote branch is shown once as "[name ↔ remote]". When more
// than one label remains, only the selected one is shown with a "+N" suffix.
func FormatLabels(refs []Ref, selected string) string {
	members := OrderLabels(refs)
	if len(members) == 0 {
		return ""
	}
	if len(members) > 1 {
		idx := 0
		for i, m := range members {
			if m.Name == selected {
				idx = i
				break
			}
		}
		return AbbreviateLabel(labelName(members[idx]), MaxLabelWidth, len(members)-1)
	}

	ref := members[0]
	if ref.Kind == RefLocal {
		if remote, ok := pairedRemote(ref, refs); ok {
			suffix := " ↔ " + remote.Remote
			label := "[" + ref.Name + suffix + "]"
			if runewidth.StringWidth(label) <= MaxLabelWidth {
				return label
			}
			short := AbbreviateLabel(ref.Name, MaxLabelWidth-runewidth.StringWidth(suffix), 0)
			return strings.TrimSuffix(short, "]") + suffix + "]"
		}
	}
	return AbbreviateLabel(labelName(ref), MaxLabelWidth, 0)
}

// AbbreviateLabel brackets name and shortens it to maxWidth cells, keeping
// the part up to the first "/" and the last few characters.
func AbbreviateLabel(name string, maxWidth, extra int) string {
	suffix := ""
	if extra > 0 {
		suffix = fmt.Sprintf(" +%d", extra)
	}
	available := maxWidth - runewidth.StringWidth(suffix) - 2
	if available < 0 {
		available = 0
	}
	if runewidth.StringWidth(name) <= available {
		return "[" + name + "]" + suffix
	}

	prefix, rest := "", name
	if i := strings.Index(name, "/"); i >= 0 {
		prefix, rest = name[:i+1], name[i+1:]
	}
	restRunes := []rune(rest)
	tail := rest
	if len(restRunes) > labelTailLen {
		tail = string(restRunes[len(restRunes)-labelTailLen:])
	}

	headAvailable := available - runewidth.StringWidth(prefix) - len(labelEllipsis) - runewidth.StringWidth(tail)
	if headAvailable <= 0 {
		cut := available - len(labelEllipsis)
		if cut < 0 {
			cut = 0
		}
		return "[" + runewidth.Truncate(name, cut, "") + labelEllipsis + "]" + suffix
	}
	head := runewidth.Truncate(rest, headAvailable, "")
	return "[" + prefix + head + labelEllipsis + tail + "]" + suffix
}
