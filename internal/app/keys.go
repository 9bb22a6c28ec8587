package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/chmouel/lazygraph/internal/app/screen"
)

// KeyMap defines the keybindings of the normal and search modes.
type KeyMap struct {
	// Navigation
	Up         key.Binding
	Down       key.Binding
	HalfDown   key.Binding
	HalfUp     key.Binding
	PageDown   key.Binding
	PageUp     key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Head       key.Binding
	NextLabel  key.Binding
	PrevLabel  key.Binding
	CycleLeft  key.Binding
	CycleRight key.Binding

	// Operations
	Enter        key.Binding
	CreateBranch key.Binding
	Delete       key.Binding
	Merge        key.Binding
	Rebase       key.Binding
	Fetch        key.Binding

	// General
	Search   key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Branches key.Binding
	Graph    key.Binding
	Quit     key.Binding

	// Search mode
	SearchUp        key.Binding
	SearchDown      key.Binding
	SearchNextQuiet key.Binding
	SearchPrevQuiet key.Binding
	SearchConfirm   key.Binding
	SearchCancel    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/home", "first row"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G/end", "last row"),
		),
		Head: key.NewBinding(
			key.WithKeys("@"),
			key.WithHelp("@", "jump to HEAD"),
		),
		NextLabel: key.NewBinding(
			key.WithKeys("]", "tab"),
			key.WithHelp("]/tab", "next labelled row"),
		),
		PrevLabel: key.NewBinding(
			key.WithKeys("[", "shift+tab"),
			key.WithHelp("[/shift+tab", "previous labelled row"),
		),
		CycleLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous label on row"),
		),
		CycleRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next label on row"),
		),

		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "checkout (graph) or jump (branches)"),
		),
		CreateBranch: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "create branch at selection"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete local branch"),
		),
		Merge: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "merge branch into HEAD"),
		),
		Rebase: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rebase HEAD onto branch"),
		),
		Fetch: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fetch remote"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search refs"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Branches: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "focus branch list"),
		),
		Graph: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "focus commit graph"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),

		SearchUp: key.NewBinding(
			key.WithKeys("up", "ctrl+k"),
			key.WithHelp("↑/ctrl+k", "previous match and jump"),
		),
		SearchDown: key.NewBinding(
			key.WithKeys("down", "ctrl+j"),
			key.WithHelp("↓/ctrl+j", "next match and jump"),
		),
		SearchNextQuiet: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next match"),
		),
		SearchPrevQuiet: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous match"),
		),
		SearchConfirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "jump and close"),
		),
		SearchCancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func entries(bindings ...key.Binding) []screen.HelpEntry {
	out := make([]screen.HelpEntry, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, screen.HelpEntry{Keys: h.Key, Desc: h.Desc})
	}
	return out
}

// HelpSections documents the key map for the help overlay.
func (k KeyMap) HelpSections() []screen.HelpSection {
	return []screen.HelpSection{
		{Title: "Navigation", Entries: entries(
			k.Down, k.Up, k.HalfDown, k.HalfUp, k.PageDown, k.PageUp,
			k.Top, k.Bottom, k.Head, k.NextLabel, k.PrevLabel, k.CycleLeft, k.CycleRight,
		)},
		{Title: "Operations", Entries: entries(
			k.Enter, k.CreateBranch, k.Delete, k.Merge, k.Rebase, k.Fetch,
		)},
		{Title: "General", Entries: entries(
			k.Search, k.Refresh, k.Branches, k.Graph, k.Help, k.Quit,
		)},
		{Title: "Search", Entries: append(entries(
			k.SearchDown, k.SearchUp, k.SearchNextQuiet, k.SearchPrevQuiet, k.SearchConfirm, k.SearchCancel,
		), screen.HelpEntry{Keys: "backspace", Desc: "cancel when the query is empty"})},
		{Title: "Confirm", Entries: []screen.HelpEntry{
			{Keys: "y/enter", Desc: "confirm"},
			{Keys: "n/esc", Desc: "cancel"},
		}},
		{Title: "Help", Entries: []screen.HelpEntry{
			{Keys: "j/k", Desc: "scroll"},
			{Keys: "/", Desc: "search help"},
			{Keys: "q/esc/?", Desc: "close"},
		}},
	}
}
