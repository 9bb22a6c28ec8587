package screen

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/chmouel/lazygraph/internal/theme"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewManager(t *testing.T) {
	m := NewManager()
	if m.IsActive() {
		t.Error("expected new manager to have no active screen")
	}
	if m.Type() != TypeNone {
		t.Errorf("expected TypeNone, got %v", m.Type())
	}
	if m.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", m.Depth())
	}
}

func TestManagerPushPop(t *testing.T) {
	m := NewManager()
	thm := theme.Dracula()

	confirm := NewConfirmScreen("delete?", thm)
	m.Push(confirm)
	help := NewHelpScreen(80, 30, nil, thm)
	m.Push(help)

	if m.Type() != TypeHelp {
		t.Errorf("expected TypeHelp, got %v", m.Type())
	}
	if m.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", m.Depth())
	}
	if popped := m.Pop(); popped != help {
		t.Error("expected to pop the help screen")
	}
	if m.Current() != confirm {
		t.Error("expected confirm to be revealed")
	}
	m.Clear()
	if m.IsActive() {
		t.Error("expected manager to be inactive after clear")
	}
}

func TestManagerHandle(t *testing.T) {
	m := NewManager()
	thm := theme.Dracula()

	if _, ok := m.Handle(runes("y")); ok {
		t.Error("expected no screen to consume the key")
	}

	confirmed := false
	s := NewConfirmScreen("merge?", thm)
	s.OnConfirm = func() tea.Cmd {
		confirmed = true
		return nil
	}
	m.Push(s)

	if _, ok := m.Handle(tea.KeyMsg{Type: tea.KeyTab}); !ok {
		t.Error("expected the confirm screen to consume tab")
	}
	if !m.IsActive() {
		t.Error("expected the screen to stay open after tab")
	}
	if _, ok := m.Handle(runes("y")); !ok {
		t.Error("expected the confirm screen to consume y")
	}
	if !confirmed {
		t.Error("expected OnConfirm to run")
	}
	if m.IsActive() {
		t.Error("expected the screen to close after confirming")
	}
}

func TestManagerHandleKeepsFollowUpScreen(t *testing.T) {
	m := NewManager()
	thm := theme.Dracula()
	follow := NewConfirmScreen("second", thm)

	first := NewInputScreen("Branch name", "", "topic", thm)
	first.OnSubmit = func(string) tea.Cmd {
		m.Push(follow)
		return nil
	}
	m.Push(first)
	m.Handle(tea.KeyMsg{Type: tea.KeyEnter})

	if m.Current() != follow {
		t.Error("expected the follow-up screen to stay on top")
	}
	if m.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", m.Depth())
	}
}

func TestConfirmScreenUpdate(t *testing.T) {
	thm := theme.Dracula()

	tests := []struct {
		name        string
		keys        []tea.KeyMsg
		wantConfirm bool
		wantCancel  bool
	}{
		{name: "y", keys: []tea.KeyMsg{runes("y")}, wantConfirm: true},
		{name: "enter", keys: []tea.KeyMsg{{Type: tea.KeyEnter}}, wantConfirm: true},
		{name: "n", keys: []tea.KeyMsg{runes("n")}, wantCancel: true},
		{name: "esc", keys: []tea.KeyMsg{{Type: tea.KeyEsc}}, wantCancel: true},
		{name: "enter on cancel", keys: []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEnter}}, wantCancel: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confirmed, cancelled := false, false
			s := NewConfirmScreen("delete topic?", thm)
			s.OnConfirm = func() tea.Cmd { confirmed = true; return nil }
			s.OnCancel = func() tea.Cmd { cancelled = true; return nil }

			var current Screen = s
			for _, k := range tt.keys {
				current, _ = current.Update(k)
			}
			if current != nil {
				t.Error("expected the screen to close")
			}
			if confirmed != tt.wantConfirm || cancelled != tt.wantCancel {
				t.Errorf("confirm=%v cancel=%v, want %v %v", confirmed, cancelled, tt.wantConfirm, tt.wantCancel)
			}
		})
	}

	view := ansi.Strip(NewConfirmScreen("Delete branch topic?", thm).View())
	if !strings.Contains(view, "Delete branch topic?") || !strings.Contains(view, "[Confirm]") {
		t.Errorf("unexpected confirm view:\n%s", view)
	}
}

func TestInputScreenValidation(t *testing.T) {
	thm := theme.Dracula()
	s := NewInputScreen("New branch", "name", "", thm)
	s.Validate = func(v string) string {
		if v == "" {
			return "name required"
		}
		return ""
	}
	var submitted string
	s.OnSubmit = func(v string) tea.Cmd {
		submitted = v
		return nil
	}

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next == nil {
		t.Fatal("expected the screen to stay open on invalid input")
	}
	if s.ErrorMsg != "name required" {
		t.Errorf("unexpected error message %q", s.ErrorMsg)
	}
	if !strings.Contains(ansi.Strip(s.View()), "name required") {
		t.Error("expected the error to be rendered")
	}

	for _, r := range "topic" {
		next, _ = next.Update(runes(string(r)))
	}
	if s.ErrorMsg != "" {
		t.Error("expected typing to clear the error")
	}
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next != nil {
		t.Error("expected the screen to close on submit")
	}
	if submitted != "topic" {
		t.Errorf("expected submitted value topic, got %q", submitted)
	}
}

func TestInputScreenCancel(t *testing.T) {
	s := NewInputScreen("New branch", "", "x", theme.Nord())
	cancelled := false
	s.OnCancel = func() tea.Cmd { cancelled = true; return nil }
	if next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEsc}); next != nil || !cancelled {
		t.Error("expected esc to cancel and close")
	}
}

func TestHelpScreenSearch(t *testing.T) {
	sections := []HelpSection{
		{Title: "Navigation", Entries: []HelpEntry{{Keys: "j/k", Desc: "move"}, {Keys: "g/G", Desc: "top, bottom"}}},
		{Title: "Operations", Entries: []HelpEntry{{Keys: "m", Desc: "merge into HEAD"}, {Keys: "f", Desc: "fetch"}}},
	}
	s := NewHelpScreen(100, 40, sections, theme.Dracula())

	if got := len(s.Lines()); got != 7 {
		t.Errorf("expected 7 lines, got %d", got)
	}

	var current Screen = s
	current, _ = current.Update(runes("/"))
	if !s.Searching {
		t.Fatal("expected search mode")
	}
	for _, r := range "merge" {
		current, _ = current.Update(runes(string(r)))
	}
	want := []string{"Operations", "m: merge into HEAD"}
	if got := s.Lines(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("filtered lines = %v, want %v", got, want)
	}

	current, _ = current.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if s.Searching || s.SearchQuery != "merge" {
		t.Error("expected enter to keep the filter and leave search mode")
	}
	current, _ = current.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if current == nil || s.SearchQuery != "" {
		t.Error("expected esc to clear the filter first")
	}
	current, _ = current.Update(runes("?"))
	if current != nil {
		t.Error("expected ? to close help")
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		t        Type
		expected string
	}{
		{TypeNone, "none"},
		{TypeConfirm, "confirm"},
		{TypeInput, "input"},
		{TypeHelp, "help"},
		{Type(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.expected {
			t.Errorf("Type(%d).String() = %q, want %q", tt.t, got, tt.expected)
		}
	}
}
