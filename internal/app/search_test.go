package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazygraph/internal/app/state"
	"github.com/chmouel/lazygraph/internal/models"
)

func typeQuery(m *Model, query string) {
	for _, r := range query {
		press(m, keyRunes(string(r)))
	}
}

func TestSearchRanksRefs(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())
	press(m, keyRunes("/"))
	require.Equal(t, state.PaneSearch, m.view.Focused)
	assert.Len(t, m.search.matches, 4, "an empty query lists every ref")

	typeQuery(m, "main")
	require.Len(t, m.search.matches, 2)
	assert.Equal(t, "main", m.search.matches[0].Name)
	assert.Equal(t, "origin/main", m.search.matches[1].Name)

	typeQuery(m, "zzz")
	assert.Empty(t, m.search.matches)
	assert.Contains(t, m.View(), "No matching refs")
}

func TestSearchCancelRestoresSelection(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())
	press(m, keyRunes("G"))
	before := m.view.Graph

	press(m, keyRunes("/"))
	typeQuery(m, "feat")
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.view.Graph.Selected, "moving through results jumps the graph")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, state.PaneCommitGraph, m.view.Focused)
	assert.Equal(t, before, m.view.Graph)
	assert.False(t, m.quitting, "esc in search does not quit")
}

func TestSearchQuietMoveLeavesGraph(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())
	press(m, keyRunes("/"))
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 2, m.search.cursor.Selected)
	assert.Equal(t, 0, m.view.Graph.Selected)
}

func TestSearchConfirmSelectsLabel(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())
	press(m, keyRunes("/"))
	typeQuery(m, "v1")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, state.PaneCommitGraph, m.view.Focused)
	assert.Equal(t, 1, m.view.Graph.Selected)
	ref, ok := m.selectedRef()
	require.True(t, ok)
	assert.Equal(t, "v1.0", ref.Name)
}

func TestSearchBackspaceOnEmptyCancels(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())
	press(m, keyRunes("/"))
	typeQuery(m, "m")
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, state.PaneSearch, m.view.Focused)
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, state.PaneCommitGraph, m.view.Focused)
}

func TestSearchCancelRestoresLabel(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())
	press(m, keyRunes("j"))
	press(m, keyRunes("/"))
	typeQuery(m, "v1")
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, m.labelSel[hash("f1")], "the jump shows the tag")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, m.view.Graph.Selected)
	assert.NotContains(t, m.labelSel, hash("f1"))
	ref, ok := m.selectedRef()
	require.True(t, ok)
	assert.Equal(t, "feature", ref.Name)
}

func TestSearchEditJumpsToTopMatch(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantRow   int
		wantLabel int
	}{
		{name: "tag", query: "v1", wantRow: 1, wantLabel: 1},
		{name: "branch", query: "feat", wantRow: 1, wantLabel: 0},
		{name: "no match keeps the last jump", query: "v1zz", wantRow: 1, wantLabel: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newLoadedModel(t, sampleBackend())
			press(m, keyRunes("/"))
			typeQuery(m, tt.query)
			assert.Equal(t, state.PaneSearch, m.view.Focused)
			assert.Equal(t, tt.wantRow, m.view.Graph.Selected)
			assert.Equal(t, tt.wantLabel, m.labelSel[hash("f1")])
		})
	}
}

func TestSearchConfirmBeyondHistory(t *testing.T) {
	b := sampleBackend()
	b.refs = append(b.refs, models.Ref{Kind: models.RefLocal, Name: "old", Hash: hash("zz")})
	m := newLoadedModel(t, b)
	press(m, keyRunes("/"))
	typeQuery(m, "old")
	require.Len(t, m.search.matches, 1)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, state.PaneCommitGraph, m.view.Focused)
	assert.Equal(t, "old is beyond the loaded history", m.status.text)
	assert.Equal(t, 0, m.view.Graph.Selected)
}

func TestSearchCancelAfterReload(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)
	press(m, keyRunes("j"))
	press(m, keyRunes("l"))
	press(m, keyRunes("/"))
	typeQuery(m, "main")
	require.Equal(t, 0, m.view.Graph.Selected)

	b.commits = append([]models.Commit{commit("c5", "new work", "c4")}, b.commits...)
	b.headHash = hash("c5")
	b.refs[0].Hash = hash("c5")
	runCmd(t, m, m.loadSnapshot())
	require.Equal(t, state.PaneSearch, m.view.Focused)

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	c, ok := m.selectedCommit()
	require.True(t, ok)
	assert.Equal(t, "feature work", c.Subject)
	assert.Equal(t, 2, m.view.Graph.Selected)
	ref, ok := m.selectedRef()
	require.True(t, ok)
	assert.Equal(t, "v1.0", ref.Name, "the cycled label survives the reload")
}
