package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazygraph/internal/models"
)

func TestReloadKeepsSelectionByHash(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)
	press(m, keyRunes("j"))
	press(m, keyRunes("j"))
	require.Equal(t, hash("c3"), m.detailKey())

	b.commits = append([]models.Commit{commit("c5", "new work", "c4")}, b.commits...)
	b.headHash = hash("c5")
	b.refs[0].Hash = hash("c5")
	runCmd(t, m, m.loadSnapshot())

	assert.Equal(t, 3, m.view.Graph.Selected)
	c, ok := m.selectedCommit()
	require.True(t, ok)
	assert.Equal(t, "fix bug", c.Subject)
}

func TestReloadFallsBackToFirstRow(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)
	press(m, keyRunes("G"))

	b.commits = b.commits[:3]
	b.commits[1].Parents = nil
	b.commits[2].Parents = nil
	runCmd(t, m, m.loadSnapshot())
	assert.Equal(t, 0, m.view.Graph.Selected)
}

func TestReloadKeepsBranchSelection(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)
	press(m, keyRunes("1"))
	press(m, keyRunes("j"))
	require.Equal(t, "feature", m.branches[m.view.Branches.Selected].Name)

	b.refs = append([]models.Ref{{Kind: models.RefLocal, Name: "aaa", Hash: hash("c3")}}, b.refs...)
	runCmd(t, m, m.loadSnapshot())
	assert.Equal(t, "feature", m.branches[m.view.Branches.Selected].Name)
}

func TestStaleLoadIsDropped(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)

	first := m.loadSnapshot()
	second := m.loadSnapshot()
	oldMsg := first()

	b.commits = append([]models.Commit{commit("c5", "new work", "c4")}, b.commits...)
	m.Update(second())
	m.Update(oldMsg)

	assert.Len(t, m.Snapshot().Commits, 6)
	assert.False(t, m.loading)
}

func TestLoadError(t *testing.T) {
	b := sampleBackend()
	b.loadErr = errors.New("corrupt pack")
	m := NewModel(testConfig(), b)
	t.Cleanup(m.Close)
	m.setWindowSize(100, 30)
	runCmd(t, m, m.loadSnapshot())

	assert.Nil(t, m.Snapshot())
	assert.True(t, m.status.isErr)
	assert.Equal(t, "Failed to load history: corrupt pack", m.status.text)
	assert.Contains(t, m.View(), "corrupt pack")
}

func TestTruncatedHistoryStatus(t *testing.T) {
	cfg := testConfig()
	cfg.CommitLimit = 3
	m := NewModel(cfg, sampleBackend())
	t.Cleanup(m.Close)
	m.setWindowSize(120, 40)
	runCmd(t, m, m.loadSnapshot())

	require.NotNil(t, m.Snapshot())
	assert.True(t, m.Snapshot().Truncated)
	assert.Len(t, m.Snapshot().Commits, 3)
	assert.Equal(t, "Showing the first 3 commits", m.status.text)
}

func TestLabelSelectionPrunedOnReload(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)
	press(m, keyRunes("j"))
	press(m, keyRunes("l"))
	require.Contains(t, m.labelSel, hash("f1"))

	runCmd(t, m, m.loadSnapshot())
	assert.Equal(t, 1, m.labelSel[hash("f1")], "a surviving commit keeps its label")

	b.commits = []models.Commit{commit("c1", "initial")}
	b.headHash = hash("c1")
	runCmd(t, m, m.loadSnapshot())
	assert.Empty(t, m.labelSel)
}

func TestDetailLoadsAfterDebounce(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)
	require.Equal(t, hash("c4"), m.detail.key)
	assert.True(t, m.detail.loading)

	_, cmd := m.Update(detailDebounceMsg{key: hash("f1")})
	assert.Nil(t, cmd, "a debounce for an old selection is ignored")

	_, cmd = m.Update(detailDebounceMsg{key: hash("c4")})
	require.NotNil(t, cmd)
	m.Update(diffStatLoadedMsg{hash: hash("f1")})
	assert.Nil(t, m.detail.stat)

	runCmd(t, m, cmd)
	require.NotNil(t, m.detail.stat)
	assert.Equal(t, 1, m.detail.stat.TotalFiles)
	assert.Equal(t, []string{"diffstat c400000"}, b.Calls())

	view := m.View()
	assert.Contains(t, view, "main.go")
	assert.Contains(t, view, "1 file changed")
}
