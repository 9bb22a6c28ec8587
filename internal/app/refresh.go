package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygraph/internal/git"
	"github.com/chmouel/lazygraph/internal/graph"
	log "github.com/chmouel/lazygraph/internal/log"
	"github.com/chmouel/lazygraph/internal/models"
)

// loadSnapshot reads a fresh commit model off the event loop. Only the
// result of the latest load is applied.
func (m *Model) loadSnapshot() tea.Cmd {
	m.loadSeq++
	m.loading = true
	seq := m.loadSeq
	ctx, backend, limit := m.ctx, m.backend, m.config.CommitLimit
	return func() tea.Msg {
		snap, err := git.LoadSnapshot(ctx, backend, limit)
		return snapshotLoadedMsg{seq: seq, snap: snap, err: err}
	}
}

func (m *Model) refresh() tea.Cmd {
	return tea.Batch(m.setStatus("Refreshing..."), m.loadSnapshot())
}

func (m *Model) handleSnapshotLoaded(msg snapshotLoadedMsg) tea.Cmd {
	if msg.seq != m.loadSeq {
		log.Debug("snapshot: dropping stale load", "seq", msg.seq, "latest", m.loadSeq)
		return nil
	}
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		return m.setError(fmt.Sprintf("Failed to load history: %v", msg.err))
	}
	m.loadErr = nil
	m.applySnapshot(msg.snap)

	cmds := []tea.Cmd{m.selectionChanged()}
	if msg.snap.Truncated && m.status.text == "" {
		cmds = append(cmds, m.setStatus(fmt.Sprintf("Showing the first %d commits", len(msg.snap.Commits))))
	}
	if msg.snap.Dirty {
		cmds = append(cmds, m.loadWorktreeChanges())
	}
	return tea.Batch(cmds...)
}

// applySnapshot replaces the commit model and layout wholesale. The graph
// selection follows its commit hash; when the commit is gone, or the
// uncommitted row was selected, it falls back to the first row. Cursors
// saved by an open overlay are carried over the same way.
func (m *Model) applySnapshot(snap *models.Snapshot) {
	prevHash := m.hashAt(m.view.Graph.Selected)
	prevBranch, hadBranch := m.branchAt(m.view.Branches.Selected)
	savedBranches, savedGraph := m.view.Saved()
	savedHash, savedBranch, hadSaved := "", models.Ref{}, false
	if savedGraph != nil {
		savedHash = m.hashAt(savedGraph.Selected)
		savedBranch, hadSaved = m.branchAt(savedBranches.Selected)
	}

	m.snapshot = snap
	m.layout = graph.Build(snap.Commits, graph.Options{PaletteSize: m.config.PaletteSize})
	m.positions = models.BuildPositions(snap.Commits, m.rowOffset())
	m.labelled = labelledRows(m.positions)
	m.branches = branchList(snap.Refs)
	if !snap.Dirty {
		m.detail.changes = nil
	}

	m.labelSel = pruneLabels(m.labelSel, snap)
	if m.search.savedLabels != nil {
		m.search.savedLabels = pruneLabels(m.search.savedLabels, snap)
	}

	m.view.Graph.Set(m.rowOf(prevHash), m.rowCount())
	m.view.Branches.Set(m.branchIndex(prevBranch, hadBranch), len(m.branches))
	m.followCursors()
	if savedGraph != nil {
		savedGraph.Set(m.rowOf(savedHash), m.rowCount())
		savedGraph.Follow(m.rowCount(), m.graphHeight(), m.view.Margin)
		savedBranches.Set(m.branchIndex(savedBranch, hadSaved), len(m.branches))
		savedBranches.Follow(len(m.branches), m.branchHeight(), m.view.Margin)
	}

	log.Logger().Debug("snapshot applied",
		"commits", len(snap.Commits),
		"refs", len(snap.Refs),
		"lanes", m.layout.Width,
		"dirty", snap.Dirty,
		"truncated", snap.Truncated,
	)
}

// hashAt returns the hash of the commit on a graph row, or "".
func (m *Model) hashAt(row int) string {
	if c, ok := m.commitAt(row); ok {
		return c.Hash
	}
	return ""
}

// rowOf returns the graph row of hash, or 0 when it is not loaded.
func (m *Model) rowOf(hash string) int {
	if idx := m.snapshot.IndexOf(hash); idx >= 0 {
		return idx + m.rowOffset()
	}
	return 0
}

func (m *Model) branchAt(i int) (models.Ref, bool) {
	if i < 0 || i >= len(m.branches) {
		return models.Ref{}, false
	}
	return m.branches[i], true
}

// branchIndex finds ref in the branch list by kind and name, or 0.
func (m *Model) branchIndex(ref models.Ref, ok bool) int {
	if !ok {
		return 0
	}
	for i, b := range m.branches {
		if b.Kind == ref.Kind && b.Name == ref.Name {
			return i
		}
	}
	return 0
}

// pruneLabels drops label selections for commits no longer loaded.
func pruneLabels(sel map[string]int, snap *models.Snapshot) map[string]int {
	kept := make(map[string]int, len(sel))
	for hash, i := range sel {
		if snap.IndexOf(hash) >= 0 {
			kept[hash] = i
		}
	}
	return kept
}
