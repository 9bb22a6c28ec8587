package app

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazygraph/internal/config"
	"github.com/chmouel/lazygraph/internal/models"
)

// fakeBackend serves a fixed history. Operations are recorded and answered
// by the optional function fields.
type fakeBackend struct {
	mu sync.Mutex

	root       string
	refs       []models.Ref
	headHash   string
	headBranch string
	commits    []models.Commit
	dirty      bool
	changes    []models.WorktreeFile
	stats      map[string]models.DiffStat
	loadErr    error

	calls []string

	checkout func(target string) error
	fetch    func(remote string) error
	merge    func(branch string) error
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) Root() string { return f.root }

func (f *fakeBackend) ListRefs(context.Context) ([]models.Ref, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]models.Ref(nil), f.refs...), nil
}

func (f *fakeBackend) Head(context.Context) (string, string, error) {
	return f.headHash, f.headBranch, nil
}

func (f *fakeBackend) WalkCommits(_ context.Context, limit int) ([]models.Commit, error) {
	out := make([]models.Commit, 0, len(f.commits))
	for _, c := range f.commits {
		c.Refs = nil
		out = append(out, c)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBackend) DiffStat(_ context.Context, hash string) (models.DiffStat, error) {
	f.record("diffstat " + models.ShortenHash(hash))
	return f.stats[hash], nil
}

func (f *fakeBackend) WorkingTreeDirty(context.Context) (bool, error) { return f.dirty, nil }

func (f *fakeBackend) WorkingTreeChanges(context.Context) ([]models.WorktreeFile, error) {
	return f.changes, nil
}

func (f *fakeBackend) Checkout(_ context.Context, target string) error {
	f.record("checkout " + target)
	if f.checkout != nil {
		return f.checkout(target)
	}
	return nil
}

func (f *fakeBackend) CreateBranch(_ context.Context, name, at string) error {
	f.record("branch " + name + " " + models.ShortenHash(at))
	return nil
}

func (f *fakeBackend) DeleteBranch(_ context.Context, name string) error {
	f.record("delete " + name)
	return nil
}

func (f *fakeBackend) Merge(_ context.Context, branch string) error {
	f.record("merge " + branch)
	if f.merge != nil {
		return f.merge(branch)
	}
	return nil
}

func (f *fakeBackend) Rebase(_ context.Context, onto string) error {
	f.record("rebase " + onto)
	return nil
}

func (f *fakeBackend) Fetch(_ context.Context, remote string) error {
	f.record("fetch " + remote)
	if f.fetch != nil {
		return f.fetch(remote)
	}
	return nil
}

// hash pads a short name to a 40 character commit id.
func hash(name string) string {
	return name + strings.Repeat("0", 40-len(name))
}

func commit(name, subject string, parents ...string) models.Commit {
	full := make([]string, len(parents))
	for i, p := range parents {
		full[i] = hash(p)
	}
	return models.Commit{
		Hash:      hash(name),
		ShortHash: models.ShortenHash(hash(name)),
		Parents:   full,
		Author:    "Ada Lovelace",
		Subject:   subject,
	}
}

// sampleBackend is a small merged history:
//
//	c4 (main, origin/main)  merge feature
//	f1 (feature, v1.0)      feature work
//	c3                      fix bug
//	c2                      add readme
//	c1                      initial
func sampleBackend() *fakeBackend {
	return &fakeBackend{
		root:       "/tmp/demo",
		headHash:   hash("c4"),
		headBranch: "main",
		refs: []models.Ref{
			{Kind: models.RefLocal, Name: "main", Hash: hash("c4")},
			{Kind: models.RefLocal, Name: "feature", Hash: hash("f1")},
			{Kind: models.RefRemote, Name: "origin/main", Hash: hash("c4"), Remote: "origin"},
			{Kind: models.RefTag, Name: "v1.0", Hash: hash("f1")},
		},
		commits: []models.Commit{
			commit("c4", "merge feature", "c3", "f1"),
			commit("f1", "feature work", "c2"),
			commit("c3", "fix bug", "c2"),
			commit("c2", "add readme", "c1"),
			commit("c1", "initial"),
		},
		stats: map[string]models.DiffStat{
			hash("c4"): {Hash: hash("c4"), TotalFiles: 1, Files: []models.FileStat{{Path: "main.go", Added: 3, Deleted: 1}}},
		},
	}
}

func testConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.AutoRefresh = false
	cfg.Mouse = false
	return cfg
}

// newLoadedModel returns a model sized to 120x40 with the backend's
// history applied synchronously.
func newLoadedModel(t *testing.T, b *fakeBackend) *Model {
	t.Helper()
	m := NewModel(testConfig(), b)
	t.Cleanup(m.Close)
	m.setWindowSize(120, 40)
	runCmd(t, m, m.loadSnapshot())
	require.NotNil(t, m.Snapshot())
	return m
}

// runCmd executes cmd and feeds the message back into the model. Ticks
// and batches are not followed.
func runCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	m.Update(msg)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and returns the command it produced.
func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}
