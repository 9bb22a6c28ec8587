package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appscreen "github.com/chmouel/lazygraph/internal/app/screen"
	"github.com/chmouel/lazygraph/internal/app/services"
	"github.com/chmouel/lazygraph/internal/git"
	"github.com/chmouel/lazygraph/internal/models"
)

func TestDeleteGuard(t *testing.T) {
	tests := []struct {
		name string
		ref  models.Ref
		ok   bool
		want string
	}{
		{"nothing selected", models.Ref{}, false, "No branch selected"},
		{"remote", models.Ref{Kind: models.RefRemote, Name: "origin/x"}, true, "Cannot delete origin/x: only local branches can be deleted"},
		{"tag", models.Ref{Kind: models.RefTag, Name: "v1"}, true, "Cannot delete v1: only local branches can be deleted"},
		{"head", models.Ref{Kind: models.RefLocal, Name: "main"}, true, "Cannot delete main: it is checked out"},
		{"other local", models.Ref{Kind: models.RefLocal, Name: "feature"}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deleteGuard(tt.ref, tt.ok, "main"))
		})
	}
}

func TestIntegrateGuard(t *testing.T) {
	tests := []struct {
		name string
		kind opKind
		ref  models.Ref
		want string
	}{
		{"merge remote", opMerge, models.Ref{Kind: models.RefRemote, Name: "origin/main"}, "Cannot merge origin/main: select a local branch"},
		{"rebase tag", opRebase, models.Ref{Kind: models.RefTag, Name: "v1"}, "Cannot rebase v1: select a local branch"},
		{"merge head", opMerge, models.Ref{Kind: models.RefLocal, Name: "main"}, "Cannot merge main: it is HEAD"},
		{"rebase local", opRebase, models.Ref{Kind: models.RefLocal, Name: "feature"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, integrateGuard(tt.kind, tt.ref, true, "main"))
		})
	}
	assert.Equal(t, "No branch selected", integrateGuard(opMerge, models.Ref{}, false, "main"))
}

func TestCheckoutTarget(t *testing.T) {
	c := &models.Commit{Hash: hash("f1")}
	assert.Equal(t, "feature", checkoutTarget(c, models.Ref{Kind: models.RefLocal, Name: "feature"}, true))
	assert.Equal(t, "origin/main", checkoutTarget(c, models.Ref{Kind: models.RefRemote, Name: "origin/main"}, true))
	assert.Equal(t, hash("f1"), checkoutTarget(c, models.Ref{Kind: models.RefTag, Name: "v1.0"}, true))
	assert.Equal(t, hash("f1"), checkoutTarget(c, models.Ref{}, false))
}

func TestValidateBranchName(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())
	tests := map[string]string{
		"":          "Branch name cannot be empty",
		"has space": "Branch name contains invalid characters",
		"a~b":       "Branch name contains invalid characters",
		"-x":        "Invalid branch name",
		"topic/":    "Invalid branch name",
		"a..b":      "Invalid branch name",
		"feature":   "Branch feature already exists",
		"topic/new": "",
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, m.validateBranchName(name))
		})
	}
}

func TestCheckoutSelectedLabel(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)

	press(m, keyRunes("j"))
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "Checking out feature...", m.status.text)
	assert.True(t, m.status.sticky)

	runCmd(t, m, cmd)
	assert.Equal(t, []string{"checkout feature"}, b.Calls())
	assert.Equal(t, "Checked out feature", m.status.text)
	assert.False(t, m.dispatcher.Busy())
}

func TestCheckoutTagDetaches(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)

	press(m, keyRunes("j"))
	press(m, keyRunes("l"))
	ref, ok := m.selectedRef()
	require.True(t, ok)
	assert.Equal(t, "v1.0", ref.Name)

	runCmd(t, m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Contains(t, b.Calls(), "checkout "+hash("f1"))
}

func TestCheckoutHeadBranchIsNoop(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Already on main", m.status.text)
	assert.False(t, m.dispatcher.Busy())
}

func TestOperationRejectedWhileBusy(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)

	fetch := press(m, keyRunes("f"))
	require.NotNil(t, fetch)
	assert.Equal(t, "Fetching from origin...", m.status.text)

	press(m, keyRunes("j"))
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Busy: Fetching from origin...", m.status.text)

	runCmd(t, m, fetch)
	assert.Equal(t, "Fetched from origin", m.status.text)
	assert.NotContains(t, b.Calls(), "checkout feature")
}

func TestDeleteBranchConfirm(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)

	press(m, keyRunes("d"))
	assert.False(t, m.screens.IsActive())
	assert.True(t, m.status.isErr)
	assert.Equal(t, "Cannot delete main: it is checked out", m.status.text)

	press(m, keyRunes("j"))
	press(m, keyRunes("d"))
	require.Equal(t, appscreen.TypeConfirm, m.screens.Type())
	confirm := m.screens.Current().(*appscreen.ConfirmScreen)
	assert.Equal(t, "Delete branch feature?", confirm.Message)

	cmd := press(m, keyRunes("y"))
	assert.False(t, m.screens.IsActive())
	runCmd(t, m, cmd)
	assert.Contains(t, b.Calls(), "delete feature")
}

func TestDeleteTagRefused(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())
	press(m, keyRunes("j"))
	press(m, keyRunes("l"))
	press(m, keyRunes("d"))
	assert.False(t, m.screens.IsActive())
	assert.Equal(t, "Cannot delete v1.0: only local branches can be deleted", m.status.text)
}

func TestMergeConflictReported(t *testing.T) {
	b := sampleBackend()
	b.merge = func(branch string) error {
		return &git.OpError{Op: "merge", Target: branch, Kind: git.KindConflict}
	}
	m := newLoadedModel(t, b)

	press(m, keyRunes("j"))
	press(m, keyRunes("m"))
	require.Equal(t, appscreen.TypeConfirm, m.screens.Type())
	assert.Equal(t, "Merge feature into main?", m.screens.Current().(*appscreen.ConfirmScreen).Message)

	cmd := press(m, keyRunes("n"))
	assert.Nil(t, cmd)
	assert.NotContains(t, b.Calls(), "merge feature")

	press(m, keyRunes("m"))
	runCmd(t, m, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Contains(t, b.Calls(), "merge feature")
	assert.True(t, m.status.isErr)
	assert.Equal(t, "merge feature stopped: merge feature: conflict", m.status.text)
}

func TestRebasePrompt(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())
	press(m, keyRunes("j"))
	press(m, keyRunes("r"))
	require.Equal(t, appscreen.TypeConfirm, m.screens.Type())
	assert.Equal(t, "Rebase main onto feature?", m.screens.Current().(*appscreen.ConfirmScreen).Message)
}

func TestCreateBranchPrompt(t *testing.T) {
	b := sampleBackend()
	m := newLoadedModel(t, b)

	press(m, keyRunes("j"))
	press(m, keyRunes("j"))
	press(m, keyRunes("b"))
	require.Equal(t, appscreen.TypeInput, m.screens.Type())
	input := m.screens.Current().(*appscreen.InputScreen)
	assert.Equal(t, "New branch at c300000", input.Prompt)

	for _, r := range "feature" {
		press(m, keyRunes(string(r)))
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.screens.IsActive(), "an existing name keeps the prompt open")
	assert.Equal(t, "Branch feature already exists", input.ErrorMsg)

	input.Input.SetValue("topic")
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.screens.IsActive())
	runCmd(t, m, cmd)
	assert.Contains(t, b.Calls(), "branch topic c300000")
}

func TestStatusExpiry(t *testing.T) {
	m := newLoadedModel(t, sampleBackend())

	require.NotNil(t, m.setStatus("first"))
	first := m.status.seq
	m.setStatus("second")
	m.Update(statusExpiredMsg{seq: first})
	assert.Equal(t, "second", m.status.text, "an older timer does not clear a newer status")

	m.Update(statusExpiredMsg{seq: m.status.seq})
	assert.Empty(t, m.status.text)

	m.setStickyStatus("Fetching from origin...")
	m.Update(statusExpiredMsg{seq: m.status.seq})
	assert.Equal(t, "Fetching from origin...", m.status.text)
}

func TestFailedOperationAppliesDeferredChange(t *testing.T) {
	tests := []struct {
		name       string
		changed    bool
		wantReload bool
	}{
		{name: "no change seen", changed: false, wantReload: false},
		{name: "change seen while merging", changed: true, wantReload: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sampleBackend()
			b.merge = func(branch string) error {
				return &git.OpError{Op: "merge", Target: branch, Kind: git.KindConflict}
			}
			m := newLoadedModel(t, b)
			m.watch = services.NewRefWatcher(nil, 0, nil)

			press(m, keyRunes("j"))
			press(m, keyRunes("m"))
			op := press(m, tea.KeyMsg{Type: tea.KeyEnter})
			require.True(t, m.dispatcher.Busy())
			if tt.changed {
				m.Update(gitDirChangedMsg{})
				assert.False(t, m.loading, "no reload while the merge runs")
				assert.True(t, m.watchPending)
			}

			seq := m.loadSeq
			runCmd(t, m, op)
			assert.True(t, m.status.isErr)
			assert.False(t, m.watchPending)
			assert.Equal(t, tt.wantReload, m.loadSeq > seq)
			assert.Equal(t, tt.wantReload, m.loading)
		})
	}
}
