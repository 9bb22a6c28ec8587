package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForText(t *testing.T, tm *teatest.TestModel, text string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte(text))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(20*time.Millisecond))
}

func TestProgramLoadsAndQuits(t *testing.T) {
	tm := teatest.NewTestModel(t, NewModel(testConfig(), sampleBackend()), teatest.WithInitialTermSize(120, 40))

	waitForText(t, tm, "merge feature")
	tm.Send(keyRunes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	m, ok := tm.FinalModel(t).(*Model)
	require.True(t, ok)
	assert.True(t, m.quitting)
	assert.Len(t, m.Snapshot().Commits, 5)
}

func TestProgramFetchFlow(t *testing.T) {
	b := sampleBackend()
	release := make(chan struct{})
	b.fetch = func(string) error {
		<-release
		return nil
	}
	tm := teatest.NewTestModel(t, NewModel(testConfig(), b), teatest.WithInitialTermSize(120, 40))
	waitForText(t, tm, "merge feature")

	tm.Send(keyRunes("f"))
	waitForText(t, tm, "Fetching from origin...")
	close(release)
	waitForText(t, tm, "Fetched from origin")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	assert.Contains(t, b.Calls(), "fetch origin")
}

func TestProgramSearchCancel(t *testing.T) {
	tm := teatest.NewTestModel(t, NewModel(testConfig(), sampleBackend()), teatest.WithInitialTermSize(120, 40))
	waitForText(t, tm, "merge feature")

	tm.Send(keyRunes("G"))
	tm.Send(keyRunes("/"))
	waitForText(t, tm, "Search refs")
	tm.Type("feat")
	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(keyRunes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	m := tm.FinalModel(t).(*Model)
	assert.Equal(t, 4, m.view.Graph.Selected)
}
