// Package app is the interactive commit graph: a bubbletea model combining
// the lane layout, the view state and the operation dispatcher.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/chmouel/lazygraph/internal/app/screen"
	"github.com/chmouel/lazygraph/internal/app/services"
	"github.com/chmouel/lazygraph/internal/app/state"
	"github.com/chmouel/lazygraph/internal/config"
	"github.com/chmouel/lazygraph/internal/git"
	"github.com/chmouel/lazygraph/internal/graph"
	log "github.com/chmouel/lazygraph/internal/log"
	"github.com/chmouel/lazygraph/internal/models"
	"github.com/chmouel/lazygraph/internal/theme"
)

// detailDebounce delays diff stat loads while the selection is moving.
const detailDebounce = 80 * time.Millisecond

// uncommittedKey identifies the synthetic working tree row in the detail pane.
const uncommittedKey = "*uncommitted*"

type detailState struct {
	key     string // commit hash, or uncommittedKey
	loading bool
	stat    *models.DiffStat
	changes []models.WorktreeFile
	err     error
}

type statusState struct {
	text   string
	seq    uint64
	sticky bool
	isErr  bool
}

// Model is the root bubbletea model.
type Model struct {
	config  *config.AppConfig
	theme   *theme.Theme
	keys    KeyMap
	backend git.Backend

	ctx    context.Context
	cancel context.CancelFunc

	view       *state.ViewState
	screens    *screen.Manager
	dispatcher *Dispatcher
	watch      *services.RefWatcher
	zones      *zone.Manager
	painter    *graph.Painter

	snapshot  *models.Snapshot
	layout    *graph.Layout
	positions []models.Position
	labelled  []int
	labelSel  map[string]int // selected label per commit hash
	branches  []models.Ref

	loadSeq uint64
	loading bool
	loadErr error

	search searchState
	detail detailState
	status statusState

	autoRefreshStarted bool
	watchPending       bool // a git directory change arrived mid-operation
	quitting           bool
}

// NewModel builds the model for backend. cfg is used as is; callers load
// and clamp it beforehand.
func NewModel(cfg *config.AppConfig, backend git.Backend) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	thm := theme.GetTheme(cfg.Theme)

	m := &Model{
		config:     cfg,
		theme:      thm,
		keys:       DefaultKeyMap(),
		backend:    backend,
		ctx:        ctx,
		cancel:     cancel,
		view:       state.NewViewState(cfg.PageSize, cfg.ScrollMargin),
		screens:    screen.NewManager(),
		dispatcher: NewDispatcher(ctx, backend),
		zones:      zone.New(),
		painter:    graph.NewPainter(thm.Palette(cfg.PaletteSize)),
		labelSel:   make(map[string]int),
		search:     newSearchState(thm),
	}
	m.zones.SetEnabled(cfg.Mouse)
	if resolver, ok := backend.(services.GitDirResolver); ok && cfg.AutoRefresh {
		m.watch = services.NewRefWatcher(resolver, services.RefreshDebounce, log.Printf)
	}
	return m
}

// Init loads the first snapshot and starts the refresh sources.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadSnapshot(),
		m.startGitWatcher(),
		m.startAutoRefresh(),
	)
}

// Update routes messages to their handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case snapshotLoadedMsg:
		return m, m.handleSnapshotLoaded(msg)

	case opResultMsg:
		return m, m.handleOpResult(msg)

	case diffStatLoadedMsg:
		m.handleDiffStatLoaded(msg)
		return m, nil

	case worktreeChangesMsg:
		m.handleWorktreeChanges(msg)
		return m, nil

	case detailDebounceMsg:
		return m, m.handleDetailDebounce(msg)

	case statusExpiredMsg:
		if msg.seq == m.status.seq && !m.status.sticky {
			m.status = statusState{seq: m.status.seq}
		}
		return m, nil

	case gitDirChangedMsg:
		return m, m.handleGitDirChanged()

	case autoRefreshTickMsg:
		var cmd tea.Cmd
		if !m.loading && !m.dispatcher.Busy() {
			cmd = m.loadSnapshot()
		}
		return m, tea.Batch(cmd, m.autoRefreshTick())
	}
	return m, nil
}

// quit releases the model's resources and stops the program.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.Close()
	return tea.Quit
}

// Close cancels running work and stops the watcher. It never waits for an
// operation to finish.
func (m *Model) Close() {
	m.dispatcher.Close()
	m.stopGitWatcher()
	m.cancel()
	if m.zones != nil {
		m.zones.Close()
	}
}

// Snapshot returns the commit model currently displayed.
func (m *Model) Snapshot() *models.Snapshot { return m.snapshot }
