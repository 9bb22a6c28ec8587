// Package main is the entry point for the lazygraph application.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/chmouel/lazygraph/internal/app"
	"github.com/chmouel/lazygraph/internal/buildinfo"
	"github.com/chmouel/lazygraph/internal/config"
	"github.com/chmouel/lazygraph/internal/git"
	"github.com/chmouel/lazygraph/internal/log"
	"github.com/chmouel/lazygraph/internal/theme"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

const defaultTextWidth = 120

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newApp() *urfavecli.App {
	return &urfavecli.App{
		Name:                 "lazygraph",
		Usage:                "A terminal UI for browsing the git commit graph",
		Version:              buildinfo.Summary(),
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Action:               run,
		BashComplete:         completeGlobalFlags,
	}
}

// run loads the configuration and repository, then renders text or starts the TUI.
func run(c *urfavecli.Context) error {
	if debugLog := c.String("debug-log"); debugLog != "" {
		setupDebugLog(debugLog)
	}
	defer func() {
		if err := log.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
		}
	}()

	repo, err := git.Discover(c.String("repo"), git.Options{})
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, repo)
	if err != nil {
		return err
	}
	if c.String("debug-log") == "" {
		// An empty path drops what was buffered so far.
		setupDebugLog(cfg.DebugLog)
	}

	// Reopen with the configured limits now that the config is known.
	repo = git.New(repo.Raw(), repo.Root(), git.Options{
		DiffFileLimit: cfg.DiffFileLimit,
		Stats:         git.NewStatCache(cfg.DiffCacheTTL),
	})
	log.Printf("lazygraph %s in %s", buildinfo.Summary(), repo.Root())

	if c.Bool("text") {
		return runText(c, cfg, repo, c.App.Writer)
	}
	return runTUI(cfg, repo)
}

func runTUI(cfg *config.AppConfig, repo *git.Repository) error {
	model := app.NewModel(cfg, repo)
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	_, err := p.Run()
	model.Close()
	if err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

func runText(c *urfavecli.Context, cfg *config.AppConfig, repo *git.Repository, out io.Writer) error {
	tty := isTerminal(out)
	color := tty && !c.Bool("no-color")
	if !color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	ctx := context.Background()
	snap, err := git.LoadSnapshot(ctx, repo, cfg.CommitLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	changes := -1
	if snap.Dirty {
		if files, err := repo.WorkingTreeChanges(ctx); err == nil {
			changes = len(files)
		}
	}

	return app.RenderText(out, snap, app.TextOptions{
		Width:       textWidth(c.Int("width"), out),
		PaletteSize: cfg.PaletteSize,
		Theme:       theme.GetTheme(cfg.Theme),
		Color:       color,
		Changes:     changes,
	})
}

// loadConfig layers the config file, git config and CLI flags.
func loadConfig(c *urfavecli.Context, repo *git.Repository) (*config.AppConfig, error) {
	cfg, err := config.Load(config.Sources{
		File:      c.String("config-file"),
		Repo:      repo.Raw(),
		Overrides: c.StringSlice("config"),
	})
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := applyThemeConfig(cfg, c.String("theme")); err != nil {
		return nil, err
	}
	if c.IsSet("limit") {
		if limit := c.Int("limit"); limit > 0 {
			cfg.CommitLimit = limit
		}
	}
	return cfg, nil
}

// applyThemeConfig validates the theme from the flag or the config, and
// falls back to one matching the terminal background.
func applyThemeConfig(cfg *config.AppConfig, themeName string) error {
	if themeName == "" {
		themeName = cfg.Theme
	}
	if themeName == "" {
		cfg.Theme = theme.DetectBackground()
		return nil
	}
	normalized := theme.Normalize(themeName)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q", themeName)
	}
	cfg.Theme = normalized
	return nil
}

func setupDebugLog(path string) {
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

// textWidth prefers the flag, then the terminal width, then a fixed default.
func textWidth(flag int, w io.Writer) int {
	if flag > 0 {
		return flag
	}
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 { // #nosec G115
			return width
		}
	}
	return defaultTextWidth
}
