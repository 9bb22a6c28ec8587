// Package config loads lazygraph settings from YAML, git config, and CLI overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chmouel/lazygraph/internal/theme"
)

// Defaults for the values the graph and backend depend on.
const (
	DefaultCommitLimit   = 500
	DefaultDiffFileLimit = 50
	DefaultPageSize      = 10
	DefaultScrollMargin  = 3
	DefaultStatusTimeout = 5 * time.Second
	DefaultDiffCacheTTL  = 10 * time.Minute
	DefaultRemote        = "origin"
)

// AppConfig defines the lazygraph configuration options.
type AppConfig struct {
	CommitLimit     int
	DiffFileLimit   int
	PaletteSize     int
	PageSize        int
	ScrollMargin    int
	StatusTimeout   time.Duration
	Remote          string
	Theme           string // see theme.AvailableThemes; empty means detect
	AutoRefresh     bool
	RefreshInterval time.Duration // periodic reload on top of the watcher, 0 disables
	DebugLog        string
	Mouse           bool
	ShowIcons       bool
	DiffCacheTTL    time.Duration
}

// Keys lists every recognised configuration key.
var Keys = []string{
	"commit_limit", "diff_file_limit", "palette_size", "page_size",
	"scroll_margin", "status_timeout", "remote", "theme", "auto_refresh",
	"refresh_interval", "debug_log", "mouse", "show_icons", "diff_cache_ttl",
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		CommitLimit:   DefaultCommitLimit,
		DiffFileLimit: DefaultDiffFileLimit,
		PaletteSize:   theme.MaxPalette,
		PageSize:      DefaultPageSize,
		ScrollMargin:  DefaultScrollMargin,
		StatusTimeout: DefaultStatusTimeout,
		Remote:        DefaultRemote,
		AutoRefresh:   true,
		Mouse:         true,
		DiffCacheTTL:  DefaultDiffCacheTTL,
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func coerceSeconds(value any, defaultVal time.Duration) time.Duration {
	secs := coerceInt(value, -1)
	if secs < 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func coerceString(value any, defaultVal string) string {
	text, ok := value.(string)
	if !ok {
		return defaultVal
	}
	if text = strings.TrimSpace(text); text == "" {
		return defaultVal
	}
	return text
}

// apply layers the keys present in data over cfg. Missing or malformed
// values keep what cfg already holds.
func (cfg *AppConfig) apply(data map[string]any) {
	if len(data) == 0 {
		return
	}
	cfg.CommitLimit = coerceInt(data["commit_limit"], cfg.CommitLimit)
	cfg.DiffFileLimit = coerceInt(data["diff_file_limit"], cfg.DiffFileLimit)
	cfg.PaletteSize = coerceInt(data["palette_size"], cfg.PaletteSize)
	cfg.PageSize = coerceInt(data["page_size"], cfg.PageSize)
	cfg.ScrollMargin = coerceInt(data["scroll_margin"], cfg.ScrollMargin)
	cfg.StatusTimeout = coerceSeconds(data["status_timeout"], cfg.StatusTimeout)
	cfg.RefreshInterval = coerceSeconds(data["refresh_interval"], cfg.RefreshInterval)
	cfg.DiffCacheTTL = coerceSeconds(data["diff_cache_ttl"], cfg.DiffCacheTTL)
	cfg.Remote = coerceString(data["remote"], cfg.Remote)
	cfg.DebugLog = coerceString(data["debug_log"], cfg.DebugLog)
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
	cfg.Mouse = coerceBool(data["mouse"], cfg.Mouse)
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)

	if name := coerceString(data["theme"], ""); name != "" {
		if normalized := theme.Normalize(name); normalized != "" {
			cfg.Theme = normalized
		}
	}
	cfg.clamp()
}

func (cfg *AppConfig) clamp() {
	if cfg.CommitLimit <= 0 {
		cfg.CommitLimit = DefaultCommitLimit
	}
	if cfg.DiffFileLimit <= 0 {
		cfg.DiffFileLimit = DefaultDiffFileLimit
	}
	if cfg.PaletteSize <= 0 || cfg.PaletteSize > theme.MaxPalette {
		cfg.PaletteSize = theme.MaxPalette
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.ScrollMargin < 0 {
		cfg.ScrollMargin = 0
	}
	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = DefaultStatusTimeout
	}
	if cfg.RefreshInterval > 0 && cfg.RefreshInterval < time.Second {
		cfg.RefreshInterval = time.Second
	}
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// DefaultPaths returns the config file locations tried when no file is given.
func DefaultPaths() []string {
	base := filepath.Join(getConfigDir(), "lazygraph")
	return []string{
		filepath.Join(base, "config.yaml"),
		filepath.Join(base, "config.yml"),
	}
}

// readYAML returns the decoded contents of the first existing path, or nil.
func readYAML(paths []string) (map[string]any, error) {
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 -- user supplied config path
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return yamlData, nil
	}
	return nil, nil
}

// LoadConfig reads the YAML configuration file. An empty configPath tries
// the default locations. A missing file yields the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	paths := DefaultPaths()
	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		if _, err := os.Stat(expanded); err != nil {
			return DefaultConfig(), fmt.Errorf("config file: %w", err)
		}
		paths = []string{expanded}
	}

	cfg := DefaultConfig()
	data, err := readYAML(paths)
	if err != nil {
		return cfg, err
	}
	cfg.apply(data)
	return cfg, nil
}

// Sources names every place Load reads from.
type Sources struct {
	File      string       // explicit config file, empty for the default paths
	Repo      ConfigReader // local git config, may be nil
	Overrides []string     // lg.key=value pairs from the command line
}

// Load builds the configuration from defaults, the YAML file, global then
// local git config, and CLI overrides, in increasing precedence.
func Load(src Sources) (*AppConfig, error) {
	cfg, err := LoadConfig(src.File)
	if err != nil {
		return cfg, err
	}
	global, local, err := loadGitConfig(src.Repo)
	if err != nil {
		return cfg, err
	}
	cfg.apply(global)
	cfg.apply(local)
	if err := cfg.ApplyCLIOverrides(src.Overrides); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyCLIOverrides layers lg.key=value pairs over the configuration.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	cfg.apply(data)
	return nil
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
