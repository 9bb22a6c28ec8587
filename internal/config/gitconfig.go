package config

import (
	"fmt"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/config"
	format "github.com/go-git/go-git/v5/plumbing/format/config"
)

// gitSection is the git config section holding lazygraph keys, as in
// `git config lazygraph.commit-limit 200`.
const gitSection = "lazygraph"

// overridePrefix prefixes keys given with --config.
const overridePrefix = "lg."

// ConfigReader exposes a repository's local git config. *git.Repository
// from go-git satisfies it.
type ConfigReader interface {
	Config() (*gitconfig.Config, error)
}

// loadGlobalGitConfig is replaced in tests.
var loadGlobalGitConfig = func() (*gitconfig.Config, error) {
	return gitconfig.LoadConfig(gitconfig.GlobalScope)
}

// normalizeKey maps git style keys such as commit-limit onto the YAML spelling.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// sectionValues returns the lazygraph section as a map for apply. The last
// definition of a repeated key wins, as with git.
func sectionValues(raw *format.Config) map[string]any {
	result := make(map[string]any)
	if raw == nil || !raw.HasSection(gitSection) {
		return result
	}
	for _, opt := range raw.Section(gitSection).Options {
		result[normalizeKey(opt.Key)] = opt.Value
	}
	return result
}

// loadGitConfig reads the global and, when repo is set, local git config.
func loadGitConfig(repo ConfigReader) (global, local map[string]any, err error) {
	globalCfg, err := loadGlobalGitConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("global git config: %w", err)
	}
	global = sectionValues(globalCfg.Raw)

	if repo == nil {
		return global, nil, nil
	}
	localCfg, err := repo.Config()
	if err != nil {
		return nil, nil, fmt.Errorf("local git config: %w", err)
	}
	return global, sectionValues(localCfg.Raw), nil
}

// parseCLIConfigOverrides parses --config=lg.key=value pairs.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: lg.key=value (note: use = not space)", override)
		}
		if !strings.HasPrefix(fullKey, overridePrefix) {
			return nil, fmt.Errorf("config override key must start with %q: %q", overridePrefix, fullKey)
		}
		key := normalizeKey(strings.TrimPrefix(fullKey, overridePrefix))
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		if !knownKey(key) {
			return nil, fmt.Errorf("unknown config key %q", key)
		}
		result[key] = value
	}

	return result, nil
}

func knownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
