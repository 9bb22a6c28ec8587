package main

import (
	"fmt"
	"strings"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/chmouel/lazygraph/internal/config"
	"github.com/chmouel/lazygraph/internal/theme"
)

// globalFlags returns all flags of the application.
// --version is provided by urfave/cli via App.Version.
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "repo",
			Value: ".",
			Usage: "Path inside the repository to open",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme (" + strings.Join(theme.AvailableThemes(), ", ") + ")",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=lg.key=value",
		},
		&urfavecli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of commits to load",
		},
		&urfavecli.BoolFlag{
			Name:  "text",
			Usage: "Print the graph to stdout instead of starting the UI",
		},
		&urfavecli.IntFlag{
			Name:  "width",
			Usage: "Line width for --text, defaults to the terminal width",
		},
		&urfavecli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colours in --text output",
		},
	}
}

// completeGlobalFlags completes flag names, theme names after --theme and
// config keys after --config.
func completeGlobalFlags(c *urfavecli.Context) {
	for _, s := range completions(c.Args().Slice()) {
		fmt.Println(s)
	}
}

func completions(args []string) []string {
	prev := ""
	if len(args) > 0 {
		prev = args[len(args)-1]
	}
	switch prev {
	case "--theme", "-t":
		return theme.AvailableThemes()
	case "--config", "-C":
		return suggestConfigKeys("")
	}

	var out []string
	for _, f := range globalFlags() {
		for _, name := range f.Names() {
			if len(name) == 1 {
				out = append(out, "-"+name)
				continue
			}
			out = append(out, "--"+name)
		}
	}
	return out
}

// suggestConfigKeys returns lg.key= suggestions matching the prefix.
func suggestConfigKeys(prefix string) []string {
	var out []string
	for _, key := range config.Keys {
		candidate := "lg." + key + "="
		if strings.HasPrefix(candidate, prefix) {
			out = append(out, candidate)
		}
	}
	return out
}
