package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	log "github.com/chmouel/lazygraph/internal/log"
)

// LookupPath is used to find the git executable. Tests replace it to
// simulate a missing binary.
var LookupPath = exec.LookPath

// ErrGitNotInstalled is returned when an operation needs the git CLI and
// none is on PATH.
var ErrGitNotInstalled = fmt.Errorf("git executable not found in PATH")

func prepareGitCommand(ctx context.Context, dir string, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no git arguments provided")
	}
	if _, err := LookupPath("git"); err != nil {
		return nil, ErrGitNotInstalled
	}
	// #nosec G204 -- arguments come from internal operations and are not shell interpolated
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	// never block on an editor or a credential prompt behind the TUI
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_EDITOR=true", "GIT_MERGE_AUTOEDIT=no")
	return cmd, nil
}

// runGit executes git in dir and returns its trimmed combined output. On
// failure the output is returned alongside the error so callers can
// classify it.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	command := "git " + strings.Join(args, " ")
	log.Printf("run: %s (cwd=%s)", command, dir)

	cmd, err := prepareGitCommand(ctx, dir, args)
	if err != nil {
		log.Printf("error: %s: %v", command, err)
		return "", err
	}

	output, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(output))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		detail := out
		if exitErr, ok := err.(*exec.ExitError); ok && detail == "" {
			detail = fmt.Sprintf("exit %d", exitErr.ExitCode())
		}
		log.Printf("error: %s: %s", command, detail)
		return out, fmt.Errorf("%s: %s", command, firstLine(detail))
	}

	log.Printf("ok: %s", command)
	return out, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
