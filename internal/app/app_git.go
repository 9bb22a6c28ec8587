package app

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	appscreen "github.com/chmouel/lazygraph/internal/app/screen"
	"github.com/chmouel/lazygraph/internal/models"
)

// submit hands op to the dispatcher and shows its progress until the
// result arrives.
func (m *Model) submit(op operation) tea.Cmd {
	cmd, err := m.dispatcher.Submit(op)
	if errors.Is(err, ErrBusy) {
		running, _ := m.dispatcher.Pending()
		return m.setStatus("Busy: " + running.progress())
	}
	if err != nil {
		return nil
	}
	m.setStickyStatus(op.progress())
	return cmd
}

func (m *Model) handleOpResult(msg opResultMsg) tea.Cmd {
	if !m.dispatcher.Resolve(msg) {
		return nil
	}
	pending := m.watchPending
	m.watchPending = false
	if msg.err != nil {
		cmd := m.setError(describeError(msg.op, msg.err))
		if pending {
			cmd = tea.Batch(cmd, m.loadSnapshot())
		}
		return cmd
	}
	return tea.Batch(m.setStatus(msg.op.success()), m.loadSnapshot())
}

// checkoutTarget picks what enter checks out on the selected row: the
// displayed branch, the commit of a tag, or the bare commit.
func checkoutTarget(c *models.Commit, ref models.Ref, hasRef bool) string {
	if hasRef && ref.Kind != models.RefTag {
		return ref.Name
	}
	return c.Hash
}

func (m *Model) checkout() tea.Cmd {
	c, ok := m.selectedCommit()
	if !ok {
		return m.setStatus("Nothing to check out on the uncommitted changes row")
	}
	ref, hasRef := m.selectedRef()
	target := checkoutTarget(c, ref, hasRef)
	if hasRef && ref.IsLocal() && ref.Name == m.snapshot.HeadBranch {
		return m.setStatus("Already on " + ref.Name)
	}
	if !hasRef && m.snapshot.HeadBranch == "" && c.Hash == m.snapshot.HeadHash {
		return m.setStatus("HEAD is already at " + c.ShortHash)
	}
	return m.submit(operation{kind: opCheckout, target: target})
}

// validateBranchName returns an error message for an unusable new branch
// name, or "".
func (m *Model) validateBranchName(name string) string {
	switch {
	case name == "":
		return "Branch name cannot be empty"
	case strings.ContainsAny(name, " \t~^:?*[\\"):
		return "Branch name contains invalid characters"
	case strings.HasPrefix(name, "-") || strings.HasSuffix(name, "/") || strings.Contains(name, ".."):
		return "Invalid branch name"
	}
	for _, ref := range m.snapshot.Refs {
		if ref.IsLocal() && ref.Name == name {
			return fmt.Sprintf("Branch %s already exists", name)
		}
	}
	return ""
}

func (m *Model) promptCreateBranch() tea.Cmd {
	at := m.snapshot.HeadHash
	if c, ok := m.selectedCommit(); ok {
		at = c.Hash
	}
	if at == "" {
		return m.setStatus("No commit to branch from")
	}
	s := appscreen.NewInputScreen(
		fmt.Sprintf("New branch at %s", models.ShortenHash(at)),
		"branch name",
		"",
		m.theme,
	)
	s.Validate = m.validateBranchName
	s.OnSubmit = func(name string) tea.Cmd {
		return m.submit(operation{kind: opCreateBranch, target: name, at: at})
	}
	m.screens.Push(s)
	return nil
}

// deleteGuard returns why ref cannot be deleted, or "".
func deleteGuard(ref models.Ref, ok bool, headBranch string) string {
	switch {
	case !ok:
		return "No branch selected"
	case !ref.IsLocal():
		return fmt.Sprintf("Cannot delete %s: only local branches can be deleted", ref.Name)
	case ref.Name == headBranch:
		return fmt.Sprintf("Cannot delete %s: it is checked out", ref.Name)
	}
	return ""
}

// integrateGuard returns why HEAD cannot be merged with or rebased onto
// ref, or "".
func integrateGuard(kind opKind, ref models.Ref, ok bool, headBranch string) string {
	switch {
	case !ok:
		return "No branch selected"
	case !ref.IsLocal():
		return fmt.Sprintf("Cannot %s %s: select a local branch", kind, ref.Name)
	case ref.Name == headBranch:
		return fmt.Sprintf("Cannot %s %s: it is HEAD", kind, ref.Name)
	}
	return ""
}

func (m *Model) confirmDelete() tea.Cmd {
	ref, ok := m.selectedRef()
	if reason := deleteGuard(ref, ok, m.snapshot.HeadBranch); reason != "" {
		return m.setError(reason)
	}
	m.confirm(fmt.Sprintf("Delete branch %s?", ref.Name), operation{kind: opDeleteBranch, target: ref.Name})
	return nil
}

func (m *Model) confirmIntegrate(kind opKind) tea.Cmd {
	ref, ok := m.selectedRef()
	if reason := integrateGuard(kind, ref, ok, m.snapshot.HeadBranch); reason != "" {
		return m.setError(reason)
	}
	head := m.snapshot.HeadBranch
	if head == "" {
		head = "HEAD"
	}
	message := fmt.Sprintf("Merge %s into %s?", ref.Name, head)
	if kind == opRebase {
		message = fmt.Sprintf("Rebase %s onto %s?", head, ref.Name)
	}
	m.confirm(message, operation{kind: kind, target: ref.Name})
	return nil
}

func (m *Model) confirm(message string, op operation) {
	s := appscreen.NewConfirmScreen(message, m.theme)
	s.OnConfirm = func() tea.Cmd { return m.submit(op) }
	m.screens.Push(s)
}

func (m *Model) fetch() tea.Cmd {
	return m.submit(operation{kind: opFetch, target: m.config.Remote})
}
