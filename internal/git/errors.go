package git

import (
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrRepositoryNotFound is returned by Discover when no repository encloses
// the start directory.
var ErrRepositoryNotFound = errors.New("no git repository found")

// ErrorKind classifies a failed operation.
type ErrorKind int

// Failure kinds reported by mutating operations.
const (
	KindIO ErrorKind = iota
	KindConflict
	KindNotFastForward
	KindRefNotFound
	KindRemoteNotConfigured
)

// Sentinels matching each kind through errors.Is.
var (
	ErrIO                  = errors.New("i/o error")
	ErrConflict            = errors.New("conflict")
	ErrNotFastForward      = errors.New("not a fast-forward")
	ErrRefNotFound         = errors.New("ref not found")
	ErrRemoteNotConfigured = errors.New("remote not configured")
)

func (k ErrorKind) String() string {
	return k.sentinel().Error()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConflict:
		return ErrConflict
	case KindNotFastForward:
		return ErrNotFastForward
	case KindRefNotFound:
		return ErrRefNotFound
	case KindRemoteNotConfigured:
		return ErrRemoteNotConfigured
	default:
		return ErrIO
	}
}

// OpError describes a failed repository operation.
type OpError struct {
	Op     string // checkout, merge, ...
	Target string
	Kind   ErrorKind
	Err    error
}

func (e *OpError) Error() string {
	subject := e.Op
	if e.Target != "" {
		subject += " " + e.Target
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", subject, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", subject, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// KindOf returns the kind of err, or KindIO when err is not an OpError.
func KindOf(err error) ErrorKind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindIO
}

func newOpError(op, target string, kind ErrorKind, err error) *OpError {
	return &OpError{Op: op, Target: target, Kind: kind, Err: err}
}

// wrapOp classifies a go-git error into an OpError. nil stays nil.
func wrapOp(op, target string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	return newOpError(op, target, classify(err), err)
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, gogit.ErrUnstagedChanges):
		return KindConflict
	case errors.Is(err, gogit.ErrRemoteNotFound):
		return KindRemoteNotConfigured
	case errors.Is(err, plumbing.ErrReferenceNotFound),
		errors.Is(err, plumbing.ErrObjectNotFound),
		errors.Is(err, gogit.ErrBranchNotFound):
		return KindRefNotFound
	case errors.Is(err, gogit.ErrNonFastForwardUpdate):
		return KindNotFastForward
	default:
		return KindIO
	}
}

// classifyOutput maps git CLI output from a failed command to a kind.
func classifyOutput(output string) ErrorKind {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "conflict"),
		strings.Contains(lower, "could not apply"),
		strings.Contains(lower, "would be overwritten"),
		strings.Contains(lower, "unstaged changes"),
		strings.Contains(lower, "uncommitted changes"),
		strings.Contains(lower, "unmerged files"):
		return KindConflict
	case strings.Contains(lower, "not possible to fast-forward"),
		strings.Contains(lower, "non-fast-forward"):
		return KindNotFastForward
	case strings.Contains(lower, "not something we can merge"),
		strings.Contains(lower, "invalid upstream"),
		strings.Contains(lower, "unknown revision"):
		return KindRefNotFound
	case strings.Contains(lower, "does not appear to be a git repository"),
		strings.Contains(lower, "no such remote"):
		return KindRemoteNotConfigured
	default:
		return KindIO
	}
}
