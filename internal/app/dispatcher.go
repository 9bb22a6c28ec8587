package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygraph/internal/git"
	log "github.com/chmouel/lazygraph/internal/log"
	"github.com/chmouel/lazygraph/internal/models"
)

// Dispatcher errors.
var (
	ErrBusy             = errors.New("another operation is still running")
	ErrDispatcherClosed = errors.New("dispatcher is closed")
)

type opKind int

const (
	opCheckout opKind = iota
	opCreateBranch
	opDeleteBranch
	opMerge
	opRebase
	opFetch
)

func (k opKind) String() string {
	switch k {
	case opCheckout:
		return "checkout"
	case opCreateBranch:
		return "create branch"
	case opDeleteBranch:
		return "delete branch"
	case opMerge:
		return "merge"
	case opRebase:
		return "rebase"
	case opFetch:
		return "fetch"
	default:
		return "unknown"
	}
}

// operation is a confirmed action waiting to run against the backend.
type operation struct {
	kind   opKind
	target string
	at     string // commit for create branch
}

// progress is the status shown while the operation runs.
func (o operation) progress() string {
	switch o.kind {
	case opCheckout:
		return fmt.Sprintf("Checking out %s...", o.target)
	case opCreateBranch:
		return fmt.Sprintf("Creating branch %s...", o.target)
	case opDeleteBranch:
		return fmt.Sprintf("Deleting branch %s...", o.target)
	case opMerge:
		return fmt.Sprintf("Merging %s...", o.target)
	case opRebase:
		return fmt.Sprintf("Rebasing onto %s...", o.target)
	case opFetch:
		return fmt.Sprintf("Fetching from %s...", o.target)
	default:
		return "Working..."
	}
}

// success is the status shown once the operation completed.
func (o operation) success() string {
	switch o.kind {
	case opCheckout:
		return fmt.Sprintf("Checked out %s", o.target)
	case opCreateBranch:
		return fmt.Sprintf("Created branch %s at %s", o.target, models.ShortenHash(o.at))
	case opDeleteBranch:
		return fmt.Sprintf("Deleted branch %s", o.target)
	case opMerge:
		return fmt.Sprintf("Merged %s", o.target)
	case opRebase:
		return fmt.Sprintf("Rebased onto %s", o.target)
	case opFetch:
		return fmt.Sprintf("Fetched from %s", o.target)
	default:
		return "Done"
	}
}

func (o operation) run(ctx context.Context, b git.Backend) error {
	switch o.kind {
	case opCheckout:
		return b.Checkout(ctx, o.target)
	case opCreateBranch:
		return b.CreateBranch(ctx, o.target, o.at)
	case opDeleteBranch:
		return b.DeleteBranch(ctx, o.target)
	case opMerge:
		return b.Merge(ctx, o.target)
	case opRebase:
		return b.Rebase(ctx, o.target)
	case opFetch:
		return b.Fetch(ctx, o.target)
	default:
		return fmt.Errorf("unknown operation %d", o.kind)
	}
}

type pendingOp struct {
	id      uint64
	op      operation
	started time.Time
	cancel  context.CancelFunc
}

// Dispatcher runs backend mutations off the event loop, one at a time.
// Submit hands back a tea.Cmd; its opResultMsg must be passed to Resolve,
// which frees the slot and reports whether the result is still wanted.
type Dispatcher struct {
	backend git.Backend
	ctx     context.Context
	cancel  context.CancelFunc
	nextID  uint64
	pending *pendingOp
	closed  bool
}

// NewDispatcher binds a dispatcher to backend. Operations are cancelled
// when parent is.
func NewDispatcher(parent context.Context, backend git.Backend) *Dispatcher {
	ctx, cancel := context.WithCancel(parent)
	return &Dispatcher{backend: backend, ctx: ctx, cancel: cancel}
}

// Busy reports whether an operation occupies the slot.
func (d *Dispatcher) Busy() bool { return d.pending != nil }

// Pending returns the running operation, if any.
func (d *Dispatcher) Pending() (operation, bool) {
	if d.pending == nil {
		return operation{}, false
	}
	return d.pending.op, true
}

// Submit claims the slot for op. It fails with ErrBusy while another
// operation runs and with ErrDispatcherClosed after Close.
func (d *Dispatcher) Submit(op operation) (tea.Cmd, error) {
	if d.closed {
		return nil, ErrDispatcherClosed
	}
	if d.pending != nil {
		log.Debug("dispatcher: rejected", "op", op.kind.String(), "target", op.target, "running", d.pending.op.kind.String())
		return nil, ErrBusy
	}

	d.nextID++
	id := d.nextID
	ctx, cancel := context.WithCancel(d.ctx)
	d.pending = &pendingOp{id: id, op: op, started: time.Now(), cancel: cancel}
	log.Debug("dispatcher: submit", "id", id, "op", op.kind.String(), "target", op.target)

	backend := d.backend
	return func() tea.Msg {
		err := op.run(ctx, backend)
		return opResultMsg{id: id, op: op, err: err}
	}, nil
}

// Resolve accepts the result of a submitted operation. It returns false for
// results that arrive after Close or that do not belong to the running
// operation; those must be dropped.
func (d *Dispatcher) Resolve(msg opResultMsg) bool {
	if d.closed || d.pending == nil || d.pending.id != msg.id {
		log.Debug("dispatcher: stale result", "id", msg.id, "op", msg.op.kind.String())
		return false
	}
	d.pending.cancel()
	log.Debug("dispatcher: done", "id", msg.id, "op", msg.op.kind.String(),
		"elapsed", time.Since(d.pending.started).String(), "err", msg.err)
	d.pending = nil
	return true
}

// Close cancels any running operation without waiting for it.
func (d *Dispatcher) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.cancel()
	d.pending = nil
}

// describeError turns an operation failure into a status line.
func describeError(op operation, err error) string {
	var opErr *git.OpError
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("%s cancelled", op.kind)
	case errors.As(err, &opErr) && opErr.Kind == git.KindConflict:
		return fmt.Sprintf("%s %s stopped: %v", op.kind, op.target, err)
	default:
		return fmt.Sprintf("%s failed: %v", op.kind, err)
	}
}
