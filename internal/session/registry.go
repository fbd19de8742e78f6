package session

import (
	"sync/atomic"
	"time"

	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/MKhiriev/whispee/models"
)

// OperationState is the lifecycle state of a [PendingOperation].
type OperationState int32

const (
	StateWaiting OperationState = iota
	StateResolved
	StateTimedOut
	StateCancelled
)

// String implements fmt.Stringer.
func (s OperationState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateResolved:
		return "resolved"
	case StateTimedOut:
		return "timed_out"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// OutcomeStatus tells how a pending operation ended.
type OutcomeStatus int

const (
	OutcomeSucceeded OutcomeStatus = iota + 1
	OutcomeFailed
	OutcomeTimeout
	OutcomeCancelled
)

// String implements fmt.Stringer.
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the result recorded on a pending operation when it ends.
type Outcome struct {
	Status OutcomeStatus

	// User and SessionID are set for a successful identity operation, and
	// User for a lookup that found an account.
	User      *models.Identity
	SessionID string

	// Found is the lookup answer.
	Found bool

	// Chat results: the chat list, the opened chat with its messages, the
	// stored message or the id of the deleted one.
	Chats     []models.Chat
	Chat      *models.Chat
	Messages  []models.Message
	Message   *models.Message
	MessageID int64

	// Reason is a human-readable failure description.
	Reason string
}

// PendingOperation is the handle of one request waiting for its reply.
type PendingOperation struct {
	ID          string
	Kind        models.OperationKind
	SubmittedAt time.Time

	state   atomic.Int32
	outcome Outcome
	done    chan struct{}

	// stopTimer disarms the timeout timer, if one was armed.
	stopTimer func() bool
}

// State returns the current lifecycle state of the operation.
func (op *PendingOperation) State() OperationState {
	return OperationState(op.state.Load())
}

// Done is closed once the operation leaves StateWaiting.
func (op *PendingOperation) Done() <-chan struct{} {
	return op.done
}

// Outcome returns the recorded outcome. ok is false while the operation is
// still waiting.
func (op *PendingOperation) Outcome() (outcome Outcome, ok bool) {
	select {
	case <-op.done:
		return op.outcome, true
	default:
		return Outcome{}, false
	}
}

func (op *PendingOperation) finish(state OperationState, outcome Outcome) {
	if op.stopTimer != nil {
		op.stopTimer()
	}
	op.outcome = outcome
	op.state.Store(int32(state))
	close(op.done)
}

// Registry tracks at most one waiting operation per kind.
//
// A Registry is not safe for concurrent use; the owning [Session] only
// touches it from its own goroutine.
type Registry struct {
	pending map[models.OperationKind]*PendingOperation

	now   func() time.Time
	newID func() string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		pending: make(map[models.OperationKind]*PendingOperation),
		now:     time.Now,
		newID:   utils.NewUUIDGenerator().Generate,
	}
}

// Submit opens a waiting operation of kind. It fails with [ErrBusy] if one
// is already waiting.
func (r *Registry) Submit(kind models.OperationKind) (*PendingOperation, error) {
	if _, ok := r.pending[kind]; ok {
		return nil, ErrBusy
	}

	op := &PendingOperation{
		ID:          r.newID(),
		Kind:        kind,
		SubmittedAt: r.now(),
		done:        make(chan struct{}),
	}
	r.pending[kind] = op

	return op, nil
}

// Pending returns the waiting operation of kind, if any.
func (r *Registry) Pending(kind models.OperationKind) (*PendingOperation, bool) {
	op, ok := r.pending[kind]
	return op, ok
}

// Resolve ends the waiting operation of kind with outcome and wakes its
// waiters. It reports false when nothing of that kind is waiting.
func (r *Registry) Resolve(kind models.OperationKind, outcome Outcome) bool {
	op, ok := r.pending[kind]
	if !ok {
		return false
	}
	delete(r.pending, kind)
	op.finish(StateResolved, outcome)

	return true
}

// Timeout ends the waiting operation of kind with a timeout outcome. A
// timer that belongs to an operation already gone (id mismatch) is ignored.
func (r *Registry) Timeout(kind models.OperationKind, id string) bool {
	op, ok := r.pending[kind]
	if !ok || op.ID != id {
		return false
	}
	delete(r.pending, kind)
	op.finish(StateTimedOut, Outcome{Status: OutcomeTimeout, Reason: ReasonTimeout})

	return true
}

// Cancel ends the waiting operation of kind with a cancelled outcome. It
// reports false when nothing of that kind is waiting.
func (r *Registry) Cancel(kind models.OperationKind) bool {
	op, ok := r.pending[kind]
	if !ok {
		return false
	}
	delete(r.pending, kind)
	op.finish(StateCancelled, Outcome{Status: OutcomeCancelled, Reason: ReasonCancelled})

	return true
}

// CancelAll ends every waiting operation with a cancelled outcome and
// returns them.
func (r *Registry) CancelAll() []*PendingOperation {
	cancelled := make([]*PendingOperation, 0, len(r.pending))
	for kind, op := range r.pending {
		delete(r.pending, kind)
		op.finish(StateCancelled, Outcome{Status: OutcomeCancelled, Reason: ReasonCancelled})
		cancelled = append(cancelled, op)
	}

	return cancelled
}

// Len returns the number of waiting operations.
func (r *Registry) Len() int {
	return len(r.pending)
}
