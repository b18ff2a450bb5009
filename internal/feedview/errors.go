// ABOUTME: Error taxonomy and notification side-channel for feed view operations
// ABOUTME: Every remote failure is one RemoteOperationFailure tier with a human-readable message

package feedview

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteOperation matches every failure of a remote call, whatever the cause.
	ErrRemoteOperation = errors.New("remote operation failed")
	// ErrBusy is returned when a guarded mutation for the same entity is still in flight.
	ErrBusy = errors.New("operation already in flight")
	// ErrNotFound is returned when a mutation targets an entity absent from the view.
	ErrNotFound = errors.New("entity not in view")
)

// Op names an engine operation.
type Op string

const (
	OpColdLoad      Op = "cold_load"
	OpLoadMore      Op = "load_more"
	OpSync          Op = "sync"
	OpUpdateItem    Op = "update_item"
	OpUpdateCluster Op = "update_cluster"
	OpMarkAllRead   Op = "mark_all_read"
)

// OperationError wraps a failed remote call.
type OperationError struct {
	Op  Op
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRemoteOperation.
func (e *OperationError) Is(target error) bool {
	return target == ErrRemoteOperation
}

// Message returns the text shown to the user for this failure.
func (e *OperationError) Message() string {
	switch e.Op {
	case OpColdLoad:
		return "Failed to load articles."
	case OpLoadMore:
		return fmt.Sprintf("Could not load more items: %v", e.Err)
	case OpSync:
		return "Sync failed."
	case OpUpdateItem, OpUpdateCluster:
		return "Failed to update status"
	default:
		return "Action failed."
	}
}

// Notice is a transient, dismissible error notification.
type Notice struct {
	Op      Op
	Message string
	Err     error
}

// Notifier receives failure notices and read-state changes. Implementations
// must not block and must not call back into the engine synchronously.
type Notifier interface {
	Notify(Notice)
	ReadStateChanged()
}

// NotifyFuncs adapts plain functions to Notifier. Nil fields are skipped.
type NotifyFuncs struct {
	OnNotice      func(Notice)
	OnReadChanged func()
}

// Notify calls OnNotice.
func (f NotifyFuncs) Notify(n Notice) {
	if f.OnNotice != nil {
		f.OnNotice(n)
	}
}

// ReadStateChanged calls OnReadChanged.
func (f NotifyFuncs) ReadStateChanged() {
	if f.OnReadChanged != nil {
		f.OnReadChanged()
	}
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

func (discardNotifier) ReadStateChanged() {}

func noticeFor(err *OperationError) Notice {
	return Notice{Op: err.Op, Message: err.Message(), Err: err}
}
