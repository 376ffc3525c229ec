// Package stream bridges the storage engine's asynchronous work to
// synchronous, single-consumer stream handles. Each stream is an explicit
// state machine; the only blocking points are GetObjectStream.Next,
// PutObjectStream.Write/Finalize and ListObjectStream.Next. The stream
// mutex is held only for state transitions and released for the duration
// of the blocking wait, so engine I/O and other caller work proceed while
// a pull is outstanding.
package stream

import "errors"

// State tracks a stream's position in its lifecycle. States only advance
// forward; Exhausted, Errored and Cancelled are terminal.
type State int32

const (
	StateCreated State = iota
	StateActive
	StateYielding
	StateExhausted
	StateErrored
	StateCancelled
)

// Terminal reports whether no further transitions are possible
func (s State) Terminal() bool {
	return s == StateExhausted || s == StateErrored || s == StateCancelled
}

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActive:
		return "active"
	case StateYielding:
		return "yielding"
	case StateExhausted:
		return "exhausted"
	case StateErrored:
		return "errored"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Contract violations. These indicate caller bugs, not engine failures.
var (
	// ErrConcurrentUse is returned when a second pull or write lands on a
	// stream while another is still in flight. Streams are single-consumer.
	ErrConcurrentUse = errors.New("stream: concurrent use of single-consumer stream")

	// ErrFinalized is returned for writes after Finalize, or a second Finalize.
	ErrFinalized = errors.New("stream: upload already finalized")

	// ErrClosed is returned for operations on a cancelled stream.
	ErrClosed = errors.New("stream: stream closed")
)
