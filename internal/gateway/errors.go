package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies gateway failures.
type Kind int

const (
	// KindNetwork covers unreachable hosts, timeouts, cancellations, non-2xx
	// responses other than 404 and undecodable bodies.
	KindNetwork Kind = iota + 1
	// KindNotFound means the target no longer exists on the server.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var (
	// ErrNetwork matches any KindNetwork *Error via errors.Is.
	ErrNetwork = errors.New("gateway: network failure")

	// ErrNotFound matches any KindNotFound *Error via errors.Is.
	ErrNotFound = errors.New("gateway: not found")
)

// Error is returned by every Client operation that fails.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets callers match on ErrNetwork / ErrNotFound.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// KindOf reports the failure kind of err, or 0 when err is not a gateway error.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return 0
}
