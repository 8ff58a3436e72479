package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the collaborator that produced it
type Kind string

const (
	KindUnknown                Kind = "unknown"
	KindModelUnavailable       Kind = "model_unavailable"
	KindSentimentUnavailable   Kind = "sentiment_unavailable"
	KindPersistenceUnavailable Kind = "persistence_unavailable"
	KindValidationRejected     Kind = "validation_rejected"
	KindNetworkUnreachable     Kind = "network_unreachable"
	KindNotFound               Kind = "not_found"
)

// Error wraps a cause with the operation that failed and its kind
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
// This lets callers match with errors.Is(err, apperrors.New(kind, "", nil)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// New creates a classified error
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
