// Package xerr defines the error kinds surfaced by the wallet session.
package xerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnknownNetwork: the requested network id is not in the registry.
	KindUnknownNetwork
	// KindInvalidSecret: import input is neither a valid phrase nor a valid key.
	KindInvalidSecret
	// KindValidation: local precondition failed before any network call.
	KindValidation
	// KindConnector: RPC or I/O failure talking to the chain.
	KindConnector
	// KindSubmission: the chain rejected (or timed out) a transaction submission.
	KindSubmission
	// KindPersistence: key store read/write/delete failure.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindUnknownNetwork:
		return "UnknownNetwork"
	case KindInvalidSecret:
		return "InvalidSecret"
	case KindValidation:
		return "ValidationError"
	case KindConnector:
		return "ConnectorError"
	case KindSubmission:
		return "SubmissionError"
	case KindPersistence:
		return "PersistenceError"
	default:
		return "Unknown"
	}
}

// Error is a tagged error. Err, when set, is the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a tagged error without a cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind. A nil err stays nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the kind of the outermost tagged error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
