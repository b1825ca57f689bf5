package app

import (
	"errors"

	"github.com/evanschultz/todomirror/internal/domain"
)

// ErrTaskNotFound and related errors describe rejected intents and remote failures.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNoEditSession     = errors.New("no active edit session")
	ErrBusy              = errors.New("operation already in flight")
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrRemoteRejected    = errors.New("remote rejected request")
	ErrRemoteMalformed   = errors.New("malformed remote response")
	ErrInvalidPreference = errors.New("invalid preference value")
)

// ErrorKind classifies an error for diagnostics.
type ErrorKind string

// ErrorKindTransport and related constants name the reported error classes.
const (
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindStatus    ErrorKind = "status"
	ErrorKindMalformed ErrorKind = "malformed"
	ErrorKindRejected  ErrorKind = "rejected"
	ErrorKindUnknown   ErrorKind = "unknown"
)

// KindOf maps an error onto the diagnostic taxonomy.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRemoteUnavailable):
		return ErrorKindTransport
	case errors.Is(err, ErrRemoteRejected):
		return ErrorKindStatus
	case errors.Is(err, ErrRemoteMalformed),
		errors.Is(err, ErrInvalidPreference),
		errors.Is(err, domain.ErrDuplicateID):
		return ErrorKindMalformed
	case errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrNoEditSession),
		errors.Is(err, ErrBusy),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFilter):
		return ErrorKindRejected
	default:
		return ErrorKindUnknown
	}
}
