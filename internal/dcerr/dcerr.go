// SPDX-License-Identifier: GPL-3.0-or-later

// Package dcerr provides the core's typed error classification.
//
// Generalized from the bassosimone/nop ErrClassifier pattern: instead of
// classifying errors into free-form strings for measurement analysis, the
// agent core classifies into a small closed [Kind] enum so the RPC glue
// layer can deterministically map a failure onto an RPC status code.
package dcerr

import (
	"errors"
	"fmt"
)

// Kind is the classification of an [Error].
type Kind int

const (
	// Io indicates a local I/O failure (socket, file descriptor).
	Io Kind = iota
	// PlatformBus indicates a platform RPC bus failure (D-Bus call error).
	PlatformBus
	// PlatformBusTimeout indicates a platform RPC bus call exceeded its
	// timeout. Distinct from [PlatformBus] because the underlying request
	// was not cancelled, only abandoned (best-effort).
	PlatformBusTimeout
	// PlatformWin32 indicates a Win32 API call returned a nonzero error code.
	PlatformWin32
	// Unsupported indicates the requested capability does not exist on
	// this platform or in this runtime configuration. Not a failure in
	// itself: callers should treat it as "not available" rather than
	// "broken".
	Unsupported
)

// String renders the [Kind] for logging.
func (k Kind) String() string {
	switch k {
	case Io:
		return "io"
	case PlatformBus:
		return "platform_bus"
	case PlatformBusTimeout:
		return "platform_bus_timeout"
	case PlatformWin32:
		return "platform_win32"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the core's typed error: a [Kind] plus a wrapped cause and,
// for [PlatformWin32], the raw platform code.
type Error struct {
	Kind  Kind
	Code  uint32 // meaningful for PlatformWin32
	Cause error
}

var _ error = (*Error)(nil)

// New constructs an [*Error] of the given kind wrapping cause.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// NewWin32 constructs a [PlatformWin32] [*Error] carrying a raw code.
func NewWin32(code uint32, cause error) *Error {
	return &Error{Kind: PlatformWin32, Code: code, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
}

// Unwrap supports errors.Is / errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an [*Error] with the same [Kind], so
// callers can write errors.Is(err, dcerr.New(dcerr.Unsupported, nil)).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// Unsupportedf builds an [Unsupported] error with a formatted message.
func Unsupportedf(format string, args ...any) *Error {
	return New(Unsupported, fmt.Errorf(format, args...))
}
