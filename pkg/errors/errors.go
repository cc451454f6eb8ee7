// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package errors defines the structured error type shared across ferret.
// Every failure carries a code, a kind discriminant, and an HTTP status so
// callers can branch on category (connection, authentication, operation)
// without string matching, and the facade can answer with the right code.
package errors

import "fmt"

// New creates a FerretError for the given code. details is free-form text
// surfaced to the user alongside the code's canonical message.
func New(code ErrorCode, details string) *FerretError {
	def, ok := errorDefinitions[code]
	if !ok {
		def = errorDefinitions[FerretMisc]
	}
	return &FerretError{
		Code:       code,
		Kind:       def.kind,
		Message:    def.message,
		Details:    details,
		HTTPStatus: def.httpStatus,
	}
}

// Wrap converts err into a FerretError with the given code. An err that
// already is a FerretError passes through unchanged so classification
// happens exactly once.
func Wrap(err error, code ErrorCode) *FerretError {
	if err == nil {
		return nil
	}
	if fe, ok := err.(*FerretError); ok {
		return fe
	}
	fe := New(code, err.Error())
	fe.err = err
	return fe
}

func (e *FerretError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s-%d] %s: %s", e.Kind, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s-%d] %s", e.Kind, e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for the standard library error helpers.
func (e *FerretError) Unwrap() error {
	return e.err
}

// WithMetadata attaches a contextual key/value pair and returns the error
// for chaining.
func (e *FerretError) WithMetadata(key, value string) *FerretError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// WithHTTPStatus overrides the status the facade responds with. The
// dispatcher uses this to carry the agent's own status code through.
func (e *FerretError) WithHTTPStatus(status int) *FerretError {
	if status > 0 {
		e.HTTPStatus = status
	}
	return e
}

// AsFerretError returns the FerretError within err, if any.
func AsFerretError(err error) (*FerretError, bool) {
	for err != nil {
		if fe, ok := err.(*FerretError); ok {
			return fe, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

// Is reports whether err carries the given error code.
func Is(err error, code ErrorCode) bool {
	fe, ok := AsFerretError(err)
	return ok && fe.Code == code
}

// IsKind reports whether err belongs to the given failure category.
func IsKind(err error, kind Kind) bool {
	fe, ok := AsFerretError(err)
	return ok && fe.Kind == kind
}

// IsConnection reports whether the agent was unreachable or timed out.
// Callers may retry these with backoff.
func IsConnection(err error) bool { return IsKind(err, KindConnection) }

// IsAuthentication reports whether the agent rejected credentials. Retrying
// with the same key will not succeed.
func IsAuthentication(err error) bool { return IsKind(err, KindAuthentication) }

// IsOperation reports whether the agent was reached but refused or failed
// the specific request.
func IsOperation(err error) bool { return IsKind(err, KindOperation) }
