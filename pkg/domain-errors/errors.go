// Package domainerrors defines the tagged error type shared by services and
// handlers. Services return errors carrying an explicit kind code; the HTTP
// layer translates codes to statuses without string matching.
//
// Usage:
//
//	return dErrors.New(dErrors.CodeInvalidInput, "invalid SIREN format")
//	if dErrors.Is(err, dErrors.CodeInvalidInput) { ... }
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of a domain error.
type Code string

const (
	// CodeInvalidInput: client-supplied data fails a format or length
	// precondition. Recoverable by correcting the input.
	CodeInvalidInput Code = "invalid_input"
	// CodeValidation: malformed protocol-level input, such as a missing or
	// empty CSRF header.
	CodeValidation Code = "validation_error"
	// CodeConfiguration: missing server-side secret or API key. Not
	// recoverable by the caller.
	CodeConfiguration Code = "configuration_error"
	// CodeUpstreamAuth: the upstream registry rejected our credentials.
	CodeUpstreamAuth Code = "upstream_auth_error"
	// CodeRateLimitedUpstream: the upstream registry throttled us.
	CodeRateLimitedUpstream Code = "rate_limited_upstream"
	// CodeRateLimitedLocal: our own limiter throttled the request.
	CodeRateLimitedLocal Code = "rate_limited"
	// CodeUpstream: the upstream registry returned an unexpected failure.
	CodeUpstream Code = "upstream_error"
	// CodeTransport: network-level failure reaching the upstream registry.
	CodeTransport Code = "transport_error"
	// CodeForbidden: valid request shape, rejected token.
	CodeForbidden Code = "forbidden"
	// CodeInternal: programming fault or unexpected failure. Never surfaced
	// verbatim to clients.
	CodeInternal Code = "internal_error"
)

// Error is a domain error with an explicit kind code. It is a comparable value
// type so tests can use errors.Is against a freshly constructed instance.
type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// domainError aliases Error so wrapped can embed it under a field name that
// does not shadow the promoted Error method.
type domainError = Error

// wrapped carries an underlying cause alongside the domain error.
type wrapped struct {
	domainError
	cause error
}

func (w *wrapped) Unwrap() error { return w.cause }

func (w *wrapped) Is(target error) bool {
	if t, ok := target.(Error); ok {
		return w.Code == t.Code && w.Message == t.Message
	}
	return false
}

// New constructs a domain error with the given code and message.
func New(code Code, message string) error {
	return Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/As chains.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &wrapped{domainError: Error{Code: code, Message: message}, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the domain code from err, or CodeInternal when err carries
// none.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	var w *wrapped
	if errors.As(err, &w) {
		return w.Code
	}
	return CodeInternal
}

// MessageOf extracts the domain message from err, or a generic one when err
// carries none.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e Error
	if errors.As(err, &e) {
		return e.Message
	}
	var w *wrapped
	if errors.As(err, &w) {
		return w.Message
	}
	return "unexpected error"
}

// ToHTTPStatus maps a domain code to the HTTP status the route layer returns.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeValidation:
		return http.StatusBadRequest
	case CodeUpstreamAuth:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeRateLimitedUpstream, CodeRateLimitedLocal:
		return http.StatusTooManyRequests
	case CodeConfiguration, CodeUpstream, CodeTransport, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
