package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CarriesCodeAndMessage(t *testing.T) {
	err := New(CodeInvalidInput, "invalid SIREN format")

	assert.Equal(t, CodeInvalidInput, CodeOf(err))
	assert.Equal(t, "invalid SIREN format", MessageOf(err))
	assert.True(t, Is(err, CodeInvalidInput))
	assert.False(t, Is(err, CodeInternal))
}

func TestNew_ErrorsIsComparable(t *testing.T) {
	err := New(CodeForbidden, "nope")
	require.ErrorIs(t, err, New(CodeForbidden, "nope"))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeTransport, "registry unreachable")

	assert.True(t, Is(err, CodeTransport))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "registry unreachable", MessageOf(err))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "whatever"))
}

func TestCodeOf_WrappedDeep(t *testing.T) {
	inner := New(CodeRateLimitedUpstream, "too many requests")
	outer := fmt.Errorf("search: %w", inner)

	assert.Equal(t, CodeRateLimitedUpstream, CodeOf(outer))
}

func TestCodeOf_ForeignErrorIsInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidInput:        http.StatusBadRequest,
		CodeValidation:          http.StatusBadRequest,
		CodeUpstreamAuth:        http.StatusUnauthorized,
		CodeForbidden:           http.StatusForbidden,
		CodeRateLimitedUpstream: http.StatusTooManyRequests,
		CodeRateLimitedLocal:    http.StatusTooManyRequests,
		CodeConfiguration:       http.StatusInternalServerError,
		CodeUpstream:            http.StatusInternalServerError,
		CodeTransport:           http.StatusInternalServerError,
		CodeInternal:            http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
