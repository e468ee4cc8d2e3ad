package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, InvalidInput.HTTPStatus())
	assert.Equal(t, http.StatusConflict, Conflict.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, IllegalStateTransition.HTTPStatus())
	assert.Equal(t, http.StatusTooManyRequests, RateLimited.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Kind("bogus").HTTPStatus())
}

func TestWrapSanitizesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Wrap(cause)
	assert.Equal(t, Internal, err.Kind)
	assert.Equal(t, "An internal error occurred", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestAsUnwrapsChain(t *testing.T) {
	inner := New(NotFound, "employee not found")
	wrapped := errorsWrap(inner)

	found, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, NotFound, found.Kind)
}

type wrappedErr struct{ err error }

func (w *wrappedErr) Error() string { return w.err.Error() }
func (w *wrappedErr) Unwrap() error { return w.err }

func errorsWrap(err error) error {
	return &wrappedErr{err: err}
}
