package errs_test

import (
	"errors"
	"net/http"
	"testing"

	"orders/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Run("message carries the identifier", func(t *testing.T) {
		err := errs.NewNotFoundError("Order", "missing-id")

		assert.Equal(t, "Order", err.Resource)
		assert.Equal(t, "missing-id", err.ID)
		assert.Equal(t, "Order with id #missing-id not found", err.Error())
	})

	t.Run("unwraps to the sentinel", func(t *testing.T) {
		err := errs.NewNotFoundError("Order", "123")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestRemoteError(t *testing.T) {
	t.Run("structured payload relayed as-is", func(t *testing.T) {
		err := errs.NewRemoteError(http.StatusBadRequest, "Some products were not found")

		assert.Equal(t, http.StatusBadRequest, err.Status)
		assert.Equal(t, "Some products were not found", err.Error())
		require.ErrorIs(t, err, errs.ErrRemote)
	})

	t.Run("unstructured failure becomes unknown error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewUnknownRemoteError(cause)

		assert.Equal(t, http.StatusInternalServerError, err.Status)
		assert.Equal(t, "Unknown error (cause: connection reset)", err.Error())
		assert.Equal(t, cause, err.Cause)
		require.ErrorIs(t, err, errs.ErrRemote)
	})
}

func TestStatusOf(t *testing.T) {
	t.Run("not found maps to 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, errs.StatusOf(errs.NewNotFoundError("Order", "1")))
	})

	t.Run("remote error keeps its status", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, errs.StatusOf(errs.NewRemoteError(http.StatusBadRequest, "nope")))
	})

	t.Run("wrapped errors are still recognized", func(t *testing.T) {
		wrapped := errors.Join(errors.New("context"), errs.NewNotFoundError("Order", "1"))
		assert.Equal(t, http.StatusNotFound, errs.StatusOf(wrapped))
	})

	t.Run("unrecognized errors map to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, errs.StatusOf(errors.New("boom")))
	})
}
