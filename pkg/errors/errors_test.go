package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "student not found")
	wrapped := fmt.Errorf("outer: %w", typed)

	got := FromError(wrapped)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "student not found", got.Message)
}

func TestFromErrorHidesUnknownCause(t *testing.T) {
	got := FromError(sql.ErrConnDone)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, ErrInternal.Message, got.Message)
	assert.ErrorIs(t, got, sql.ErrConnDone)
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrValidation, "name is required")
	assert.Equal(t, "name is required", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("delete: %w", &pq.Error{Code: "23503"})))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(sql.ErrNoRows))
}
