package errorutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSentinels(t *testing.T) {
	err := fmt.Errorf("load scope: %w", NewForbidden("outside your organization"))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindForbidden, KindOf(err))

	assert.ErrorIs(t, NewNotFound("recording", nil), ErrNotFound)
	assert.ErrorIs(t, NewInvalidRange("start after end", nil), ErrInvalidRange)
	assert.ErrorIs(t, NewConflict("duplicate", nil), ErrConflict)
	assert.ErrorIs(t, NewValidationError("bad", nil), ErrValidation)
	assert.ErrorIs(t, NewUnauthenticated("no token"), ErrUnauthenticated)
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.Equal(t, Kind(""), KindOf(nil))

	notFound := ToDomainError(fmt.Errorf("scan: %w", pgx.ErrNoRows))
	require.NotNil(t, notFound)
	assert.Equal(t, KindNotFound, notFound.Kind)

	cause := errors.New("connection reset")
	internal := ToDomainError(cause)
	assert.Equal(t, KindInternal, internal.Kind)
	assert.ErrorIs(t, internal, cause)

	original := NewConflict("duplicate", map[string]any{"id": "rec-1"})
	assert.Same(t, original, ToDomainError(original))
}

func TestNewNotFoundMessage(t *testing.T) {
	var de *DomainError
	require.ErrorAs(t, NewNotFound("city", map[string]any{"id": "c-1"}), &de)
	assert.Equal(t, "city not found", de.Message)
	assert.Equal(t, "c-1", de.Details["id"])
}
