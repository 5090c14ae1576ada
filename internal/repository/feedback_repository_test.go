package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsPgCode(t *testing.T) {
	err := fmt.Errorf("commit: %w", &pgconn.PgError{Code: serializationFailure})
	assert.True(t, isPgCode(err, serializationFailure))
	assert.False(t, isPgCode(err, uniqueViolation))
	assert.False(t, isPgCode(errors.New("boom"), serializationFailure))
	assert.False(t, isPgCode(nil, serializationFailure))
}

func TestSerializationConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "query failure", err: &pgconn.PgError{Code: serializationFailure}, want: ErrConcurrentSubmission},
		{name: "wrapped commit failure", err: fmt.Errorf("commit unexpectedly resulted in rollback: %w", &pgconn.PgError{Code: serializationFailure}), want: ErrConcurrentSubmission},
		{name: "duplicate passes through", err: ErrFeedbackExists, want: ErrFeedbackExists},
		{name: "recent contact passes through", err: ErrRecentContact, want: ErrRecentContact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, serializationConflict(tt.err), tt.want)
		})
	}
	assert.NoError(t, serializationConflict(nil))
}
