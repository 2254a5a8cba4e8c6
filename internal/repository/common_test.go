package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyContention(t *testing.T) {
	for _, code := range []string{
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.LockNotAvailable,
	} {
		err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: code, Message: "busy"})
		assert.ErrorIs(t, classifyContention(err), models.ErrContention, code)
	}

	other := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	assert.False(t, errors.Is(classifyContention(other), models.ErrContention))
	assert.Equal(t, error(other), classifyContention(other))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, classifyContention(plain))
}
