package pgerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fitness-league-go/internal/domain/league"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate(nil))

	err := Translate(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, league.ErrStorageUnavailable)

	plain := errors.New("syntax error")
	assert.Equal(t, plain, Translate(plain))
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, NotFound(gorm.ErrRecordNotFound, league.ErrEntryNotFound), league.ErrNotFound)
	assert.ErrorIs(t, NotFound(context.DeadlineExceeded, league.ErrEntryNotFound), league.ErrStorageUnavailable)
}
