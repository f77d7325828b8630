package pgerr

import (
	"context"
	"errors"
	"fmt"

	"fitness-league-go/internal/domain/league"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsUnavailable reports failures of the store itself rather than of the
// statement: timeouts, cancelled deadlines and refused connections.
func IsUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}

// Translate maps driver errors onto league.ErrStorageUnavailable where
// they mean the store cannot be reached. Other errors pass through.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, league.ErrStorageUnavailable) {
		return err
	}
	if IsUnavailable(err) {
		return fmt.Errorf("%w: %v", league.ErrStorageUnavailable, err)
	}
	return err
}

// NotFound translates err, mapping gorm.ErrRecordNotFound onto notFound.
func NotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return Translate(err)
}
