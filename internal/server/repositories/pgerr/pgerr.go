// Package pgerr translates database driver errors into the store failure
// kinds the services understand.
package pgerr

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Wrap classifies err as common.ErrConflict (unique violation),
// common.ErrCanceled (context canceled or deadline exceeded) or
// common.ErrStoreUnavailable (anything else), keeping the original error in
// the chain. A nil err stays nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return fmt.Errorf("db error: %w: %w", common.ErrConflict, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("db error: %w: %w", common.ErrCanceled, err)
	default:
		return fmt.Errorf("db error: %w: %w", common.ErrStoreUnavailable, err)
	}
}

// Constraint returns the violated constraint name for a unique violation,
// or "" for any other error.
func Constraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}
