package pgerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "unique violation", in: unique, want: common.ErrConflict},
		{name: "wrapped unique violation", in: fmt.Errorf("exec: %w", unique), want: common.ErrConflict},
		{name: "canceled", in: context.Canceled, want: common.ErrCanceled},
		{name: "deadline", in: context.DeadlineExceeded, want: common.ErrCanceled},
		{name: "other pg error", in: &pgconn.PgError{Code: pgerrcode.SyntaxError}, want: common.ErrStoreUnavailable},
		{name: "plain error", in: errors.New("conn refused"), want: common.ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.in)
			require.ErrorIs(t, got, tt.want)
			require.ErrorIs(t, got, tt.in)
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, Wrap(nil))
}

func TestConstraint(t *testing.T) {
	err := fmt.Errorf("x: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"})
	assert.Equal(t, "users_username_key", Constraint(err))
	assert.Empty(t, Constraint(errors.New("nope")))
}
