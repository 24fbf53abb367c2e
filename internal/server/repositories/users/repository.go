package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/server/models"
)

// Repository is the credential store. Create must enforce email and
// username uniqueness atomically and report a duplicate as common.ErrConflict.
// Lookups report a missing record as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
