package messages

import (
	"context"

	"github.com/dmitrijs2005/fanbox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	ListByRecipient(ctx context.Context, userID string) ([]*models.Message, error)
}
