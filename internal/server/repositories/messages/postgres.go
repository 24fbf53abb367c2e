// Package messages provides the PostgreSQL-backed message store.
package messages

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/dbx"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/pgerr"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (id, user_to, user_from, message, state, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.UserTo, msg.UserFrom, msg.Body, int(msg.State), msg.CreatedAt); err != nil {
		return nil, pgerr.Wrap(err)
	}

	return msg, nil
}

// ListByRecipient returns the inbox of userID, oldest first.
func (r *PostgresRepository) ListByRecipient(ctx context.Context, userID string) ([]*models.Message, error) {
	query :=
		`SELECT id, user_to, user_from, message, state, created_at
		 FROM messages
		 WHERE user_to = $1
		 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	result := make([]*models.Message, 0)
	for rows.Next() {
		var (
			m     models.Message
			state int
		)
		if err := rows.Scan(&m.ID, &m.UserTo, &m.UserFrom, &m.Body, &state, &m.CreatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		m.State = models.MessageState(state)
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}

	return result, nil
}
