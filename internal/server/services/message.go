package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/dbx"
	"github.com/dmitrijs2005/fanbox/internal/logging"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/pgerr"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fanbox/internal/server/validation"
)

// MessageService sends and lists messages between registered users. The
// sender is always the authenticated caller.
type MessageService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	logger       logging.Logger
	storeTimeout time.Duration
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, storeTimeout time.Duration) *MessageService {
	return &MessageService{
		db:           db,
		repomanager:  m,
		logger:       logger.With("module", "message_service"),
		storeTimeout: storeTimeout,
	}
}

// Send stores a message from sender to in.To. The recipient check and the
// insert share one transaction. An unknown recipient yields
// common.ErrUserNotFound.
func (s *MessageService) Send(ctx context.Context, sender *models.User, in validation.Message) (*models.Message, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	var msg *models.Message
	err := s.repomanager.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).GetUserByID(ctx, in.To); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return err
		}

		var err error
		msg, err = s.repomanager.Messages(tx).Create(ctx, &models.Message{
			UserTo:   in.To,
			UserFrom: sender.ID,
			Body:     in.Body,
			State:    models.MessageStateNew,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, err
		}
		err = classifyTxError(err)
		s.logger.Error(ctx, "error sending message", "user_id", sender.ID, "error", err)
		return nil, err
	}

	return msg, nil
}

// Inbox lists the messages addressed to user, oldest first.
func (s *MessageService) Inbox(ctx context.Context, user *models.User) ([]*models.Message, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	msgs, err := s.repomanager.Messages(s.db).ListByRecipient(ctx, user.ID)
	if err != nil {
		s.logger.Error(ctx, "error listing messages", "user_id", user.ID, "error", err)
		return nil, err
	}
	return msgs, nil
}

// classifyTxError maps begin/commit failures, which never pass through a
// repository, to the store failure kinds.
func classifyTxError(err error) error {
	if errors.Is(err, common.ErrStoreUnavailable) || errors.Is(err, common.ErrCanceled) ||
		errors.Is(err, common.ErrConflict) {
		return err
	}
	return pgerr.Wrap(err)
}
