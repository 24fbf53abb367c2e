// Package services contains server-side business logic. This file implements
// UserService: registration, login and resolving the subject of a verified
// session token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/logging"
	"github.com/dmitrijs2005/fanbox/internal/server/auth"
	"github.com/dmitrijs2005/fanbox/internal/server/credentials"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fanbox/internal/server/validation"
)

// UserService is stateless apart from its immutable collaborators and is
// safe for concurrent use.
type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	codec        *credentials.Codec
	issuer       *auth.Issuer
	logger       logging.Logger
	storeTimeout time.Duration
	now          func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, codec *credentials.Codec,
	issuer *auth.Issuer, logger logging.Logger, storeTimeout time.Duration) *UserService {
	return &UserService{
		db:           db,
		repomanager:  m,
		codec:        codec,
		issuer:       issuer,
		logger:       logger.With("module", "user_service"),
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// Register creates a credential record in state new. The email lookup is a
// fast path; the store's unique constraint decides concurrent races.
func (s *UserService) Register(ctx context.Context, in validation.SignUp) (*models.User, error) {
	in.Normalize()
	if err := validation.Validate(in); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrEmailInUse
	case !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "error looking up user", "error", err)
		return nil, err
	}

	salt, err := s.codec.GenerateSalt()
	if err != nil {
		s.logger.Error(ctx, "error generating salt", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        in.Email,
		UserName:     in.UserName,
		Salt:         salt,
		PasswordHash: s.codec.DeriveHash(in.Password, salt),
		Type:         in.Type,
		State:        models.UserStateNew,
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailInUse) {
			return nil, common.ErrEmailInUse
		}
		if !errors.Is(err, common.ErrConflict) {
			s.logger.Error(ctx, "error creating user", "error", err)
		}
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID, "type", created.Type.String())
	return created, nil
}

// Login checks the password and returns a session token for the user.
// Recording the login time is best effort: a failure, including its own store
// deadline firing, is logged and the token is still issued once the attempt has
// finished. Only a caller whose ctx is done gets common.ErrCanceled.
func (s *UserService) Login(ctx context.Context, in validation.SignIn) (string, error) {
	in.Normalize()
	if err := validation.Validate(in); err != nil {
		return "", err
	}

	repo := s.repomanager.Users(s.db)

	lookupCtx, cancel := storeContext(ctx, s.storeTimeout)
	user, err := repo.GetUserByEmail(lookupCtx, in.Email)
	cancel()
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUserNotFound
		}
		s.logger.Error(ctx, "error looking up user", "error", err)
		return "", err
	}

	if !s.codec.Verify(in.Password, user.Salt, user.PasswordHash) {
		return "", common.ErrPasswordIncorrect
	}

	updateCtx, cancel := storeContext(ctx, s.storeTimeout)
	err = repo.UpdateLastLogin(updateCtx, user.ID, s.now().UTC())
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", common.ErrCanceled, ctx.Err())
		}
		s.logger.Warn(ctx, "error updating last login", "user_id", user.ID, "error", err)
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "user_id", user.ID, "error", err)
		return "", common.ErrorInternal
	}

	return token, nil
}

// ResolveSubject loads the record a verified token points at. A missing
// record yields common.ErrUnknownSubject.
func (s *UserService) ResolveSubject(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownSubject
		}
		return nil, err
	}
	return user, nil
}

// storeContext bounds a unit of store work. A non-positive timeout leaves
// ctx as is.
func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
