package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/dbx"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/messages"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/users"
	"github.com/google/uuid"
)

// InMemoryRepositoryManager keeps users and messages in process memory. It
// enforces the same uniqueness and not-found rules as the PostgreSQL
// repositories and is used for local runs (DSN "memory") and tests.
// The DBTX arguments are ignored.
type InMemoryRepositoryManager struct {
	mu       sync.Mutex
	users    map[string]*models.User
	byEmail  map[string]string
	byName   map[string]string
	messages []*models.Message
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return &inMemoryUsers{m: m}
}

func (m *InMemoryRepositoryManager) Messages(dbx.DBTX) messages.Repository {
	return &inMemoryMessages{m: m}
}

// InTx holds no real transaction: fn runs directly.
func (m *InMemoryRepositoryManager) InTx(ctx context.Context, _ *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

// DeleteUser removes a user and the messages addressed to or sent by it.
func (m *InMemoryRepositoryManager) DeleteUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return
	}
	delete(m.users, id)
	delete(m.byEmail, u.Email)
	delete(m.byName, u.UserName)

	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.UserTo != id && msg.UserFrom != id {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
}

type inMemoryUsers struct {
	m *InMemoryRepositoryManager
}

func (r *inMemoryUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.byEmail[user.Email]; ok {
		return nil, errEmailConflict
	}
	if _, ok := r.m.byName[user.UserName]; ok {
		return nil, common.ErrConflict
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	stored := *user
	r.m.users[user.ID] = &stored
	r.m.byEmail[user.Email] = user.ID
	r.m.byName[user.UserName] = user.ID

	return user, nil
}

func (r *inMemoryUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	id, ok := r.m.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.m.copyUser(id), nil
}

func (r *inMemoryUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[id]; !ok {
		return nil, common.ErrorNotFound
	}
	return r.m.copyUser(id), nil
}

func (r *inMemoryUsers) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return canceled(err)
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastLoginAt = &at
	return nil
}

// copyUser must be called with mu held.
func (m *InMemoryRepositoryManager) copyUser(id string) *models.User {
	u := *m.users[id]
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		u.LastLoginAt = &t
	}
	return &u
}

type inMemoryMessages struct {
	m *InMemoryRepositoryManager
}

func (r *inMemoryMessages) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	stored := *msg
	r.m.messages = append(r.m.messages, &stored)
	return msg, nil
}

func (r *inMemoryMessages) ListByRecipient(ctx context.Context, userID string) ([]*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	result := make([]*models.Message, 0)
	for _, msg := range r.m.messages {
		if msg.UserTo == userID {
			m := *msg
			result = append(result, &m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

var errEmailConflict = fmt.Errorf("%w: %w", common.ErrEmailInUse, common.ErrConflict)

func canceled(err error) error {
	return fmt.Errorf("%w: %w", common.ErrCanceled, err)
}
