package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fanbox/internal/dbx"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/messages"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
	// InTx runs fn against a transactional handle, committing on success.
	InTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error
}
