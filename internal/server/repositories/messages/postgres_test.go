package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+messages\s*\(id,\s*user_to,\s*user_from,\s*message,\s*state,\s*created_at\)\s*VALUES\s*\(\$1,.*\$6\)$`
	listQ   = `(?s)^SELECT\s+id,\s*user_to,\s*user_from,\s*message,\s*state,\s*created_at\s+FROM\s+messages\s+WHERE\s+user_to\s*=\s*\$1\s+ORDER\s+BY\s+created_at$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(insertQ).
		WithArgs(sqlmock.AnyArg(), "to", "from", "hi", 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m, err := repo.Create(context.Background(), &models.Message{UserTo: "to", UserFrom: "from", Body: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Message{UserTo: "to", UserFrom: "from", Body: "hi"})
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestListByRecipient(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(listQ).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_to", "user_from", "message", "state", "created_at"}).
			AddRow("m1", "u1", "u2", "hello", 0, t1).
			AddRow("m2", "u1", "u3", "again", 1, t1.Add(time.Minute)))

	got, err := repo.ListByRecipient(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0].Body)
	assert.Equal(t, models.MessageStateRead, got[1].State)
}

func TestListByRecipient_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_to", "user_from", "message", "state", "created_at"}))

	got, err := repo.ListByRecipient(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByRecipient_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WithArgs("u1").WillReturnError(context.Canceled)

	_, err := repo.ListByRecipient(context.Background(), "u1")
	require.ErrorIs(t, err, common.ErrCanceled)
}
