package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primmfy/internal/entity"
)

const (
	insertQuery = `(?s)^\s*INSERT\s+INTO\s+auth_events\s*\(id,\s*kind,\s*email,\s*user_id,\s*role,\s*remote_addr,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*$`
	selectQuery = `(?s)^\s*SELECT\s+id,\s*kind,\s*email,\s*user_id,\s*role,\s*remote_addr,\s*created_at\s+FROM\s+auth_events\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$2\s*$`
)

func newRepoWithMock(t *testing.T) (*AuthEventRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAuthEventRepository(db), mock
}

func TestRecord_WithUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	uid := 7

	mock.ExpectExec(insertQuery).
		WithArgs("ev-1", "login", "jane@example.com", sql.NullInt64{Int64: 7, Valid: true}, "student", "10.0.0.1:5555", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Record(context.Background(), entity.AuthEvent{
		ID: "ev-1", Kind: entity.EventLogin, Email: "jane@example.com",
		UserID: &uid, Role: entity.RoleStudent, RemoteAddr: "10.0.0.1:5555", CreatedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_FailedAttemptHasNoUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(insertQuery).
		WithArgs("ev-2", "login_failed", "jane@example.com", sql.NullInt64{}, "", "", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Record(context.Background(), entity.AuthEvent{
		ID: "ev-2", Kind: entity.EventLoginFailed, Email: "jane@example.com", CreatedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	boom := errors.New("connection refused")
	mock.ExpectExec(insertQuery).WillReturnError(boom)

	err := repo.Record(context.Background(), entity.AuthEvent{ID: "ev-3", Kind: entity.EventLogout})

	var repoErr *AuthEventRepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "insert", repoErr.Op)
	assert.ErrorIs(t, err, boom)
}

func TestRecent(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	t1 := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "kind", "email", "user_id", "role", "remote_addr", "created_at"}).
		AddRow("b", "logout", "jane@example.com", int64(7), "student", "10.0.0.1", t1).
		AddRow("a", "login", "jane@example.com", nil, "", "10.0.0.1", t2)
	mock.ExpectQuery(selectQuery).WithArgs(7, 10).WillReturnRows(rows)

	got, err := repo.Recent(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, entity.EventLogout, got[0].Kind)
	require.NotNil(t, got[0].UserID)
	assert.Equal(t, 7, *got[0].UserID)
	assert.Equal(t, entity.RoleStudent, got[0].Role)
	assert.Equal(t, t1, got[0].CreatedAt)
	assert.Nil(t, got[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(selectQuery).WillReturnError(sql.ErrConnDone)

	_, err := repo.Recent(context.Background(), 7, 5)

	assert.ErrorIs(t, err, sql.ErrConnDone)
}
