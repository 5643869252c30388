package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(sqlDB, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewRepository(sqlxDB), mock
}

var userRowColumns = []string{"id", "name", "email", "password_hash", "role", "phone", "created_at"}

func TestRepository_CreateAndFind(t *testing.T) {
	repo, mock := setupUserMock(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role, phone)")).
		WithArgs("Alice", "a@lessonbook.test", "hash", "member", nil).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(1, "Alice", "a@lessonbook.test", "hash", "member", nil, now))

	u, err := repo.Create(ctx, &User{Name: "Alice", Email: "a@lessonbook.test", PasswordHash: "hash", Role: "member"})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@lessonbook.test").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(1, "Alice", "a@lessonbook.test", "hash", "member", "010-0000", now))

	found, err := repo.FindByEmail(ctx, "a@lessonbook.test")
	require.NoError(t, err)
	require.NotNil(t, found.Phone)
	assert.Equal(t, "010-0000", *found.Phone)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("a@lessonbook.test").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(ctx, "a@lessonbook.test")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.Create(context.Background(), &User{Name: "A", Email: "dup@lessonbook.test", PasswordHash: "h", Role: "member"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRepository_Search(t *testing.T) {
	repo, mock := setupUserMock(t)
	ctx := context.Background()
	now := time.Now()
	columns := append(append([]string{}, userRowColumns...), "reservation_count", "active_memberships")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.name ILIKE $1 OR u.email ILIKE $1 OR u.phone ILIKE $1 ORDER BY u.created_at DESC LIMIT $2")).
		WithArgs("%park%", 100).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "Park", "park@lessonbook.test", "hash", "member", nil, now, 2, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users u ORDER BY u.created_at DESC LIMIT $1")).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(columns))

	users, err := repo.Search(ctx, " park ", 100)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 2, users[0].ReservationCount)
	assert.Equal(t, 1, users[0].ActiveMemberships)

	users, err = repo.Search(ctx, "", 100)
	require.NoError(t, err)
	assert.Empty(t, users)
	require.NoError(t, mock.ExpectationsWereMet())
}
