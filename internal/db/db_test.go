package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintViolation(t *testing.T) {
	overlap := &pq.Error{Code: CodeExclusionViolation, Constraint: "no_overlap_per_coach"}

	assert.True(t, ConstraintViolation(overlap, CodeExclusionViolation, "no_overlap_per_coach"))
	assert.True(t, ConstraintViolation(overlap, CodeExclusionViolation, ""))
	assert.False(t, ConstraintViolation(overlap, CodeExclusionViolation, "other_constraint"))
	assert.False(t, ConstraintViolation(overlap, CodeUniqueViolation, ""))

	wrapped := fmt.Errorf("insert reservation: %w", overlap)
	assert.True(t, ConstraintViolation(wrapped, CodeExclusionViolation, "no_overlap_per_coach"))

	assert.False(t, ConstraintViolation(sql.ErrNoRows, CodeExclusionViolation, ""))
}

func TestIsUniqueAndForeignKeyViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: CodeUniqueViolation}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: CodeForeignKeyViolation}))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: CodeForeignKeyViolation}))
}

func TestExists(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	dbx := sqlx.NewDb(conn, "sqlmock")
	query := `SELECT EXISTS(SELECT 1 FROM coaches WHERE id = $1)`

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := Exists(context.Background(), dbx, query, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(5).
		WillReturnError(sql.ErrNoRows)

	ok, err = Exists(context.Background(), dbx, query, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%yoga%", ContainsPattern("yoga"))
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, ContainsPattern(`a\b`))
}
