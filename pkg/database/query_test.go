package database

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestQueryReturnsEmptySliceForNoRows(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT id FROM students WHERE id = \\$1").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := Query(context.Background(), db, "SELECT id FROM students WHERE id = $1", int64(99))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryWithColumnsNormalisesBytes(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT id, name FROM students").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), []byte("Cadet A")))

	columns, rows, err := QueryWithColumns(context.Background(), db, "SELECT id, name FROM students")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, columns)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cadet A", rows[0]["name"])
	assert.Equal(t, int64(1), rows[0]["id"])
}

func TestQueryPropagatesFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	rows, err := Query(context.Background(), db, "SELECT 1")
	assert.Error(t, err)
	assert.Nil(t, rows)
}
