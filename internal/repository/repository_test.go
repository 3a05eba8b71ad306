package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func duplicateErr() error { return &mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"} }

func missingParentErr() error {
	return &mysql.MySQLError{Number: mysqlNoReferencedRow, Message: "Cannot add or update a child row"}
}

var userCols = []string{"id", "email", "password_hash", "phone_number", "created_at", "updated_at"}

var postCols = []string{
	"id", "title", "content", "published", "user_id", "created_at", "updated_at",
	"id", "email", "phone_number", "created_at", "updated_at", "votes",
}

func postRow(rows *sqlmock.Rows, id uint64, title string, owner uint64, votes int64) *sqlmock.Rows {
	return rows.AddRow(id, title, "body of "+title, true, owner, fixedTime, fixedTime,
		owner, "owner@example.com", nil, fixedTime, fixedTime, votes)
}
