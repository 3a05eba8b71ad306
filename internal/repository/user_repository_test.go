package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepoCreateNormalizesEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice@example.com", "hash", nil).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("SELECT .* FROM users WHERE id = ?").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(5, "alice@example.com", "hash", nil, fixedTime, fixedTime))

	u, err := NewUserRepo(db).Create(context.Background(), "  Alice@Example.COM ", "hash", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Nil(t, u.PhoneNumber)
}

func TestUserRepoCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").WillReturnError(duplicateErr())

	_, err := NewUserRepo(db).Create(context.Background(), "bob@example.com", "hash", nil)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepoGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT .* FROM users WHERE id = ?").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := NewUserRepo(db).GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoListScansPhone(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT .* FROM users ORDER BY id LIMIT \\? OFFSET \\?").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "a@example.com", "h1", "+15550100", fixedTime, fixedTime).
			AddRow(2, "b@example.com", "h2", nil, fixedTime, fixedTime))

	users, err := NewUserRepo(db).List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.NotNil(t, users[0].PhoneNumber)
	assert.Equal(t, "+15550100", *users[0].PhoneNumber)
	assert.Nil(t, users[1].PhoneNumber)
}
