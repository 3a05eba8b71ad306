// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow the HTTP layer to map each
// failure to a single status code: ErrNotFound variants to 404,
// ErrForbidden to 403, ErrConflict to 409 and ErrEmailExists to 422.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is the root of every "missing resource" error.
var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)
	// ErrVoteNotFound is returned when a vote removal finds nothing to remove.
	ErrVoteNotFound = fmt.Errorf("vote %w", ErrNotFound)
)

// ErrForbidden is returned when the caller attempts to change a post they do
// not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an up-vote is cast on a post the user has
// already voted for.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering an email that is already taken.
var ErrEmailExists = errors.New("email already exists")

const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

func mysqlErrorNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicate(err error) bool { return mysqlErrorNumber(err) == mysqlDuplicateEntry }

func isMissingParent(err error) bool { return mysqlErrorNumber(err) == mysqlNoReferencedRow }
