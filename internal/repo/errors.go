package repo

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key (email, slug) is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInsufficientBalance is returned by a guarded deduction that would go below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// isUniqueViolation matches SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
