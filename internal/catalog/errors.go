package catalog

import (
	"errors"
	"fmt"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/repo"
)

var errUnconfigured = apperr.Unavailable("database not configured", nil)

// writeErr maps a store error on an admin write path. Store failures keep the
// driver message so an operator can act on it.
func writeErr(op, what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, repo.ErrDuplicate):
		return apperr.Conflict(what + " already exists")
	default:
		return apperr.Internal(fmt.Sprintf("%s: %v", op, err), err)
	}
}
