package repositories

import (
	"errors"
	"fmt"

	"checky/internal/common"
	"checky/pkg/database"

	"github.com/jackc/pgx/v5"
)

// errNoRows stands in for an UPDATE that matched nothing.
var errNoRows = pgx.ErrNoRows

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// translateErr maps driver errors onto domain errors for the named entity.
func translateErr(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return common.NotFound(entity)
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", entity, common.ErrAlreadyExists)
	}
	return err
}

// likePattern builds an ILIKE argument from a sanitized search term.
func likePattern(q string) string {
	return "%" + common.SanitizeSearchQuery(q) + "%"
}
