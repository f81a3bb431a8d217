package sqlite

import (
	"database/sql"
	"strings"

	"github.com/lanternsoft/lantern/internal/store"
)

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. The modernc driver surfaces these as plain errors carrying the
// sqlite message, so string matching is the practical check.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
