package sqlite

import (
	"database/sql"
	"errors"

	"github.com/roster-app/roster/core"
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// convertSqliteError will convert known sqlite errors to their core variant.
// Anything unclassified becomes core.ErrInvalidOperation so that no raw driver
// error crosses the repository boundary. Converting nil will simply return nil.
func convertSqliteError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr *sqlitedriver.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(core.ErrConflict, err)
		default:
			return errors.Join(core.ErrInvalidOperation, err)
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Join(core.ErrNotFound, err)
	}
	return errors.Join(core.ErrInvalidOperation, err)
}
