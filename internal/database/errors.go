package database

import (
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrInvalidDatabasePath indicates the provided database path is empty or unusable.
var ErrInvalidDatabasePath = errors.New("invalid database path")

// ErrConnectionFailed indicates a connection to the database could not be established.
var ErrConnectionFailed = errors.New("database connection failed")

// ErrIntrospection indicates a schema lookup against sqlite_master or
// pragma_table_info failed.
var ErrIntrospection = errors.New("schema introspection failed")

const duplicateColumnMessage = "duplicate column name"

// IsDuplicateColumn reports whether err is SQLite rejecting an ADD COLUMN
// because the column already exists. Driver errors must carry the generic
// SQLITE_ERROR code; any other error is matched on its message alone.
func IsDuplicateColumn(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff != sqlite3lib.SQLITE_ERROR {
		return false
	}

	return strings.Contains(strings.ToLower(err.Error()), duplicateColumnMessage)
}
