package database

import (
	"context"
	"fmt"
)

const (
	columnExistsSQL   = `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ? COLLATE NOCASE`
	objectExistsSQL   = `SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ? COLLATE NOCASE`
	objectTypeIndex   = "index"
	objectTypeTable   = "table"
	objectTypeTrigger = "trigger"
)

// ColumnExists reports whether table has a column named column.
// A table that does not exist has no columns.
func ColumnExists(ctx context.Context, db DBTX, table, column string) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, columnExistsSQL, table, column).Scan(&n); err != nil {
		return false, fmt.Errorf("%w: column %s.%s: %w", ErrIntrospection, table, column, err)
	}

	return n > 0, nil
}

// IndexExists reports whether an index named name is recorded in sqlite_master.
func IndexExists(ctx context.Context, db DBTX, name string) (bool, error) {
	return objectExists(ctx, db, objectTypeIndex, name)
}

// TableExists reports whether a table named name is recorded in sqlite_master.
func TableExists(ctx context.Context, db DBTX, name string) (bool, error) {
	return objectExists(ctx, db, objectTypeTable, name)
}

// TriggerExists reports whether a trigger named name is recorded in sqlite_master.
func TriggerExists(ctx context.Context, db DBTX, name string) (bool, error) {
	return objectExists(ctx, db, objectTypeTrigger, name)
}

func objectExists(ctx context.Context, db DBTX, typ, name string) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, objectExistsSQL, typ, name).Scan(&n); err != nil {
		return false, fmt.Errorf("%w: %s %s: %w", ErrIntrospection, typ, name, err)
	}

	return n > 0, nil
}
