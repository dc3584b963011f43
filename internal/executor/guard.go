package executor

import (
	"context"
	"fmt"

	"github.com/aqasim81/mediatrack/internal/database"
	"github.com/aqasim81/mediatrack/internal/parser"
)

// guardFunc reports whether the schema already reflects stmt.
type guardFunc func(ctx context.Context, stmt parser.Statement) (bool, error)

// alreadyApplied checks the schema for the effect of an ADD COLUMN or a
// plain CREATE INDEX. Every other kind, including IF NOT EXISTS indexes and
// trigger batches, always runs.
func (e *Executor) alreadyApplied(ctx context.Context, stmt parser.Statement) (bool, error) {
	switch stmt.Kind {
	case parser.KindAddColumn:
		ok, err := database.ColumnExists(ctx, e.db, stmt.Table, stmt.Column)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrGuardCheck, err)
		}

		return ok, nil
	case parser.KindCreateIndex:
		ok, err := database.IndexExists(ctx, e.db, stmt.Index)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrGuardCheck, err)
		}

		return ok, nil
	default:
		return false, nil
	}
}

// Describe returns the decision label for stmt: "batch", "exec",
// "guard:add-column <table>.<column>" or "guard:index <name>".
func Describe(stmt parser.Statement) string {
	switch stmt.Kind {
	case parser.KindBatch:
		return "batch"
	case parser.KindAddColumn:
		return "guard:add-column " + stmt.Table + "." + stmt.Column
	case parser.KindCreateIndex:
		return "guard:index " + stmt.Index
	default:
		return "exec"
	}
}
