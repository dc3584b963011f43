package parser

import (
	"regexp"
	"strings"
)

// Kind identifies which idempotency check, if any, applies to a statement.
type Kind int

const (
	// KindExec is any statement executed without a pre-check.
	KindExec Kind = iota
	// KindAddColumn is ALTER TABLE <table> ADD COLUMN <column>.
	KindAddColumn
	// KindCreateIndex is CREATE [UNIQUE] INDEX <name> without IF NOT EXISTS.
	KindCreateIndex
	// KindCreateIndexIfNotExists is CREATE [UNIQUE] INDEX IF NOT EXISTS.
	KindCreateIndexIfNotExists
	// KindBatch is a whole migration sent unsplit (trigger migrations).
	KindBatch
)

// String returns the label used in plan output.
func (k Kind) String() string {
	switch k {
	case KindExec:
		return "exec"
	case KindAddColumn:
		return "add-column"
	case KindCreateIndex:
		return "create-index"
	case KindCreateIndexIfNotExists:
		return "create-index-if-not-exists"
	case KindBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// identifier matches a bare name or one quoted with "", `` or [], which
// may contain spaces. qualifiedIdentifier allows a schema prefix.
const (
	identifier          = `(?:"[^"]+"|` + "`[^`]+`" + `|\[[^\]]+\]|[^\s(."` + "`" + `\[]+)`
	qualifiedIdentifier = identifier + `(?:\.` + identifier + `)?`
)

//nolint:gochecknoglobals // compiled once, used by Classify
var (
	addColumnPattern = regexp.MustCompile(
		`(?i)^ALTER\s+TABLE\s+(` + qualifiedIdentifier + `)\s+ADD\s+COLUMN\s+(` + identifier + `)`)
	indexIfNotExistsExpr = regexp.MustCompile(`(?i)^CREATE\s+(?:UNIQUE\s+)?INDEX\s+IF\s+NOT\s+EXISTS\b`)
	indexPattern         = regexp.MustCompile(`(?i)^CREATE\s+(?:UNIQUE\s+)?INDEX\s+(` + qualifiedIdentifier + `)`)
)

// Statement is a single SQL statement with the identifiers its guard needs.
type Statement struct {
	SQL    string
	Kind   Kind
	Table  string // KindAddColumn
	Column string // KindAddColumn
	Index  string // KindCreateIndex
}

// Classify matches a trimmed statement against the guarded patterns.
// The IF NOT EXISTS index form is checked before the plain form.
func Classify(stmt string) Statement {
	stmt = strings.TrimSpace(stmt)

	if m := addColumnPattern.FindStringSubmatch(stmt); m != nil {
		return Statement{
			SQL:    stmt,
			Kind:   KindAddColumn,
			Table:  Unquote(m[1]),
			Column: Unquote(m[2]),
		}
	}

	if indexIfNotExistsExpr.MatchString(stmt) {
		return Statement{SQL: stmt, Kind: KindCreateIndexIfNotExists}
	}

	if m := indexPattern.FindStringSubmatch(stmt); m != nil {
		return Statement{SQL: stmt, Kind: KindCreateIndex, Index: Unquote(m[1])}
	}

	return Statement{SQL: stmt, Kind: KindExec}
}

// Unquote drops a schema qualifier and the SQLite identifier quotes
// ("x", `x`, [x]) around name. Dots inside a quoted name are kept.
func Unquote(name string) string {
	if n := len(name); n >= 2 {
		if open, ok := openingQuote(name[n-1]); ok {
			if i := strings.LastIndexByte(name[:n-1], open); i != -1 {
				return name[i+1 : n-1]
			}
		}
	}

	if i := strings.LastIndex(name, "."); i != -1 {
		name = name[i+1:]
	}

	return name
}

func openingQuote(closing byte) (byte, bool) {
	switch closing {
	case '"', '`':
		return closing, true
	case ']':
		return '[', true
	default:
		return 0, false
	}
}
