// Package parser turns raw migration text into executable statements.
//
// It does not parse SQL. It strips line comments, splits on semicolons and
// classifies each statement with a handful of case-insensitive patterns, which
// is all the executor needs to decide which idempotency check applies.
package parser

import (
	"regexp"
	"strings"
)

// triggerPattern detects migrations whose BEGIN...END bodies contain
// semicolons and therefore must not be split.
var triggerPattern = regexp.MustCompile(`(?i)CREATE\s+TRIGGER`) //nolint:gochecknoglobals // compiled once

// ParseResult holds the executable statements of a migration.
type ParseResult struct {
	Stmts []Statement
	SQL   string // comment-stripped text the statements were taken from
	Batch bool   // SQL must be sent as one unsplit batch
}

// Parse strips comments from sql and splits it into statements.
// A migration containing CREATE TRIGGER yields a single batch statement.
// Comment-only or empty input yields zero statements.
func Parse(sql string) *ParseResult {
	stripped := StripComments(sql)
	if strings.TrimSpace(stripped) == "" {
		return &ParseResult{SQL: stripped}
	}

	if ContainsTrigger(stripped) {
		return &ParseResult{
			Stmts: []Statement{{SQL: stripped, Kind: KindBatch}},
			SQL:   stripped,
			Batch: true,
		}
	}

	raw := SplitStatements(stripped)
	stmts := make([]Statement, 0, len(raw))

	for _, s := range raw {
		stmts = append(stmts, Classify(s))
	}

	return &ParseResult{Stmts: stmts, SQL: stripped}
}

// StripComments removes everything from the first "--" on each line to the
// end of that line and drops lines left blank. It is deliberately naive:
// "--" inside a string literal is treated as a comment too.
func StripComments(sql string) string {
	lines := strings.Split(sql, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx != -1 {
			line = line[:idx]
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		kept = append(kept, strings.TrimRight(line, " \t\r"))
	}

	return strings.Join(kept, "\n")
}

// SplitStatements splits sql on ";" and returns the trimmed, non-empty parts.
func SplitStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	stmts := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		stmts = append(stmts, p)
	}

	return stmts
}

// ContainsTrigger reports whether sql contains CREATE TRIGGER (any case).
func ContainsTrigger(sql string) bool {
	return triggerPattern.MatchString(sql)
}
