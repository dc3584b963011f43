package analyzer

import "github.com/aqasim81/mediatrack/internal/migration"

const statementDisplayLen = 120

// Finding represents a single re-run hazard detected in a migration.
type Finding struct {
	Rule       string   // Rule ID (e.g., "create-index-without-if-not-exists")
	Severity   Severity // Danger level
	Table      string   // Affected table name
	Statement  string   // The SQL statement text (truncated for display)
	Message    string   // Human-readable description of the danger
	Suggestion string   // Safe alternative approach
	Rerun      string   // What the runner does if the statement executes again
	StmtIndex  int      // Index in the migration's statement list (0-based)
}

// AnalysisResult holds all findings for a single migration.
type AnalysisResult struct {
	Migration   *migration.Migration
	Findings    []Finding
	MaxSeverity Severity // Highest severity across all findings
}

// HasHighOrCritical returns true if any finding is High or Critical severity.
func (r *AnalysisResult) HasHighOrCritical() bool {
	return r.MaxSeverity >= High
}

// TruncateSQL truncates a SQL string to maxLen characters for display.
// Newlines are folded into spaces. maxLen below 4 leaves the string whole.
func TruncateSQL(sql string, maxLen int) string {
	sql = foldWhitespace(sql)

	if len(sql) <= maxLen || maxLen < 4 {
		return sql
	}

	return sql[:maxLen-3] + "..."
}

func foldWhitespace(s string) string {
	out := make([]byte, 0, len(s))
	space := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			if !space && len(out) > 0 {
				out = append(out, ' ')
			}

			space = true

			continue
		}

		space = false
		out = append(out, c)
	}

	if n := len(out); n > 0 && out[n-1] == ' ' {
		out = out[:n-1]
	}

	return string(out)
}
