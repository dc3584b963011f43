package rules

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/parser"
)

// captureIdent returns the first submatch of re in sql with quotes and a
// schema prefix removed, or "" when re does not match.
func captureIdent(re *regexp.Regexp, sql string) string {
	m := re.FindStringSubmatch(sql)
	if len(m) < 2 {
		return ""
	}

	return parser.Unquote(m[1])
}
