package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

// ruleCase is one statement fed to a rule and the finding it should produce.
type ruleCase struct {
	name         string
	sql          string
	batch        bool
	wantCount    int
	wantSeverity analyzer.Severity
	wantTable    string
}

func runRuleCases(t *testing.T, rule analyzer.Rule, tests []ruleCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := &analyzer.RuleContext{StmtIndex: 2, Batch: tt.batch}

			findings := rule.Check(parser.Classify(tt.sql), ctx)
			assert.Len(t, findings, tt.wantCount)

			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantSeverity, findings[0].Severity)
				assert.Equal(t, rule.ID(), findings[0].Rule)
				assert.Equal(t, 2, findings[0].StmtIndex)
				assert.NotEmpty(t, findings[0].Message)
				assert.NotEmpty(t, findings[0].Suggestion)
				assert.NotEmpty(t, findings[0].Rerun)

				if tt.wantTable != "" {
					assert.Equal(t, tt.wantTable, findings[0].Table)
				}
			}
		})
	}
}
