package analyzer

import (
	"fmt"
	"strings"
)

// Severity represents the danger level of a finding.
type Severity int

const (
	// Safe indicates no danger detected.
	Safe Severity = iota
	// Low indicates a minor concern.
	Low
	// Medium indicates a retry that is salvaged or fails with a clear error.
	Medium
	// High indicates a retry is likely to fail the run.
	High
	// Critical indicates data loss on every run.
	Critical
)

// String returns the uppercase label for the severity level.
func (s Severity) String() string {
	switch s {
	case Safe:
		return "SAFE"
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Color returns an ANSI color code for terminal output.
func (s Severity) Color() string {
	switch s {
	case Safe:
		return "\033[32m" // green
	case Low:
		return "\033[36m" // cyan
	case Medium:
		return "\033[33m" // yellow
	case High:
		return "\033[31m" // red
	case Critical:
		return "\033[91m" // bright red
	default:
		return "\033[0m" // reset
	}
}

// ParseSeverity converts a label such as "high" back into a Severity.
func ParseSeverity(s string) (Severity, error) {
	for sev := Safe; sev <= Critical; sev++ {
		if strings.EqualFold(strings.TrimSpace(s), sev.String()) {
			return sev, nil
		}
	}

	return Safe, fmt.Errorf("unknown severity %q", s)
}
