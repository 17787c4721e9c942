package audit

import (
	"fmt"
	"strings"
)

const (
	unknownSeverityTemplateConstant = "unknown severity %q (expected one of %s)"
	severityListSeparatorConstant   = ", "
)

// Severity is a vulnerability severity understood by the audit tool.
type Severity string

// Severities in increasing order.
const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityBits mirrors the audit tool's exit status contract.
// Critical is the combined mask of every lower bit.
var severityBits = map[Severity]int{
	SeverityInfo:     1,
	SeverityLow:      2,
	SeverityModerate: 4,
	SeverityHigh:     8,
	SeverityCritical: 0x0f,
}

// SeverityChoices lists the severities in increasing order.
func SeverityChoices() []string {
	return []string{
		string(SeverityInfo),
		string(SeverityLow),
		string(SeverityModerate),
		string(SeverityHigh),
		string(SeverityCritical),
	}
}

// ParseSeverity converts a case-insensitive name into a Severity. An empty value yields an empty Severity.
func ParseSeverity(value string) (Severity, error) {
	normalized := Severity(strings.ToLower(strings.TrimSpace(value)))
	if len(normalized) == 0 {
		return "", nil
	}
	if _, known := severityBits[normalized]; !known {
		return "", fmt.Errorf(unknownSeverityTemplateConstant, value, strings.Join(SeverityChoices(), severityListSeparatorConstant))
	}
	return normalized, nil
}

// Bit returns the exit status bit flagged for the severity, or zero for an unknown severity.
func (severity Severity) Bit() int {
	return severityBits[severity]
}

// ApplyMinimum reinterprets a raw audit status against a minimum severity.
// A non-zero status strictly below the minimum's bit is suppressed to zero.
func ApplyMinimum(rawStatus int, minimum Severity) (int, bool) {
	if rawStatus == 0 || len(minimum) == 0 {
		return rawStatus, false
	}
	if rawStatus < minimum.Bit() {
		return 0, true
	}
	return rawStatus, false
}
