package status

import (
	"github.com/openwrangle/openwrangle/pkg/config"
	"github.com/openwrangle/openwrangle/pkg/drift"
)

// ValidationReport is the human-facing roll-up of schema violations and
// consistency findings: errors, warnings, and suggested fixes, all plain data.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Fixes    []string `json:"fixes,omitempty"`
}

// BuildValidationReport merges validator output and checker diagnostics into
// one report. Valid is false only on errors; warnings alone do not fail
// validation.
func BuildValidationReport(violations []config.ValidationError, diags []drift.Diagnostic) *ValidationReport {
	report := &ValidationReport{}

	for _, v := range violations {
		report.Errors = append(report.Errors, v.Error())
	}

	seenFixes := make(map[string]bool)
	for _, d := range diags {
		switch d.Severity {
		case drift.SeverityError:
			report.Errors = append(report.Errors, d.Message)
		default:
			report.Warnings = append(report.Warnings, d.Message)
		}
		if d.Fix != "" && !seenFixes[d.Fix] {
			seenFixes[d.Fix] = true
			report.Fixes = append(report.Fixes, d.Fix)
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}
