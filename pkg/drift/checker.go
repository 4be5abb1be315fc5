// Package drift cross-references the declared deployment configuration with
// what is recoverable from the on-disk artifact and surfaces actionable
// findings. The checker is advisory: it never mutates either input and always
// returns the full list of findings rather than stopping at the first.
package drift

import (
	"fmt"

	"github.com/openwrangle/openwrangle/pkg/config"
	"github.com/openwrangle/openwrangle/pkg/wrangler"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic codes.
const (
	CodeR2BindingMissing = "R2_BINDING_MISSING"
	CodeDBBindingMissing = "DB_BINDING_MISSING"
	CodeZeroSamplingRate = "ZERO_SAMPLING_RATE"
	CodeWorkerNameDrift  = "WORKER_NAME_DRIFT"
	CodeCacheTierDrift   = "CACHE_TIER_DRIFT"
)

// Diagnostic is one advisory finding. Diagnostics are returned as data and
// never thrown: they describe state the checker does not own.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`

	// Fix is the suggested correction, empty when none applies.
	Fix string `json:"fix,omitempty"`
}

// fixes maps diagnostic codes to suggested corrections for the human-facing
// validation report.
var fixes = map[string]string{
	CodeR2BindingMissing: "run `wrangle generate` to re-emit the R2 bucket binding, or lower cachingStrategy to static-assets",
	CodeDBBindingMissing: "run `wrangle generate` to re-emit the database binding, then provision it and replace the placeholder id",
	CodeZeroSamplingRate: "raise the sampling rate above 0, or disable logs/traces for that environment",
	CodeWorkerNameDrift:  "align workerName in deploy.yaml with the name in wrangler.toml, or regenerate the artifact",
	CodeCacheTierDrift:   "run `wrangle generate` so the artifact carries every binding the configured tier requires",
}

// Check cross-references the validated configuration with the extracted view
// of an existing artifact. extracted may be nil when no artifact exists; the
// artifact-dependent rules are skipped in that case.
func Check(cfg *config.DeploymentConfig, extracted *wrangler.ExtractedView) []Diagnostic {
	var diags []Diagnostic

	// Misconfiguration rules need no artifact.
	for i, env := range cfg.Environments {
		obs := env.Observability
		if obs.Logs && obs.LogSamplingRate == 0 {
			diags = append(diags, diag(SeverityWarning, CodeZeroSamplingRate, fmt.Sprintf(
				"environments[%d] (%s) has logs enabled with a zero sampling rate: nothing will be recorded", i, env.Name)))
		}
		if obs.Traces && obs.TraceSamplingRate == 0 {
			diags = append(diags, diag(SeverityWarning, CodeZeroSamplingRate, fmt.Sprintf(
				"environments[%d] (%s) has traces enabled with a zero sampling rate: nothing will be recorded", i, env.Name)))
		}
	}

	if extracted == nil {
		return diags
	}

	if cfg.CachingStrategy.Tier() >= config.CachingR2.Tier() && !extracted.HasR2Binding {
		diags = append(diags, diag(SeverityError, CodeR2BindingMissing, fmt.Sprintf(
			"cachingStrategy %q requires an R2 bucket binding, but the artifact has none", cfg.CachingStrategy)))
	}

	switch cfg.Database {
	case config.DatabaseD1:
		if !extracted.HasD1Binding {
			diags = append(diags, diag(SeverityError, CodeDBBindingMissing,
				"database is d1, but no D1 binding is recoverable from the artifact: deployment will fail at runtime"))
		}
	case config.DatabaseHyperdrive:
		if !extracted.HasHyperdriveBinding {
			diags = append(diags, diag(SeverityError, CodeDBBindingMissing,
				"database is hyperdrive, but no Hyperdrive binding is recoverable from the artifact: deployment will fail at runtime"))
		}
	}

	if extracted.WorkerName != "" && extracted.WorkerName != cfg.WorkerName {
		diags = append(diags, diag(SeverityWarning, CodeWorkerNameDrift, fmt.Sprintf(
			"configured worker %q but the artifact names %q", cfg.WorkerName, extracted.WorkerName)))
	}

	if extracted.CachingStrategy != "" &&
		extracted.CachingStrategy.Tier() < cfg.CachingStrategy.Tier() {
		diags = append(diags, diag(SeverityWarning, CodeCacheTierDrift, fmt.Sprintf(
			"artifact carries tier %q but the configuration declares %q", extracted.CachingStrategy, cfg.CachingStrategy)))
	}

	return diags
}

// HasErrors reports whether any diagnostic is error-severity. Boundary code
// uses this for the exit status.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func diag(sev Severity, code, message string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  message,
		Fix:      fixes[code],
	}
}
