package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openwrangle/openwrangle/pkg/config"
	"github.com/openwrangle/openwrangle/pkg/drift"
	"github.com/openwrangle/openwrangle/pkg/wrangler"
)

func writeProjectFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

const fixtureArtifact = `name = "shop"
account_id = "cafe0123"
compatibility_date = "2024-09-23"

[[r2_buckets]]
binding = "NEXT_INC_CACHE_R2_BUCKET"
bucket_name = "shop-inc-cache"

[env.production]
compatibility_date = "2024-09-23"
`

const fixturePackageJSON = `{
  "name": "shop",
  "dependencies": {
    "next": "^14.2.5",
    "@opennextjs/cloudflare": "^1.0.0"
  },
  "devDependencies": {
    "wrangler": "^3.80.0"
  }
}`

func TestBuild_FullProject(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, wrangler.ArtifactFileName, fixtureArtifact)
	writeProjectFile(t, dir, "package.json", fixturePackageJSON)

	report, err := Build(dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if report.WorkerName != "shop" {
		t.Errorf("WorkerName = %q", report.WorkerName)
	}
	if report.AccountID != "cafe0123" {
		t.Errorf("AccountID = %q", report.AccountID)
	}
	if report.CachingStrategy != config.CachingR2 {
		t.Errorf("CachingStrategy = %q", report.CachingStrategy)
	}
	if len(report.EnvironmentNames) != 1 || report.EnvironmentNames[0] != "production" {
		t.Errorf("EnvironmentNames = %v", report.EnvironmentNames)
	}
	if report.DetectedNextVersion != "^14.2.5" {
		t.Errorf("DetectedNextVersion = %q", report.DetectedNextVersion)
	}
	if !report.NextVersionSupported {
		t.Error("14.2.5 should be reported as supported")
	}
	if report.Dependencies["wrangler"] != "^3.80.0" {
		t.Errorf("Dependencies = %v", report.Dependencies)
	}
}

func TestBuild_ArtifactAbsentIsNotFound(t *testing.T) {
	_, err := Build(t.TempDir())
	if !wrangler.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestBuild_OpenNextConfigFillsGaps(t *testing.T) {
	dir := t.TempDir()
	// Artifact with no account id and no recognizable cache binding.
	writeProjectFile(t, dir, wrangler.ArtifactFileName, "name = \"bare\"\n")
	writeProjectFile(t, dir, wrangler.OpenNextConfigName, `
export default defineCloudflareConfig({
  incrementalCache: r2IncrementalCache,
  queue: doQueue,
});
// accountId: "fill1234"
`)

	report, err := Build(dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if report.AccountID != "fill1234" {
		t.Errorf("AccountID = %q, want fill from config module", report.AccountID)
	}
	if report.CachingStrategy != config.CachingR2DOQueue {
		t.Errorf("CachingStrategy = %q", report.CachingStrategy)
	}
}

func TestBuild_UnsupportedNextVersion(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, wrangler.ArtifactFileName, "name = \"old\"\n")
	writeProjectFile(t, dir, "package.json", `{"dependencies":{"next":"13.5.1"}}`)

	report, err := Build(dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if report.NextVersionSupported {
		t.Error("13.5.1 should be reported as unsupported")
	}
}

func TestBuildValidationReport(t *testing.T) {
	violations := []config.ValidationError{
		{Field: "workerName", Message: "is required and must not be empty", Severity: "error"},
	}
	diags := []drift.Diagnostic{
		{Severity: drift.SeverityError, Code: drift.CodeDBBindingMissing, Message: "no D1 binding", Fix: "regenerate"},
		{Severity: drift.SeverityWarning, Code: drift.CodeZeroSamplingRate, Message: "zero sampling", Fix: "raise rate"},
	}

	report := BuildValidationReport(violations, diags)

	if report.Valid {
		t.Error("report with errors must not be valid")
	}
	if len(report.Errors) != 2 {
		t.Errorf("Errors = %v", report.Errors)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("Warnings = %v", report.Warnings)
	}
	if len(report.Fixes) != 2 {
		t.Errorf("Fixes = %v", report.Fixes)
	}

	clean := BuildValidationReport(nil, nil)
	if !clean.Valid {
		t.Error("empty report should be valid")
	}
}
