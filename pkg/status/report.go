// Package status assembles JSON-serializable summaries of a project's
// deployment state from the artifact, the project-configuration module, and
// package.json. It is plain data for CLI and RPC consumers; no behavior
// beyond assembly.
package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/openwrangle/openwrangle/pkg/config"
	"github.com/openwrangle/openwrangle/pkg/wrangler"
)

// MinSupportedNext is the lowest Next.js release the generated artifact
// layout is known to work with.
const MinSupportedNext = "14.0.0"

// Dependencies named in the report when present in package.json.
var reportedDependencies = []string{
	"next",
	"@opennextjs/cloudflare",
	"wrangler",
}

// Report is the status summary for one project.
type Report struct {
	// DetectedNextVersion is the Next.js version from package.json, empty
	// when package.json is absent or does not declare next.
	DetectedNextVersion string `json:"detectedNextVersion,omitempty"`

	// NextVersionSupported is false when the detected version parses below
	// MinSupportedNext. It stays true when no version was detected.
	NextVersionSupported bool `json:"nextVersionSupported"`

	// WorkerName, AccountID and CachingStrategy are recovered from the
	// artifact, falling back to the project-configuration module.
	WorkerName      string                 `json:"workerName,omitempty"`
	AccountID       string                 `json:"accountId,omitempty"`
	CachingStrategy config.CachingStrategy `json:"cachingStrategy,omitempty"`

	// EnvironmentNames lists the artifact's env sections in order.
	EnvironmentNames []string `json:"environmentNames,omitempty"`

	// Dependencies maps the relevant package.json dependencies to their
	// declared version ranges.
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// packageJSON is the subset of package.json the report reads.
type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Build assembles the report for the project at projectDir. The artifact must
// exist — its absence propagates as a not-found error so a status caller can
// distinguish "never generated" from "generated but sparse". The
// project-configuration module and package.json are optional inputs.
func Build(projectDir string) (*Report, error) {
	text, err := wrangler.ReadArtifact(projectDir)
	if err != nil {
		return nil, err
	}
	view := wrangler.ExtractView(text)

	report := &Report{
		WorkerName:           view.WorkerName,
		AccountID:            view.AccountID,
		CachingStrategy:      view.CachingStrategy,
		EnvironmentNames:     view.EnvironmentNames,
		NextVersionSupported: true,
	}

	// The second descriptor can fill what the artifact did not carry.
	if onText, onErr := wrangler.ReadOpenNextConfig(projectDir); onErr == nil {
		onView := wrangler.ExtractOpenNextView(onText)
		if report.AccountID == "" {
			report.AccountID = onView.AccountID
		}
		if report.CachingStrategy == "" {
			report.CachingStrategy = onView.CachingStrategy
		}
	} else if !wrangler.IsNotFound(onErr) {
		return nil, onErr
	}

	if err := report.readDependencies(projectDir); err != nil {
		return nil, err
	}

	return report, nil
}

// readDependencies fills the dependency versions from package.json when one
// exists. A missing package.json leaves the report without dependency data.
func (r *Report) readDependencies(projectDir string) error {
	data, err := os.ReadFile(filepath.Join(projectDir, "package.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return wrangler.NewInternalError("failed to read package.json", err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		// A broken package.json does not sink the status report.
		return nil
	}

	deps := make(map[string]string)
	for _, name := range reportedDependencies {
		if v, ok := pkg.Dependencies[name]; ok {
			deps[name] = v
		} else if v, ok := pkg.DevDependencies[name]; ok {
			deps[name] = v
		}
	}
	if len(deps) > 0 {
		r.Dependencies = deps
	}

	if next, ok := deps["next"]; ok {
		r.DetectedNextVersion = next
		r.NextVersionSupported = versionSupported(next)
	}
	return nil
}

// versionSupported reports whether the declared next version satisfies the
// minimum supported release. Ranges that do not parse as a single version are
// treated as supported; this is a hint, not a gate.
func versionSupported(declared string) bool {
	v, err := semver.NewVersion(trimRangePrefix(declared))
	if err != nil {
		return true
	}
	c, err := semver.NewConstraint(fmt.Sprintf(">= %s", MinSupportedNext))
	if err != nil {
		return true
	}
	return c.Check(v)
}

// trimRangePrefix strips the common range operators from a package.json
// version so pinned and caret/tilde versions both parse.
func trimRangePrefix(v string) string {
	for len(v) > 0 && (v[0] == '^' || v[0] == '~' || v[0] == '=' || v[0] == 'v') {
		v = v[1:]
	}
	return v
}
