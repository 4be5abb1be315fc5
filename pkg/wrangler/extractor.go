package wrangler

import (
	"regexp"
	"strings"

	"github.com/openwrangle/openwrangle/pkg/config"
)

// ExtractedView is the partial structured view recoverable from existing
// artifact text. Every field is optional: the source may be hand-edited or
// predate this tool, so absence is represented, not treated as failure.
type ExtractedView struct {
	// WorkerName is the recovered worker name, empty when not found.
	WorkerName string `json:"workerName,omitempty"`

	// AccountID is the recovered account identifier, empty when not found.
	AccountID string `json:"accountId,omitempty"`

	// CachingStrategy is the tier inferred from binding markers in the text.
	// Empty when no recognizable cache binding appeared at all.
	CachingStrategy config.CachingStrategy `json:"cachingStrategy,omitempty"`

	// EnvironmentNames lists [env.<name>] section names in first-seen order.
	EnvironmentNames []string `json:"environmentNames,omitempty"`

	// HasR2Binding reports whether an R2 bucket binding was recognized.
	HasR2Binding bool `json:"hasR2Binding"`

	// HasD1Binding reports whether a D1 database binding was recognized.
	HasD1Binding bool `json:"hasD1Binding"`

	// HasHyperdriveBinding reports whether a Hyperdrive binding was recognized.
	HasHyperdriveBinding bool `json:"hasHyperdriveBinding"`
}

// Field extractors are independent and order-insensitive: each scans for its
// own anchored key-equals-value pattern anywhere in the text. The artifact has
// no guaranteed grammar, so nothing here assumes full-document structure.
var (
	namePattern      = regexp.MustCompile(`(?m)^\s*name\s*=\s*"([^"]+)"`)
	accountIDPattern = regexp.MustCompile(`(?m)^\s*account_id\s*=\s*"([^"]+)"`)
	envHeaderPattern = regexp.MustCompile(`(?m)^\s*\[env\.([A-Za-z0-9_-]+)[\].]`)

	d1Pattern         = regexp.MustCompile(`(?m)^\s*\[\[\s*d1_databases\s*\]\]`)
	hyperdrivePattern = regexp.MustCompile(`(?m)^\s*\[\[\s*hyperdrive\s*\]\]`)
	r2Pattern         = regexp.MustCompile(`(?m)^\s*\[\[\s*r2_buckets\s*\]\]`)
	doQueuePattern    = regexp.MustCompile(`"` + ClassDOQueue + `"`)
	doTagCachePattern = regexp.MustCompile(`"` + ClassDOTagCache + `"`)
)

// ExtractView recovers the known fields from raw artifact text. It never
// fails: text that matches nothing yields a zero view. The first match wins
// for keys that legitimately repeat inside environment-scoped blocks
// (name and account_id can both reappear under [env.*]).
func ExtractView(text string) ExtractedView {
	var view ExtractedView

	if m := namePattern.FindStringSubmatch(text); m != nil {
		view.WorkerName = m[1]
	}
	if m := accountIDPattern.FindStringSubmatch(text); m != nil {
		view.AccountID = m[1]
	}

	seen := make(map[string]bool)
	for _, m := range envHeaderPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			view.EnvironmentNames = append(view.EnvironmentNames, m[1])
		}
	}

	view.HasR2Binding = r2Pattern.MatchString(text)
	view.HasD1Binding = d1Pattern.MatchString(text)
	view.HasHyperdriveBinding = hyperdrivePattern.MatchString(text)

	view.CachingStrategy = inferCachingStrategy(text, view.HasR2Binding)

	return view
}

// inferCachingStrategy maps the binding markers present in the text onto the
// caching ladder: the highest recognizable tier wins. An artifact with no
// assets marker at all yields an empty strategy.
func inferCachingStrategy(text string, hasR2 bool) config.CachingStrategy {
	switch {
	case doTagCachePattern.MatchString(text):
		return config.CachingR2DOQueueTagCache
	case doQueuePattern.MatchString(text):
		return config.CachingR2DOQueue
	case hasR2, strings.Contains(text, `"`+BindingR2IncCache+`"`):
		return config.CachingR2
	case strings.Contains(text, "[assets]"):
		return config.CachingStaticAssets
	default:
		return ""
	}
}

// Patterns for the colocated project-configuration module
// (open-next.config.ts). The file is TypeScript, so extraction stays on the
// same anchored, line-oriented footing.
var (
	tsTagCachePattern   = regexp.MustCompile(`(?m)tagCache\s*:\s*(?:doShardedTagCache|d1NextTagCache|shardedTagCache)`)
	tsQueuePattern      = regexp.MustCompile(`(?m)queue\s*:\s*(?:doQueue|queueCache|memoryQueue)`)
	tsR2CachePattern    = regexp.MustCompile(`(?m)incrementalCache\s*:\s*r2IncrementalCache`)
	tsAccountIDPattern  = regexp.MustCompile(`(?m)accountId\s*:\s*["'\x60]([^"'\x60]+)["'\x60]`)
)

// ExtractOpenNextView recovers a caching strategy and account identifier from
// the project-configuration module text. Same contract as ExtractView:
// tolerant, never fails, absence is data.
func ExtractOpenNextView(text string) ExtractedView {
	var view ExtractedView

	if m := tsAccountIDPattern.FindStringSubmatch(text); m != nil {
		view.AccountID = m[1]
	}

	hasTagCache := tsTagCachePattern.MatchString(text)
	hasQueue := tsQueuePattern.MatchString(text)
	hasR2 := tsR2CachePattern.MatchString(text)

	switch {
	case hasTagCache && hasQueue:
		view.CachingStrategy = config.CachingR2DOQueueTagCache
	case hasQueue:
		view.CachingStrategy = config.CachingR2DOQueue
	case hasR2:
		view.CachingStrategy = config.CachingR2
	}
	view.HasR2Binding = hasR2

	return view
}
