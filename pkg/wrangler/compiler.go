package wrangler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openwrangle/openwrangle/pkg/config"
)

// Binding names and durable object classes used in the generated artifact.
// These follow the OpenNext adapter conventions so the deployed worker finds
// its resources without extra mapping.
const (
	BindingAssets        = "ASSETS"
	BindingSelfReference = "WORKER_SELF_REFERENCE"
	BindingR2IncCache    = "NEXT_INC_CACHE_R2_BUCKET"
	BindingDOQueue       = "NEXT_CACHE_DO_QUEUE"
	BindingDOTagCache    = "NEXT_TAG_CACHE_DO_SHARDED"
	BindingD1TagCache    = "NEXT_TAG_CACHE_D1"
	BindingHyperdrive    = "HYPERDRIVE"
	BindingImages        = "IMAGES"
	BindingAnalytics     = "ANALYTICS"

	ClassDOQueue    = "DOQueueHandler"
	ClassDOTagCache = "DOShardedTagCache"
)

// Placeholder identifiers for resources that require an out-of-band
// provisioning step. The compiler never fabricates a real-looking id.
const (
	PlaceholderDatabaseID   = "YOUR_DATABASE_ID"
	PlaceholderHyperdriveID = "YOUR_HYPERDRIVE_ID"
)

// Compile renders the resolved section set plus per-environment data into the
// artifact text. It is deterministic: the same configuration always yields
// byte-identical output, and section order is fixed because downstream tooling
// and human diffs are sensitive to it.
func Compile(cfg *config.DeploymentConfig, sections SectionSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# wrangler.toml for %s\n", cfg.WorkerName)
	b.WriteString("# Generated from deploy.yaml; regenerating overwrites manual edits.\n\n")

	fmt.Fprintf(&b, "name = %q\n", cfg.WorkerName)
	b.WriteString("main = \".open-next/worker.js\"\n")
	fmt.Fprintf(&b, "compatibility_date = %q\n", cfg.CompatibilityDate)
	b.WriteString("compatibility_flags = [\"nodejs_compat\"]\n")

	if sections.StaticAssets {
		b.WriteString("\n[assets]\n")
		b.WriteString("directory = \".open-next/assets\"\n")
		fmt.Fprintf(&b, "binding = %q\n", BindingAssets)
	}

	if sections.SelfReference {
		b.WriteString("\n# The worker calls back into itself for cache revalidation.\n")
		b.WriteString("[[services]]\n")
		fmt.Fprintf(&b, "binding = %q\n", BindingSelfReference)
		fmt.Fprintf(&b, "service = %q\n", cfg.WorkerName)
	}

	if sections.R2IncrementalCache {
		b.WriteString("\n[[r2_buckets]]\n")
		fmt.Fprintf(&b, "binding = %q\n", BindingR2IncCache)
		fmt.Fprintf(&b, "bucket_name = %q\n", cfg.WorkerName+"-inc-cache")
	}

	if sections.DOQueue {
		b.WriteString("\n[[durable_objects.bindings]]\n")
		fmt.Fprintf(&b, "name = %q\n", BindingDOQueue)
		fmt.Fprintf(&b, "class_name = %q\n", ClassDOQueue)
	}

	if sections.DOTagCache {
		b.WriteString("\n[[durable_objects.bindings]]\n")
		fmt.Fprintf(&b, "name = %q\n", BindingDOTagCache)
		fmt.Fprintf(&b, "class_name = %q\n", ClassDOTagCache)
	}

	if classes := durableObjectClasses(sections); len(classes) > 0 {
		b.WriteString("\n[[migrations]]\n")
		b.WriteString("tag = \"v1\"\n")
		fmt.Fprintf(&b, "new_sqlite_classes = [%s]\n", quoteList(classes))
	}

	switch sections.Database {
	case config.DatabaseD1:
		b.WriteString("\n[[d1_databases]]\n")
		fmt.Fprintf(&b, "binding = %q\n", BindingD1TagCache)
		fmt.Fprintf(&b, "database_name = %q\n", cfg.WorkerName+"-db")
		fmt.Fprintf(&b, "database_id = %q # run: wrangler d1 create %s-db\n", PlaceholderDatabaseID, cfg.WorkerName)
	case config.DatabaseHyperdrive:
		b.WriteString("\n[[hyperdrive]]\n")
		fmt.Fprintf(&b, "binding = %q\n", BindingHyperdrive)
		fmt.Fprintf(&b, "id = %q # run: wrangler hyperdrive create %s-db\n", PlaceholderHyperdriveID, cfg.WorkerName)
	}

	if sections.Images {
		b.WriteString("\n[images]\n")
		fmt.Fprintf(&b, "binding = %q\n", BindingImages)
	}

	if sections.Analytics {
		b.WriteString("\n[[analytics_engine_datasets]]\n")
		fmt.Fprintf(&b, "binding = %q\n", BindingAnalytics)
		fmt.Fprintf(&b, "dataset = %q\n", datasetName(cfg.WorkerName))
	}

	if sections.BaseObservability {
		if env, ok := cfg.Environment(config.RoleDevelopment); ok {
			b.WriteString("\n")
			writeObservability(&b, "observability", env.Observability)
		}
	}

	if sections.ProductionEnv {
		if env, ok := cfg.Environment(config.RoleProduction); ok {
			fmt.Fprintf(&b, "\n[env.%s]\n", env.Name)
			fmt.Fprintf(&b, "compatibility_date = %q\n", cfg.CompatibilityDate)
			if env.Observability.Logpush {
				b.WriteString("logpush = true\n")
			}
			b.WriteString("\n")
			writeObservability(&b, fmt.Sprintf("env.%s.observability", env.Name), env.Observability)
		}
	}

	if sections.SmartPlacement {
		b.WriteString("\n[placement]\n")
		b.WriteString("mode = \"smart\"\n")
	}

	return b.String()
}

// writeObservability renders one observability block under the given table
// prefix. Sampling rates print in minimal form (1, not 1.0) so hand diffs
// stay quiet.
func writeObservability(b *strings.Builder, prefix string, obs config.ObservabilityConfig) {
	fmt.Fprintf(b, "[%s]\n", prefix)
	fmt.Fprintf(b, "enabled = %t\n", obs.Logs || obs.Traces)
	fmt.Fprintf(b, "head_sampling_rate = %s\n", formatRate(obs.LogSamplingRate))

	fmt.Fprintf(b, "\n[%s.logs]\n", prefix)
	fmt.Fprintf(b, "enabled = %t\n", obs.Logs)
	fmt.Fprintf(b, "head_sampling_rate = %s\n", formatRate(obs.LogSamplingRate))

	fmt.Fprintf(b, "\n[%s.traces]\n", prefix)
	fmt.Fprintf(b, "enabled = %t\n", obs.Traces)
	fmt.Fprintf(b, "head_sampling_rate = %s\n", formatRate(obs.TraceSamplingRate))
}

// durableObjectClasses lists the DO classes the section set declares, in
// ladder order.
func durableObjectClasses(sections SectionSet) []string {
	var classes []string
	if sections.DOQueue {
		classes = append(classes, ClassDOQueue)
	}
	if sections.DOTagCache {
		classes = append(classes, ClassDOTagCache)
	}
	return classes
}

// datasetName derives an analytics dataset name from the worker name.
// Dataset names do not allow hyphens.
func datasetName(workerName string) string {
	return strings.ReplaceAll(workerName, "-", "_") + "_analytics"
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = strconv.Quote(it)
	}
	return strings.Join(quoted, ", ")
}

func formatRate(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}
