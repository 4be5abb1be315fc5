package wrangler

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/openwrangle/openwrangle/pkg/config"
)

func baseConfig() *config.DeploymentConfig {
	return &config.DeploymentConfig{
		WorkerName:        "demo",
		CachingStrategy:   config.CachingStaticAssets,
		Database:          config.DatabaseNone,
		NextJsVersion:     "14.2.0",
		CompatibilityDate: "2024-09-23",
		Environments: []config.EnvironmentConfig{
			{
				Name: "development",
				Observability: config.ObservabilityConfig{
					Logs:            true,
					LogSamplingRate: 1,
				},
			},
		},
	}
}

func compileFor(t *testing.T, cfg *config.DeploymentConfig) string {
	t.Helper()
	return Compile(cfg, ResolveSections(cfg))
}

func TestCompile_Deterministic(t *testing.T) {
	cfg := baseConfig()
	cfg.CachingStrategy = config.CachingR2DOQueueTagCache
	cfg.Database = config.DatabaseD1
	cfg.ImageOptimization = true

	first := compileFor(t, cfg)
	second := compileFor(t, cfg)

	if first != second {
		t.Error("two compilations of the same config differ")
	}
}

func TestCompile_CachingLadder(t *testing.T) {
	tests := []struct {
		strategy config.CachingStrategy
		want     []string
		absent   []string
	}{
		{
			strategy: config.CachingStaticAssets,
			want:     []string{"[assets]"},
			absent:   []string{BindingSelfReference, "[[r2_buckets]]", "durable_objects"},
		},
		{
			strategy: config.CachingR2,
			want:     []string{"[assets]", BindingSelfReference, "[[r2_buckets]]"},
			absent:   []string{"durable_objects"},
		},
		{
			strategy: config.CachingR2DOQueue,
			want:     []string{"[[r2_buckets]]", BindingDOQueue, ClassDOQueue},
			absent:   []string{BindingDOTagCache},
		},
		{
			strategy: config.CachingR2DOQueueTagCache,
			want:     []string{"[[r2_buckets]]", BindingDOQueue, BindingDOTagCache, ClassDOTagCache},
			absent:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			cfg := baseConfig()
			cfg.CachingStrategy = tt.strategy

			out := compileFor(t, cfg)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q", w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("output unexpectedly contains %q", a)
				}
			}
		})
	}
}

func TestCompile_DatabaseExclusivity(t *testing.T) {
	tests := []struct {
		db     config.Database
		want   string
		absent string
	}{
		{config.DatabaseD1, "[[d1_databases]]", "[[hyperdrive]]"},
		{config.DatabaseHyperdrive, "[[hyperdrive]]", "[[d1_databases]]"},
	}

	for _, tt := range tests {
		t.Run(string(tt.db), func(t *testing.T) {
			cfg := baseConfig()
			cfg.Database = tt.db

			out := compileFor(t, cfg)
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q", tt.want)
			}
			if strings.Contains(out, tt.absent) {
				t.Errorf("output unexpectedly contains %q", tt.absent)
			}
		})
	}

	t.Run("none", func(t *testing.T) {
		out := compileFor(t, baseConfig())
		if strings.Contains(out, "d1_databases") || strings.Contains(out, "hyperdrive") {
			t.Error("database binding emitted for database=none")
		}
	})
}

func TestCompile_PlaceholderIdentifiers(t *testing.T) {
	cfg := baseConfig()
	cfg.Database = config.DatabaseD1

	out := compileFor(t, cfg)
	if !strings.Contains(out, PlaceholderDatabaseID) {
		t.Error("D1 block must carry the placeholder database id")
	}

	cfg.Database = config.DatabaseHyperdrive
	out = compileFor(t, cfg)
	if !strings.Contains(out, PlaceholderHyperdriveID) {
		t.Error("hyperdrive block must carry the placeholder id")
	}
}

func TestCompile_EnvironmentBlocks(t *testing.T) {
	t.Run("development only", func(t *testing.T) {
		out := compileFor(t, baseConfig())
		if !strings.Contains(out, "[observability]") {
			t.Error("development env should produce the base observability block")
		}
		if strings.Contains(out, "[env.production]") {
			t.Error("no production env configured, but env.production emitted")
		}
	})

	t.Run("adding production keeps the base block", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Environments = append(cfg.Environments, config.EnvironmentConfig{
			Name: "production",
			Observability: config.ObservabilityConfig{
				Logs:            true,
				LogSamplingRate: 0.25,
			},
		})

		out := compileFor(t, cfg)
		if !strings.Contains(out, "[observability]") {
			t.Error("base observability block lost when production was added")
		}
		if !strings.Contains(out, "[env.production]") {
			t.Error("production env should produce an env.production block")
		}
		if !strings.Contains(out, "[env.production.observability]") {
			t.Error("production block should carry its own observability sub-block")
		}
		if !strings.Contains(out, "head_sampling_rate = 0.25") {
			t.Error("production sampling rate not interpolated")
		}
	})

	t.Run("role overrides name matching", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Environments = []config.EnvironmentConfig{
			{
				Name: "prod-eu",
				Role: config.RoleProduction,
				Observability: config.ObservabilityConfig{
					Logs:            true,
					LogSamplingRate: 1,
				},
			},
		}

		out := compileFor(t, cfg)
		if !strings.Contains(out, "[env.prod-eu]") {
			t.Error("explicit production role should produce the env block under its own name")
		}
		if strings.Contains(out, "\n[observability]") {
			t.Error("no development env configured, base observability should be absent")
		}
	})
}

func TestCompile_EndToEndExample(t *testing.T) {
	cfg := &config.DeploymentConfig{
		WorkerName:        "demo",
		CachingStrategy:   config.CachingR2DOQueueTagCache,
		Database:          config.DatabaseD1,
		ImageOptimization: true,
		AnalyticsEngine:   false,
		NextJsVersion:     "14.2.0",
		CompatibilityDate: "2024-09-23",
		Environments: []config.EnvironmentConfig{
			{
				Name: "production",
				Observability: config.ObservabilityConfig{
					Logs:            true,
					LogSamplingRate: 1,
				},
			},
		},
	}

	out := compileFor(t, cfg)

	must := []string{
		"[assets]",
		`binding = "WORKER_SELF_REFERENCE"`,
		"[[r2_buckets]]",
		BindingDOQueue,
		BindingDOTagCache,
		"[[d1_databases]]",
		PlaceholderDatabaseID,
		`binding = "IMAGES"`,
		"[env.production]",
		"head_sampling_rate = 1",
		"[placement]",
		`mode = "smart"`,
	}
	for _, m := range must {
		if !strings.Contains(out, m) {
			t.Errorf("output missing %q", m)
		}
	}

	mustNot := []string{
		"analytics_engine_datasets",
		"hyperdrive",
	}
	for _, m := range mustNot {
		if strings.Contains(out, m) {
			t.Errorf("output unexpectedly contains %q", m)
		}
	}
}

// The artifact has to stay parseable by the deployment tool, so every shape
// the compiler can produce must be well-formed TOML.
func TestCompile_ProducesValidTOML(t *testing.T) {
	strategies := []config.CachingStrategy{
		config.CachingStaticAssets,
		config.CachingR2,
		config.CachingR2DOQueue,
		config.CachingR2DOQueueTagCache,
	}
	databases := []config.Database{
		config.DatabaseNone,
		config.DatabaseD1,
		config.DatabaseHyperdrive,
	}

	for _, s := range strategies {
		for _, db := range databases {
			cfg := baseConfig()
			cfg.CachingStrategy = s
			cfg.Database = db
			cfg.ImageOptimization = true
			cfg.AnalyticsEngine = true
			cfg.Environments = append(cfg.Environments, config.EnvironmentConfig{
				Name: "production",
				Observability: config.ObservabilityConfig{
					Logs:            true,
					LogSamplingRate: 0.5,
					Logpush:         true,
				},
			})

			out := compileFor(t, cfg)

			var doc map[string]interface{}
			if err := toml.Unmarshal([]byte(out), &doc); err != nil {
				t.Fatalf("strategy=%s db=%s: invalid TOML: %v\n%s", s, db, err, out)
			}

			if doc["name"] != "demo" {
				t.Errorf("strategy=%s db=%s: decoded name = %v", s, db, doc["name"])
			}
		}
	}
}
