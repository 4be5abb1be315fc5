package wrangler

import "github.com/openwrangle/openwrangle/pkg/config"

// SectionSet records which optional sections of the artifact a configuration
// requires. Resolution is a pure function of a validated configuration and
// has no failure mode; the compiler owns section order.
type SectionSet struct {
	// StaticAssets is the assets binding. Always present.
	StaticAssets bool

	// SelfReference is the service binding pointing the worker at itself,
	// required by every tier above static-assets.
	SelfReference bool

	// R2IncrementalCache is the bucket binding backing the incremental cache.
	R2IncrementalCache bool

	// DOQueue is the durable object queue ordering revalidation writes.
	DOQueue bool

	// DOTagCache is the sharded durable object tag index.
	DOTagCache bool

	// Database is the relational binding kind, DatabaseNone when absent.
	Database config.Database

	// Images is the image optimization binding.
	Images bool

	// Analytics is the analytics engine dataset binding.
	Analytics bool

	// BaseObservability is the top-level observability block, emitted when a
	// development-role environment exists.
	BaseObservability bool

	// ProductionEnv is the [env.production] block with its own observability
	// sub-block and compatibility date.
	ProductionEnv bool

	// SmartPlacement is the placement block. Always present.
	SmartPlacement bool
}

// ResolveSections maps a validated configuration onto the set of artifact
// sections it requires. The caching tiers are applied additively, so adding a
// fifth tier is a one-line change here.
func ResolveSections(cfg *config.DeploymentConfig) SectionSet {
	s := SectionSet{
		StaticAssets:   true,
		SmartPlacement: true,
		Database:       cfg.Database,
	}

	// Caching ladder: every tier keeps the bindings of the one below it.
	tier := cfg.CachingStrategy.Tier()
	if tier >= 1 {
		s.SelfReference = true
		s.R2IncrementalCache = true
	}
	if tier >= 2 {
		s.DOQueue = true
	}
	if tier >= 3 {
		s.DOTagCache = true
	}

	if cfg.ImageOptimization {
		s.Images = true
	}
	if cfg.AnalyticsEngine {
		s.Analytics = true
	}

	if _, ok := cfg.Environment(config.RoleDevelopment); ok {
		s.BaseObservability = true
	}
	if _, ok := cfg.Environment(config.RoleProduction); ok {
		s.ProductionEnv = true
	}

	return s
}
