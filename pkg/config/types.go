package config

// CachingStrategy selects the tier of server-side cache coordination for the
// deployed application. The tiers form a strict ladder: each value requires
// every binding of the previous tier plus its own.
type CachingStrategy string

const (
	// CachingStaticAssets serves prebuilt assets only, no shared cache.
	CachingStaticAssets CachingStrategy = "static-assets"

	// CachingR2 adds an R2 bucket for the incremental cache.
	CachingR2 CachingStrategy = "r2"

	// CachingR2DOQueue adds a durable object queue for revalidation ordering.
	CachingR2DOQueue CachingStrategy = "r2-do-queue"

	// CachingR2DOQueueTagCache adds a sharded durable object tag cache on top
	// of the queue tier.
	CachingR2DOQueueTagCache CachingStrategy = "r2-do-queue-tag-cache"
)

// Tier returns the position of the strategy on the caching ladder, with
// static-assets at 0. Unknown strategies report -1.
func (c CachingStrategy) Tier() int {
	switch c {
	case CachingStaticAssets:
		return 0
	case CachingR2:
		return 1
	case CachingR2DOQueue:
		return 2
	case CachingR2DOQueueTagCache:
		return 3
	default:
		return -1
	}
}

// Database selects the relational backend bound to the worker.
type Database string

const (
	DatabaseNone       Database = "none"
	DatabaseHyperdrive Database = "hyperdrive"
	DatabaseD1         Database = "d1"
)

// EnvironmentRole classifies an environment's place in the generated artifact.
// Roles replace bare name matching: the compiler dispatches on the role, and
// the role defaults from the conventional names when the config omits it.
type EnvironmentRole string

const (
	RoleDevelopment EnvironmentRole = "development"
	RoleProduction  EnvironmentRole = "production"
	RoleCustom      EnvironmentRole = "custom"
)

// DefaultRoleForName maps the conventional environment names onto roles.
// Anything unrecognized is a custom environment.
func DefaultRoleForName(name string) EnvironmentRole {
	switch name {
	case "development":
		return RoleDevelopment
	case "production":
		return RoleProduction
	default:
		return RoleCustom
	}
}

// DeploymentConfig is the root deployment configuration. It is immutable once
// validated; the compiler and checker never modify it.
type DeploymentConfig struct {
	// WorkerName is the worker identifier, used verbatim in generated bindings.
	WorkerName string `json:"workerName" yaml:"workerName" validate:"required"`

	// CachingStrategy is the cache coordination tier.
	CachingStrategy CachingStrategy `json:"cachingStrategy" yaml:"cachingStrategy" validate:"required,oneof=static-assets r2 r2-do-queue r2-do-queue-tag-cache"`

	// Database is the relational backend, independent of the caching tier.
	Database Database `json:"database" yaml:"database" validate:"required,oneof=none hyperdrive d1"`

	// ImageOptimization gates the Images binding.
	ImageOptimization bool `json:"imageOptimization" yaml:"imageOptimization"`

	// AnalyticsEngine gates the analytics dataset binding.
	AnalyticsEngine bool `json:"analyticsEngine" yaml:"analyticsEngine"`

	// NextJsVersion is the framework version the project builds with.
	NextJsVersion string `json:"nextJsVersion" yaml:"nextJsVersion" validate:"required"`

	// CompatibilityDate pins the workers runtime behavior.
	CompatibilityDate string `json:"compatibilityDate" yaml:"compatibilityDate" validate:"required"`

	// Environments lists the deployment environments, in output order.
	Environments []EnvironmentConfig `json:"environments" yaml:"environments" validate:"required,min=1,dive"`
}

// EnvironmentConfig describes one deployment environment.
type EnvironmentConfig struct {
	// Name is the environment name as it appears in the artifact.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Role classifies the environment. Empty means "derive from Name".
	Role EnvironmentRole `json:"role,omitempty" yaml:"role,omitempty" validate:"omitempty,oneof=development production custom"`

	// Observability controls log and trace emission for this environment.
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`

	// Vars are environment variables. Reserved: not emitted by the compiler.
	Vars map[string]string `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// EffectiveRole returns the explicit role, or the role derived from the
// conventional name when none was set.
func (e EnvironmentConfig) EffectiveRole() EnvironmentRole {
	if e.Role != "" {
		return e.Role
	}
	return DefaultRoleForName(e.Name)
}

// ObservabilityConfig controls log/trace emission and sampling for one
// environment. Sampling rates are fractions in [0,1].
type ObservabilityConfig struct {
	Logs              bool    `json:"logs" yaml:"logs"`
	LogSamplingRate   float64 `json:"logSamplingRate" yaml:"logSamplingRate" validate:"gte=0,lte=1"`
	Traces            bool    `json:"traces" yaml:"traces"`
	TraceSamplingRate float64 `json:"traceSamplingRate" yaml:"traceSamplingRate" validate:"gte=0,lte=1"`
	Logpush           bool    `json:"logpush" yaml:"logpush"`
}

// Environment returns the first environment with the given role, if any.
func (c *DeploymentConfig) Environment(role EnvironmentRole) (EnvironmentConfig, bool) {
	for _, env := range c.Environments {
		if env.EffectiveRole() == role {
			return env, true
		}
	}
	return EnvironmentConfig{}, false
}

// ValidationError describes one schema or range violation in a deployment
// configuration. Validation always reports the complete set of violations.
type ValidationError struct {
	// Field is the configuration path to the offending value
	// (e.g., "environments[0].observability.logSamplingRate").
	Field string `json:"field"`

	// Message is the human-readable description of the violation.
	Message string `json:"message"`

	// Severity is the violation severity (error, warning).
	Severity string `json:"severity"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
