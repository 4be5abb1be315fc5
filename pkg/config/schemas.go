package config

import (
	"context"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// SchemaRegistry manages CUE schemas for structural validation. It provides a
// second validation layer behind the struct-tag validator, used by strict
// validation mode.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a schema registry with the built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}

	sr.RegisterSchema("deployment", builtinDeploymentSchema)
	sr.RegisterSchema("environment", builtinEnvironmentSchema)
	sr.RegisterSchema("observability", builtinObservabilitySchema)

	return sr
}

// RegisterSchema registers a CUE schema under the given name, replacing any
// schema previously registered under it.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	sr.schemas[name] = val
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// ValidateAgainstSchema validates data against a named schema by unification.
func (sr *SchemaRegistry) ValidateAgainstSchema(ctx context.Context, schemaName string, data interface{}) error {
	schema, ok := sr.GetSchema(schemaName)
	if !ok {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	dataVal := sr.ctx.Encode(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// ValidateDeployment validates a deployment configuration against the
// deployment schema.
func (sr *SchemaRegistry) ValidateDeployment(ctx context.Context, cfg DeploymentConfig) error {
	return sr.ValidateAgainstSchema(ctx, "deployment", cfg)
}

// ValidateEnvironment validates one environment against the environment schema.
func (sr *SchemaRegistry) ValidateEnvironment(ctx context.Context, env EnvironmentConfig) error {
	return sr.ValidateAgainstSchema(ctx, "environment", env)
}

// Built-in schema definitions. Each schema is written as top-level constraint
// fields so that unifying it with a config value applies the constraints
// directly.

const builtinDeploymentSchema = `
#Environment: {
	name: string & !=""
	role?: "development" | "production" | "custom"
	observability: {
		logs:              bool
		logSamplingRate:   number & >=0 & <=1
		traces:            bool
		traceSamplingRate: number & >=0 & <=1
		logpush:           bool
	}
	vars?: {[string]: string}
}

// workerName is used verbatim in generated bindings
workerName: string & !=""

// cachingStrategy is the cache coordination tier
cachingStrategy: "static-assets" | "r2" | "r2-do-queue" | "r2-do-queue-tag-cache"

// database is the relational backend
database: "none" | "hyperdrive" | "d1"

imageOptimization: bool
analyticsEngine:   bool

// nextJsVersion is a full semantic version
nextJsVersion: string & =~"^[0-9]+\\.[0-9]+\\.[0-9]+$"

// compatibilityDate pins the runtime behavior
compatibilityDate: string & =~"^[0-9]{4}-[0-9]{2}-[0-9]{2}$"

// environments must carry at least one entry
environments: [#Environment, ...#Environment]
`

const builtinEnvironmentSchema = `
name: string & !=""
role?: "development" | "production" | "custom"
observability: {
	logs:              bool
	logSamplingRate:   number & >=0 & <=1
	traces:            bool
	traceSamplingRate: number & >=0 & <=1
	logpush:           bool
}
vars?: {[string]: string}
`

const builtinObservabilitySchema = `
logs:              bool
logSamplingRate:   number & >=0 & <=1
traces:            bool
traceSamplingRate: number & >=0 & <=1
logpush:           bool
`
