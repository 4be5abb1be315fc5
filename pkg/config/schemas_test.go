package config

import (
	"context"
	"testing"
)

func TestSchemaRegistry_BuiltInSchemas(t *testing.T) {
	sr := NewSchemaRegistry()

	builtins := []string{
		"deployment",
		"environment",
		"observability",
	}

	for _, name := range builtins {
		t.Run(name, func(t *testing.T) {
			schema, ok := sr.GetSchema(name)
			if !ok {
				t.Fatalf("built-in schema %s not found", name)
			}

			if schema.Err() != nil {
				t.Errorf("built-in schema %s has errors: %v", name, schema.Err())
			}
		})
	}
}

func TestSchemaRegistry_RegisterAndGet(t *testing.T) {
	sr := NewSchemaRegistry()

	customSchema := `
field1: string
field2: int
`

	if err := sr.RegisterSchema("custom", customSchema); err != nil {
		t.Fatalf("failed to register schema: %v", err)
	}

	schema, ok := sr.GetSchema("custom")
	if !ok {
		t.Fatal("expected to find custom schema")
	}

	if schema.Err() != nil {
		t.Errorf("schema has errors: %v", schema.Err())
	}
}

func TestSchemaRegistry_ValidateDeployment(t *testing.T) {
	sr := NewSchemaRegistry()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*DeploymentConfig)
		wantErr bool
	}{
		{
			name:    "valid deployment",
			mutate:  func(c *DeploymentConfig) {},
			wantErr: false,
		},
		{
			name:    "invalid caching strategy",
			mutate:  func(c *DeploymentConfig) { c.CachingStrategy = "memcached" },
			wantErr: true,
		},
		{
			name:    "invalid version string",
			mutate:  func(c *DeploymentConfig) { c.NextJsVersion = "canary" },
			wantErr: true,
		},
		{
			name: "sampling rate out of range",
			mutate: func(c *DeploymentConfig) {
				c.Environments[0].Observability.TraceSamplingRate = 3
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := sr.ValidateDeployment(ctx, *cfg)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestSchemaRegistry_ValidateEnvironment(t *testing.T) {
	sr := NewSchemaRegistry()
	ctx := context.Background()

	env := EnvironmentConfig{
		Name: "staging",
		Observability: ObservabilityConfig{
			Logs:            true,
			LogSamplingRate: 0.5,
		},
	}
	if err := sr.ValidateEnvironment(ctx, env); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}

	env.Observability.LogSamplingRate = -1
	if err := sr.ValidateEnvironment(ctx, env); err == nil {
		t.Error("expected validation error for negative sampling rate")
	}
}
