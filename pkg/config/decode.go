package config

import (
	"encoding/json"
	"fmt"
)

// FromMap decodes an untyped key/value mapping into a DeploymentConfig. This
// is the entry point for callers that receive arguments as loose maps (tool
// invocation layers); the result still has to go through the Validator before
// it reaches the compiler.
func FromMap(args map[string]interface{}) (*DeploymentConfig, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}

	var cfg DeploymentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode arguments: %w", err)
	}
	return &cfg, nil
}
