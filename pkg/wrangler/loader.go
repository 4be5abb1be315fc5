package wrangler

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openwrangle/openwrangle/pkg/config"
)

// LoadDeployConfig reads and decodes the deployment configuration file at the
// project root. It distinguishes a missing file (not-found class) from a file
// that fails to decode (validation class); validation of values is the
// Validator's job, not the loader's.
func LoadDeployConfig(projectDir string) (*config.DeploymentConfig, error) {
	path := filepath.Join(projectDir, DeployConfigName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError(DeployConfigName+" not found", path, err)
		}
		return nil, NewInternalError("failed to read "+DeployConfigName, err)
	}

	var cfg config.DeploymentConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewValidationError("failed to decode "+DeployConfigName, err)
	}
	return &cfg, nil
}
