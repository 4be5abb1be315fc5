package wrangler

import (
	"fmt"
	"os"
	"path/filepath"
)

// Conventional file names at the project root.
const (
	ArtifactFileName   = "wrangler.toml"
	OpenNextConfigName = "open-next.config.ts"
	DeployConfigName   = "deploy.yaml"
)

// WriteArtifact writes the compiled artifact under the project root, fully
// replacing any existing file there. The write goes through a temp file and
// rename so readers never observe a partial artifact; a failed write leaves
// the previous file intact and the caller retries, not resumes.
func WriteArtifact(projectDir, content string) error {
	path := filepath.Join(projectDir, ArtifactFileName)

	tmp, err := os.CreateTemp(projectDir, ArtifactFileName+".*")
	if err != nil {
		return NewInternalError("failed to stage artifact write", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return NewInternalError("failed to write artifact", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return NewInternalError("failed to flush artifact", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return NewInternalError("failed to replace artifact", err)
	}
	if err := os.Chmod(path, 0644); err != nil {
		return NewInternalError("failed to set artifact permissions", err)
	}
	return nil
}

// ReadArtifact returns the raw artifact text from the project root, or a
// not-found error when no artifact exists there. "File absent" and "file
// present but sparse" are different conditions; only the former is an error.
func ReadArtifact(projectDir string) (string, error) {
	return readProjectFile(projectDir, ArtifactFileName)
}

// ReadOpenNextConfig returns the raw text of the colocated
// project-configuration module, or a not-found error when it is absent.
func ReadOpenNextConfig(projectDir string) (string, error) {
	return readProjectFile(projectDir, OpenNextConfigName)
}

func readProjectFile(projectDir, name string) (string, error) {
	path := filepath.Join(projectDir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", NewNotFoundError(fmt.Sprintf("%s not found", name), path, err)
		}
		return "", NewInternalError(fmt.Sprintf("failed to read %s", name), err)
	}
	return string(data), nil
}
