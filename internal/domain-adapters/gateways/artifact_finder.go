package gateways

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// ArtifactFinder provides utilities for locating compiled binaries and
// packaged functions on disk
type ArtifactFinder struct{}

// NewArtifactFinder creates a new artifact finder
func NewArtifactFinder() *ArtifactFinder {
	return &ArtifactFinder{}
}

// CompiledBinary returns <targetDir>/<platform key>/<profile dir>/<name> and
// whether cargo produced a regular file there
func (f *ArtifactFinder) CompiledBinary(targetDir string, target entities.ResolvedTarget, name string) (string, bool) {
	path := filepath.Join(targetDir, target.PlatformKey, target.ProfileDir, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return path, false
	}
	return path, true
}

// FunctionDir returns the packaging directory for a function
func (f *ArtifactFinder) FunctionDir(lambdaDir, name string) string {
	return filepath.Join(lambdaDir, name)
}

// Bootstrap returns the path of a previously packaged bootstrap binary
func (f *ArtifactFinder) Bootstrap(lambdaDir, name string) (string, error) {
	path := filepath.Join(f.FunctionDir(lambdaDir, name), entities.BootstrapName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: bootstrap file for %s not found at %s, use `lambda-build build` to create it",
			entities.ErrBinaryNotFound, name, path)
	}
	return path, nil
}
