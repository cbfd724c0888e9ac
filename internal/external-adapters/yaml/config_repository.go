package yaml

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/ochairo/lambda-build/internal/domain/entities"
)

const (
	// UserConfigRelPath is looked up under the XDG config directories
	UserConfigRelPath = "lambda-build/config.yml"
	// ProjectConfigName is read from the directory holding Cargo.toml
	ProjectConfigName = "lambda-build.yml"
)

// ConfigRepository implements repositories.ConfigRepository using YAML files
type ConfigRepository struct {
	parser   *ConfigParser
	userPath func() (string, error)
}

// NewConfigRepository creates a new YAML-based configuration repository
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{
		parser: NewConfigParser(),
		userPath: func() (string, error) {
			return xdg.SearchConfigFile(UserConfigRelPath)
		},
	}
}

// NewConfigRepositoryWithUserPath pins the user configuration file location
func NewConfigRepositoryWithUserPath(path string) *ConfigRepository {
	r := NewConfigRepository()
	r.userPath = func() (string, error) { return path, nil }
	return r
}

// LoadUser reads the user configuration; a missing file yields an empty Config
func (r *ConfigRepository) LoadUser(_ context.Context) (entities.Config, error) {
	path, err := r.userPath()
	if err != nil {
		// xdg reports a missing file as a search failure
		return entities.Config{}, nil
	}
	return r.load(path, "")
}

// LoadProject reads lambda-build.yml from projectDir; relative paths inside
// it are resolved against projectDir
func (r *ConfigRepository) LoadProject(_ context.Context, projectDir string) (entities.Config, error) {
	return r.load(filepath.Join(projectDir, ProjectConfigName), projectDir)
}

func (r *ConfigRepository) load(path, baseDir string) (entities.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return entities.Config{}, nil
	}

	cfg, err := r.parser.ParseFile(path)
	if err != nil {
		return entities.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if baseDir != "" {
		cfg.LambdaDir = resolve(baseDir, cfg.LambdaDir)
		cfg.TargetDir = resolve(baseDir, cfg.TargetDir)
		cfg.SignKeyPath = resolve(baseDir, cfg.SignKeyPath)
	}
	return cfg, nil
}

func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
