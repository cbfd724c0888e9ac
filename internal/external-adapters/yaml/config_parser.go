// Package yaml provides YAML-based configuration parsing and repository implementations.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlConfig represents the raw YAML structure
type yamlConfig struct {
	OutputFormat     string `yaml:"output_format"`
	LambdaDir        string `yaml:"lambda_dir"`
	TargetDir        string `yaml:"target_dir"`
	ARM64            *bool  `yaml:"arm64"`
	DisableZigLinker *bool  `yaml:"disable_zig_linker"`
	SignKey          string `yaml:"sign_key"`
}

// ConfigParser parses YAML configuration files
type ConfigParser struct{}

// NewConfigParser creates a new YAML parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile parses a YAML configuration file into a Config entity
func (p *ConfigParser) ParseFile(filePath string) (entities.Config, error) {
	//nolint:gosec // G304: filePath is a configuration path chosen by the repository
	data, err := os.ReadFile(filePath)
	if err != nil {
		return entities.Config{}, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	cfg, err := p.Parse(data)
	if err != nil {
		return entities.Config{}, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

// Parse parses YAML bytes into a Config entity. Unknown keys are rejected.
func (p *ConfigParser) Parse(data []byte) (entities.Config, error) {
	var raw yamlConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return entities.Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if raw.OutputFormat != "" {
		if _, err := entities.ParseOutputFormat(raw.OutputFormat); err != nil {
			return entities.Config{}, err
		}
	}

	return entities.Config{
		OutputFormat:     raw.OutputFormat,
		LambdaDir:        raw.LambdaDir,
		TargetDir:        raw.TargetDir,
		ARM64:            raw.ARM64,
		DisableZigLinker: raw.DisableZigLinker,
		SignKeyPath:      raw.SignKey,
	}, nil
}
