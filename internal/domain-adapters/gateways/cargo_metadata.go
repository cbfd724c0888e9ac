package gateways

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ochairo/lambda-build/internal/domain/interfaces/gateways"
)

// CargoCatalog lists binary targets using `cargo metadata`
type CargoCatalog struct {
	runner gateways.CommandRunner
}

// NewCargoCatalog creates a new cargo metadata catalog
func NewCargoCatalog(runner gateways.CommandRunner) *CargoCatalog {
	return &CargoCatalog{runner: runner}
}

type cargoMetadata struct {
	Packages []struct {
		Name    string `json:"name"`
		Targets []struct {
			Name string   `json:"name"`
			Kind []string `json:"kind"`
		} `json:"targets"`
	} `json:"packages"`
}

// BinaryTargets returns the names of all bin targets in the workspace,
// in the order cargo reports them
func (c *CargoCatalog) BinaryTargets(ctx context.Context, manifestPath string) ([]string, error) {
	args := []string{"metadata", "--no-deps", "--format-version", "1"}
	if manifestPath != "" {
		args = append(args, "--manifest-path", manifestPath)
	}

	out, err := c.runner.Output(ctx, "cargo", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read project metadata: %w", err)
	}

	return ParseBinaryTargets(out)
}

// ParseBinaryTargets extracts bin target names from `cargo metadata` JSON
func ParseBinaryTargets(data []byte) ([]string, error) {
	var meta cargoMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse cargo metadata: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, pkg := range meta.Packages {
		for _, target := range pkg.Targets {
			if !hasKind(target.Kind, "bin") || seen[target.Name] {
				continue
			}
			seen[target.Name] = true
			names = append(names, target.Name)
		}
	}

	return names, nil
}

func hasKind(kinds []string, want string) bool {
	for _, k := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
