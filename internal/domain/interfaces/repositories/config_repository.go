// Package repositories defines data access contracts.
package repositories

import (
	"context"

	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// ConfigRepository loads layered build defaults.
type ConfigRepository interface {
	// LoadUser returns defaults from the user's configuration directory.
	LoadUser(ctx context.Context) (entities.Config, error)

	// LoadProject returns defaults stored next to the project manifest.
	LoadProject(ctx context.Context, projectDir string) (entities.Config, error)
}
