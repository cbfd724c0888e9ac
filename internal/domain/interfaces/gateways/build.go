package gateways

import (
	"context"

	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// BinaryCatalog lists the binary targets declared by a project manifest.
type BinaryCatalog interface {
	BinaryTargets(ctx context.Context, manifestPath string) ([]string, error)
}

// Builder runs the external compiler for a resolved target.
// A non-zero compiler exit is reported as *entities.BuildFailedError.
type Builder interface {
	Build(ctx context.Context, target entities.ResolvedTarget, req entities.BuildRequest) error
}
