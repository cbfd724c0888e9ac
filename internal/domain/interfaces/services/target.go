// Package services defines interfaces for domain service contracts.
package services

import "github.com/ochairo/lambda-build/internal/domain/entities"

// TargetService decides which target a build compiles for.
// Implementations must be pure: same inputs, same result, no I/O.
type TargetService interface {
	ResolveTarget(req entities.BuildRequest, host entities.HostFacts) (entities.ResolvedTarget, error)
	ValidateTarget(triple string) error
}
