// Package services implements domain business logic.
package services

import (
	"fmt"
	"strings"

	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// TargetResolver implements target selection for Lambda builds
type TargetResolver struct{}

// NewTargetResolver creates a new target resolver
func NewTargetResolver() *TargetResolver {
	return &TargetResolver{}
}

// ResolveTarget picks exactly one supported target triple for a build.
//
// Precedence: --arm64 shortcut, then an explicit target, then the host
// triple when it is already a Lambda triple, then x86_64 Linux.
func (r *TargetResolver) ResolveTarget(req entities.BuildRequest, host entities.HostFacts) (entities.ResolvedTarget, error) {
	explicit, hasExplicit := req.ExplicitTarget()

	if req.ARM64 && hasExplicit {
		return entities.ResolvedTarget{}, fmt.Errorf("%w: --arm64 and --target cannot be specified at the same time",
			entities.ErrConflictingOptions)
	}

	var triple string
	switch {
	case req.ARM64:
		triple = entities.TargetARM64
	case hasExplicit:
		triple = explicit
	case host.HostTriple == entities.TargetARM64 || host.HostTriple == entities.TargetX86_64:
		// Keep the host triple so cargo writes into target/<triple>/ and
		// binaries are found in the same place as cross builds.
		triple = host.HostTriple
	default:
		triple = entities.TargetX86_64
	}

	if err := r.ValidateTarget(triple); err != nil {
		return entities.ResolvedTarget{}, err
	}

	return entities.ResolvedTarget{
		Triple:      triple,
		PlatformKey: NormalizeTarget(triple),
		ProfileDir:  ProfileDir(req.Profile, req.Release),
	}, nil
}

// ValidateTarget checks that a triple belongs to a Lambda platform family.
//
// Prefix matching accepts musl variants (x86_64-unknown-linux-musl) and
// glibc-versioned triples (aarch64-unknown-linux-gnu.2.26).
func (r *TargetResolver) ValidateTarget(triple string) error {
	key := NormalizeTarget(triple)
	for _, prefix := range entities.SupportedTargetPrefixes {
		if strings.HasPrefix(key, prefix) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", entities.ErrUnsupportedTarget, triple)
}

// NormalizeTarget strips a trailing glibc version suffix from a triple.
func NormalizeTarget(triple string) string {
	key, _, _ := strings.Cut(triple, ".")
	return key
}

// ProfileDir maps a cargo profile to its directory under target/<triple>/.
func ProfileDir(profile string, release bool) string {
	switch profile {
	case "dev", "test":
		return "debug"
	case "release", "bench":
		return "release"
	case "":
		if release {
			return "release"
		}
		return "debug"
	default:
		return profile
	}
}
