// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/domain/interfaces"
	"github.com/ochairo/lambda-build/internal/domain/interfaces/gateways"
	"github.com/ochairo/lambda-build/internal/domain/interfaces/services"
)

// DefaultTargetDir is the compiler output root when none is configured
const DefaultTargetDir = "target"

// ArtifactLocator finds compiled binaries and packaged functions on disk
type ArtifactLocator interface {
	CompiledBinary(targetDir string, target entities.ResolvedTarget, name string) (string, bool)
	FunctionDir(lambdaDir, name string) string
	Bootstrap(lambdaDir, name string) (string, error)
}

// BuildDeps groups the collaborators of a build run
type BuildDeps struct {
	Toolchain gateways.Toolchain
	Resolver  services.TargetService
	Catalog   gateways.BinaryCatalog
	Linker    gateways.LinkerInstaller
	Builder   gateways.Builder
	Packager  gateways.Packager
	Locator   ArtifactLocator
	// Signer is optional; artifacts are left unsigned when nil
	Signer gateways.ArtifactSigner
	Logger interfaces.Logger
}

// BuildOrchestrator coordinates the complete function build workflow
type BuildOrchestrator struct {
	deps BuildDeps
}

// NewBuildOrchestrator creates a new build orchestrator
func NewBuildOrchestrator(deps BuildDeps) *BuildOrchestrator {
	if deps.Logger == nil {
		deps.Logger = &interfaces.NoOpLogger{}
	}
	return &BuildOrchestrator{deps: deps}
}

// BuildResult contains the result of a build operation
type BuildResult struct {
	Target    entities.ResolvedTarget
	Artifacts []*entities.BuildArtifact
	// Signatures maps artifact paths to their detached signature paths
	Signatures    map[string]string
	BuildDuration time.Duration
	TotalDuration time.Duration
}

// Run executes the build workflow: resolve the target, make sure the
// toolchain can produce it, compile, then package every produced binary
func (o *BuildOrchestrator) Run(ctx context.Context, req entities.BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	log := o.deps.Logger

	// Step 1: Inspect the host compiler
	host, err := o.deps.Toolchain.HostFacts(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("Host toolchain", interfaces.F("host", host.HostTriple), interfaces.F("channel", host.ReleaseChannel))

	// Step 2: Resolve the target triple
	target, err := o.deps.Resolver.ResolveTarget(req, host)
	if err != nil {
		return nil, err
	}
	log.Info("Resolved target", interfaces.F("target", target.Triple), interfaces.F("profile", target.ProfileDir))

	// Step 3: Toolchain gate, fatal before anything slow
	if err := o.deps.Toolchain.EnsureTarget(ctx, target.PlatformKey, host); err != nil {
		return nil, err
	}

	// Step 4: Binary catalog and filter check
	binaries, err := o.deps.Catalog.BinaryTargets(ctx, req.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list binary targets: %w", err)
	}
	for _, name := range req.Binaries {
		if !slices.Contains(binaries, name) {
			return nil, fmt.Errorf("%w: %s", entities.ErrUnknownBinaryTarget, name)
		}
	}

	// Step 5: Cross linker
	if !req.DisableZigLinker {
		if err := o.deps.Linker.EnsureInstalled(ctx); err != nil {
			return nil, err
		}
	}

	// Step 6: Compile
	buildStart := time.Now()
	if err := o.deps.Builder.Build(ctx, target, req); err != nil {
		return nil, err
	}
	buildDuration := time.Since(buildStart)

	// Step 7: Package what the compiler produced
	targetDir, lambdaDir := OutputDirs(req)
	result := &BuildResult{
		Target:        target,
		Signatures:    map[string]string{},
		BuildDuration: buildDuration,
	}

	for _, name := range packagedBinaries(binaries, req.Binaries) {
		binaryPath, ok := o.deps.Locator.CompiledBinary(targetDir, target, name)
		if !ok {
			log.Debug("Skipping binary that was not produced", interfaces.F("name", name), interfaces.F("path", binaryPath))
			continue
		}

		artifact, err := o.deps.Packager.Package(ctx, name, binaryPath, o.deps.Locator.FunctionDir(lambdaDir, name), req.OutputFormat)
		if err != nil {
			return nil, fmt.Errorf("failed to package %s: %w", name, err)
		}
		result.Artifacts = append(result.Artifacts, artifact)

		if err := o.sign(ctx, artifact, result.Signatures); err != nil {
			return nil, err
		}
	}

	result.TotalDuration = time.Since(startTime)
	return result, nil
}

func (o *BuildOrchestrator) sign(ctx context.Context, artifact *entities.BuildArtifact, signatures map[string]string) error {
	if o.deps.Signer == nil {
		return nil
	}
	sigPath, err := o.deps.Signer.SignFile(ctx, artifact.Path)
	if err != nil {
		return fmt.Errorf("failed to sign %s: %w", artifact.Path, err)
	}
	signatures[artifact.Path] = sigPath
	o.deps.Logger.Debug("Signed artifact", interfaces.F("signature", sigPath))
	return nil
}

// OutputDirs returns the compiler output root and the packaging root for req
func OutputDirs(req entities.BuildRequest) (targetDir, lambdaDir string) {
	targetDir = req.TargetDir
	if targetDir == "" {
		targetDir = DefaultTargetDir
	}
	lambdaDir = req.LambdaDir
	if lambdaDir == "" {
		lambdaDir = filepath.Join(targetDir, "lambda")
	}
	return targetDir, lambdaDir
}

// packagedBinaries keeps catalog order, narrowed to the filter when one is set
func packagedBinaries(catalog, filter []string) []string {
	if len(filter) == 0 {
		return catalog
	}
	out := make([]string, 0, len(filter))
	for _, name := range catalog {
		if slices.Contains(filter, name) {
			out = append(out, name)
		}
	}
	return out
}
