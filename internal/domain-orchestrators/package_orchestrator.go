package orchestrators

import (
	"context"
	"fmt"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/domain/interfaces"
	"github.com/ochairo/lambda-build/internal/domain/interfaces/gateways"
)

// PackageOrchestrator zips a function that was already built as a bare binary
type PackageOrchestrator struct {
	packager gateways.Packager
	locator  ArtifactLocator
	signer   gateways.ArtifactSigner
	logger   interfaces.Logger
}

// NewPackageOrchestrator creates a new package orchestrator; signer may be nil
func NewPackageOrchestrator(
	packager gateways.Packager,
	locator ArtifactLocator,
	signer gateways.ArtifactSigner,
	logger interfaces.Logger,
) *PackageOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &PackageOrchestrator{
		packager: packager,
		locator:  locator,
		signer:   signer,
		logger:   logger,
	}
}

// PackageResult contains the archive and its optional signature
type PackageResult struct {
	Artifact  *entities.BuildArtifact
	Signature string
}

// PackageFunction zips <lambdaDir>/<name>/bootstrap into bootstrap.zip in
// the same directory
func (o *PackageOrchestrator) PackageFunction(ctx context.Context, name, lambdaDir string) (*PackageResult, error) {
	bootstrap, err := o.locator.Bootstrap(lambdaDir, name)
	if err != nil {
		return nil, err
	}

	artifact, err := o.packager.Package(ctx, name, bootstrap, o.locator.FunctionDir(lambdaDir, name), entities.OutputZip)
	if err != nil {
		return nil, fmt.Errorf("failed to package %s: %w", name, err)
	}
	o.logger.Info("Packaged function", interfaces.F("name", name), interfaces.F("path", artifact.Path))

	result := &PackageResult{Artifact: artifact}
	if o.signer != nil {
		sig, err := o.signer.SignFile(ctx, artifact.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to sign %s: %w", artifact.Path, err)
		}
		result.Signature = sig
	}
	return result, nil
}
