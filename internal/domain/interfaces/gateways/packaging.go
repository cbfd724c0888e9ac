package gateways

import (
	"context"

	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// ArchitectureInspector recovers the Lambda architecture from object file bytes.
type ArchitectureInspector interface {
	Architecture(data []byte) (string, error)
}

// Packager turns a compiled binary into a deployable artifact.
type Packager interface {
	Package(ctx context.Context, name, binaryPath, destDir string, format entities.OutputFormat) (*entities.BuildArtifact, error)
}

// ArtifactSigner writes a detached signature next to an artifact and
// returns the signature path.
type ArtifactSigner interface {
	SignFile(ctx context.Context, path string) (string, error)
}
