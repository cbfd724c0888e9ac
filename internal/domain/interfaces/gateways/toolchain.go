// Package gateways defines interfaces for external tool adapters.
package gateways

import (
	"context"

	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// Toolchain is the host compiler as seen by the build pipeline.
type Toolchain interface {
	// HostFacts reads the host triple and release channel once per run.
	HostFacts(ctx context.Context) (entities.HostFacts, error)

	// EnsureTarget makes sure the compiler can produce code for target,
	// installing the target component when it is missing.
	// Calling it for an installed target is a no-op.
	EnsureTarget(ctx context.Context, target string, host entities.HostFacts) error
}

// LinkerInstaller guarantees the cross-linking helper used for Lambda builds.
type LinkerInstaller interface {
	EnsureInstalled(ctx context.Context) error
}

// CommandRunner executes external programs.
type CommandRunner interface {
	// Output runs a command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Run runs a command with inherited stdio and extra environment,
	// returning the process exit code.
	Run(ctx context.Context, env map[string]string, name string, args ...string) (int, error)

	// LookPath reports the resolved path of an executable.
	LookPath(name string) (string, error)
}
