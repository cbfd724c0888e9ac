package gateways

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/domain/interfaces"
	"github.com/ochairo/lambda-build/internal/domain/interfaces/gateways"
)

// stripSymbolsFlag is added to RUSTFLAGS for release builds.
const stripSymbolsFlag = "-C strip=symbols"

// CargoBuilder runs `cargo zigbuild` or `cargo build` for a resolved target
type CargoBuilder struct {
	runner gateways.CommandRunner
	logger interfaces.Logger
	getenv func(string) string
}

// NewCargoBuilder creates a new cargo builder
func NewCargoBuilder(runner gateways.CommandRunner, logger interfaces.Logger) *CargoBuilder {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &CargoBuilder{runner: runner, logger: logger, getenv: os.Getenv}
}

// BuildCommand contains a fully assembled cargo invocation
type BuildCommand struct {
	Name string
	Args []string
	Env  map[string]string
}

func (c BuildCommand) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Command assembles the cargo invocation without running it
func (b *CargoBuilder) Command(target entities.ResolvedTarget, req entities.BuildRequest) BuildCommand {
	subcommand := "zigbuild"
	if req.DisableZigLinker {
		subcommand = "build"
	}

	args := []string{subcommand, "--target", target.Triple}
	if req.Profile != "" {
		args = append(args, "--profile", req.Profile)
	}
	if req.Release {
		args = append(args, "--release")
	}
	for _, bin := range req.Binaries {
		args = append(args, "--bin", bin)
	}
	if req.ManifestPath != "" {
		args = append(args, "--manifest-path", req.ManifestPath)
	}
	if req.TargetDir != "" {
		// Pin the output root so packaging looks where cargo wrote.
		args = append(args, "--target-dir", req.TargetDir)
	}
	args = append(args, req.PassThrough...)

	env := map[string]string{}
	if target.ProfileDir == "release" {
		flags := strings.TrimSpace(b.getenv("RUSTFLAGS"))
		if flags == "" {
			flags = stripSymbolsFlag
		} else if !strings.Contains(flags, stripSymbolsFlag) {
			flags += " " + stripSymbolsFlag
		}
		env["RUSTFLAGS"] = flags
	}

	return BuildCommand{Name: "cargo", Args: args, Env: env}
}

// Build runs the compiler and waits for it to finish.
// A non-zero exit is returned as *entities.BuildFailedError with the same code.
func (b *CargoBuilder) Build(ctx context.Context, target entities.ResolvedTarget, req entities.BuildRequest) error {
	cmd := b.Command(target, req)
	b.logger.Debug("running compiler", interfaces.F("command", cmd.String()))

	code, err := b.runner.Run(ctx, cmd.Env, cmd.Name, cmd.Args...)
	if err != nil {
		return fmt.Errorf("failed to run cargo %s: %w", cmd.Args[0], err)
	}
	if code != 0 {
		return &entities.BuildFailedError{ExitCode: code}
	}
	return nil
}
