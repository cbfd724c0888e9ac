package gateways

import (
	"context"
	"fmt"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/domain/interfaces"
	"github.com/ochairo/lambda-build/internal/domain/interfaces/gateways"
)

// ZigLinker makes sure zig and cargo-zigbuild are available for cross linking
type ZigLinker struct {
	runner gateways.CommandRunner
	logger interfaces.Logger
}

// NewZigLinker creates a new zig linker gateway
func NewZigLinker(runner gateways.CommandRunner, logger interfaces.Logger) *ZigLinker {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ZigLinker{runner: runner, logger: logger}
}

// EnsureInstalled installs whatever part of the zig toolchain is missing.
// It is a no-op when both zig and cargo-zigbuild are already present.
func (z *ZigLinker) EnsureInstalled(ctx context.Context) error {
	if err := z.ensureZig(ctx); err != nil {
		return err
	}
	return z.ensureZigbuild(ctx)
}

func (z *ZigLinker) ensureZig(ctx context.Context) error {
	if z.zigAvailable(ctx) {
		return nil
	}

	pip, err := z.runner.LookPath("pip3")
	if err != nil {
		return fmt.Errorf("%w: zig is not installed, install it from https://ziglang.org/download/ or with `pip3 install ziglang`, or pass --disable-zig-linker",
			entities.ErrLinkerUnavailable)
	}

	z.logger.Info("installing zig with pip3")
	if _, err := z.runner.Output(ctx, pip, "install", "ziglang"); err != nil {
		return fmt.Errorf("%w: failed to install zig: %v", entities.ErrLinkerUnavailable, err)
	}

	if !z.zigAvailable(ctx) {
		return fmt.Errorf("%w: zig still unavailable after installation", entities.ErrLinkerUnavailable)
	}
	return nil
}

// zigAvailable accepts either a zig binary or the ziglang python package,
// both of which cargo-zigbuild knows how to call.
func (z *ZigLinker) zigAvailable(ctx context.Context) bool {
	if _, err := z.runner.LookPath("zig"); err == nil {
		return true
	}
	if _, err := z.runner.Output(ctx, "python3", "-m", "ziglang", "version"); err == nil {
		return true
	}
	return false
}

func (z *ZigLinker) ensureZigbuild(ctx context.Context) error {
	if _, err := z.runner.LookPath("cargo-zigbuild"); err == nil {
		return nil
	}

	z.logger.Info("installing cargo-zigbuild")
	if _, err := z.runner.Output(ctx, "cargo", "install", "--locked", "cargo-zigbuild"); err != nil {
		return fmt.Errorf("%w: failed to install cargo-zigbuild: %v", entities.ErrLinkerUnavailable, err)
	}

	if _, err := z.runner.LookPath("cargo-zigbuild"); err != nil {
		return fmt.Errorf("%w: cargo-zigbuild not found in PATH after installation", entities.ErrLinkerUnavailable)
	}
	return nil
}
