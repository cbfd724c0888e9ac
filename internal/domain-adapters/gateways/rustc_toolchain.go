package gateways

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/domain/interfaces"
	"github.com/ochairo/lambda-build/internal/domain/interfaces/gateways"
)

// RustToolchain inspects the host rustc and installs target components with rustup
type RustToolchain struct {
	runner gateways.CommandRunner
	logger interfaces.Logger
}

// NewRustToolchain creates a new rust toolchain gateway
func NewRustToolchain(runner gateways.CommandRunner, logger interfaces.Logger) *RustToolchain {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &RustToolchain{runner: runner, logger: logger}
}

// HostFacts reads the host triple and release channel from `rustc -vV`
func (t *RustToolchain) HostFacts(ctx context.Context) (entities.HostFacts, error) {
	out, err := t.runner.Output(ctx, "rustc", "-vV")
	if err != nil {
		return entities.HostFacts{}, fmt.Errorf("%w: failed to read rustc version: %v", entities.ErrToolchainUnavailable, err)
	}
	return ParseRustcVersion(out)
}

// ParseRustcVersion parses the verbose output of `rustc -vV`
func ParseRustcVersion(out []byte) (entities.HostFacts, error) {
	var facts entities.HostFacts

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "host":
			facts.HostTriple = strings.TrimSpace(value)
		case "release":
			facts.Release = strings.TrimSpace(value)
		}
	}

	if facts.HostTriple == "" || facts.Release == "" {
		return entities.HostFacts{}, fmt.Errorf("%w: unexpected rustc -vV output", entities.ErrToolchainUnavailable)
	}

	facts.ReleaseChannel = releaseChannel(facts.Release)
	return facts, nil
}

// releaseChannel derives the rustup channel from a release like 1.79.0-nightly
func releaseChannel(release string) string {
	_, pre, ok := strings.Cut(release, "-")
	if !ok {
		return "stable"
	}
	switch {
	case strings.HasPrefix(pre, "nightly"):
		return "nightly"
	case strings.HasPrefix(pre, "beta"):
		return "beta"
	case strings.HasPrefix(pre, "dev"):
		return "dev"
	default:
		return "stable"
	}
}

// EnsureTarget installs the target component through rustup when the
// sysroot does not already contain it
func (t *RustToolchain) EnsureTarget(ctx context.Context, target string, host entities.HostFacts) error {
	installed, err := t.targetInstalled(ctx, target)
	if err != nil {
		return err
	}
	if installed {
		t.logger.Debug("target component already installed", interfaces.F("target", target))
		return nil
	}

	if _, err := t.runner.LookPath("rustup"); err != nil {
		return fmt.Errorf("%w: %s is not installed and rustup is not available, install the target component manually",
			entities.ErrToolchainUnavailable, target)
	}

	toolchain := host.Toolchain()
	t.logger.Info("installing target component", interfaces.F("target", target), interfaces.F("toolchain", toolchain))

	if _, err := t.runner.Output(ctx, "rustup", "target", "add", "--toolchain", toolchain, target); err != nil {
		return fmt.Errorf("%w: failed to install %s for %s: %v", entities.ErrToolchainUnavailable, target, toolchain, err)
	}

	installed, err = t.targetInstalled(ctx, target)
	if err != nil {
		return err
	}
	if !installed {
		return fmt.Errorf("%w: %s still missing after rustup target add", entities.ErrToolchainUnavailable, target)
	}

	return nil
}

func (t *RustToolchain) targetInstalled(ctx context.Context, target string) (bool, error) {
	out, err := t.runner.Output(ctx, "rustc", "--print", "sysroot")
	if err != nil {
		return false, fmt.Errorf("%w: failed to locate rustc sysroot: %v", entities.ErrToolchainUnavailable, err)
	}

	sysroot := strings.TrimSpace(string(out))
	info, err := os.Stat(filepath.Join(sysroot, "lib", "rustlib", target))
	if err != nil {
		return false, nil
	}
	return info.IsDir(), nil
}
