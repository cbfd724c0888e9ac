package orchestrators

import (
	"context"
	"debug/elf"
	"os"
	"path/filepath"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/testutil"
)

// Mock implementations for testing
type mockToolchain struct {
	host      entities.HostFacts
	hostErr   error
	ensureErr error
	ensured   []string
	callOrder *[]string
}

func (m *mockToolchain) HostFacts(_ context.Context) (entities.HostFacts, error) {
	record(m.callOrder, "host")
	return m.host, m.hostErr
}

func (m *mockToolchain) EnsureTarget(_ context.Context, target string, _ entities.HostFacts) error {
	record(m.callOrder, "toolchain")
	m.ensured = append(m.ensured, target)
	return m.ensureErr
}

type mockCatalog struct {
	binaries  []string
	err       error
	callOrder *[]string
}

func (m *mockCatalog) BinaryTargets(_ context.Context, _ string) ([]string, error) {
	record(m.callOrder, "catalog")
	return m.binaries, m.err
}

type mockLinker struct {
	err       error
	calls     int
	callOrder *[]string
}

func (m *mockLinker) EnsureInstalled(_ context.Context) error {
	record(m.callOrder, "linker")
	m.calls++
	return m.err
}

// mockBuilder writes synthetic executables where cargo would put them
type mockBuilder struct {
	targetDir string
	machine   elf.Machine
	produce   []string
	err       error
	calls     int
	got       entities.ResolvedTarget
	callOrder *[]string
}

func (m *mockBuilder) Build(_ context.Context, target entities.ResolvedTarget, _ entities.BuildRequest) error {
	record(m.callOrder, "build")
	m.calls++
	m.got = target
	if m.err != nil {
		return m.err
	}
	dir := filepath.Join(m.targetDir, target.PlatformKey, target.ProfileDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range m.produce {
		data := testutil.ELF(m.machine, []byte(name))
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o755); err != nil {
			return err
		}
	}
	return nil
}

type mockSigner struct {
	err    error
	signed []string
}

func (m *mockSigner) SignFile(_ context.Context, path string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.signed = append(m.signed, path)
	return path + ".asc", nil
}

func record(order *[]string, step string) {
	if order != nil {
		*order = append(*order, step)
	}
}
