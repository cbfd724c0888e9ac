package main

import (
	"bytes"
	"context"
	"debug/elf"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/testutil"
)

// fakeRunner stands in for rustc and cargo
type fakeRunner struct {
	host      string
	sysroot   string
	binaries  []string
	machine   elf.Machine
	exitCode  int
	runArgs   []string
	runEnv    map[string]string
	targetDir string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	line := name + " " + strings.Join(args, " ")
	switch {
	case line == "rustc -vV":
		return []byte(fmt.Sprintf("rustc 1.80.0 (051478957 2024-07-21)\nhost: %s\nrelease: 1.80.0\n", f.host)), nil
	case line == "rustc --print sysroot":
		return []byte(f.sysroot + "\n"), nil
	case strings.HasPrefix(line, "cargo metadata"):
		targets := make([]map[string]any, 0, len(f.binaries))
		for _, b := range f.binaries {
			targets = append(targets, map[string]any{"name": b, "kind": []string{"bin"}})
		}
		return json.Marshal(map[string]any{
			"packages": []any{map[string]any{"name": "app", "targets": targets}},
		})
	}
	return nil, fmt.Errorf("unexpected command: %s", line)
}

func (f *fakeRunner) Run(_ context.Context, env map[string]string, _ string, args ...string) (int, error) {
	f.runArgs = args
	f.runEnv = env
	if f.exitCode != 0 {
		return f.exitCode, nil
	}

	triple, profile := "", "debug"
	for i, a := range args {
		switch a {
		case "--target":
			triple = args[i+1]
		case "--release":
			profile = "release"
		}
	}
	dir := filepath.Join(f.targetDir, triple, profile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return -1, err
	}
	for _, b := range f.binaries {
		if err := os.WriteFile(filepath.Join(dir, b), testutil.ELF(f.machine, []byte(b)), 0o755); err != nil {
			return -1, err
		}
	}
	return 0, nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

type fakeConfigs struct {
	user, project entities.Config
}

func (f fakeConfigs) LoadUser(_ context.Context) (entities.Config, error) { return f.user, nil }

func (f fakeConfigs) LoadProject(_ context.Context, _ string) (entities.Config, error) {
	return f.project, nil
}

type fakeEnv struct {
	cfg entities.Config
}

func (f fakeEnv) Load(_ string) (entities.Config, error) { return f.cfg, nil }

type testEnv struct {
	app    *app
	out    *bytes.Buffer
	runner *fakeRunner
	root   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	sysroot := filepath.Join(root, "sysroot")
	for _, target := range []string{entities.TargetX86_64, entities.TargetARM64} {
		require.NoError(t, os.MkdirAll(filepath.Join(sysroot, "lib", "rustlib", target), 0o755))
	}

	runner := &fakeRunner{
		host:      entities.TargetX86_64,
		sysroot:   sysroot,
		binaries:  []string{"api"},
		machine:   elf.EM_X86_64,
		targetDir: filepath.Join(root, "target"),
	}
	out := &bytes.Buffer{}
	return &testEnv{
		app: &app{
			stdout:  out,
			logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
			runner:  runner,
			configs: fakeConfigs{},
			env:     fakeEnv{},
		},
		out:    out,
		runner: runner,
		root:   root,
	}
}

func (e *testEnv) run(args ...string) int {
	return run(context.Background(), args, e.app)
}

func TestRun_BuildBinary(t *testing.T) {
	e := newTestEnv(t)
	lambdaDir := filepath.Join(e.root, "lambda")
	report := filepath.Join(e.root, "report.json")

	code := e.run("build", "--target-dir", e.runner.targetDir, "--lambda-dir", lambdaDir, "--report", report)
	require.Equal(t, 0, code, e.out.String())

	assert.Equal(t, "zigbuild", e.runner.runArgs[0])
	assert.Contains(t, e.runner.runArgs, entities.TargetX86_64)
	assert.FileExists(t, filepath.Join(lambdaDir, "api", entities.BootstrapName))
	assert.Contains(t, e.out.String(), "api (x86_64)")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"profile": "debug"`)
}

func TestRun_BuildARM64ReleaseZip(t *testing.T) {
	e := newTestEnv(t)
	e.runner.machine = elf.EM_AARCH64
	lambdaDir := filepath.Join(e.root, "lambda")

	code := e.run("build", "--arm64", "--release", "-o", "zip",
		"--target-dir", e.runner.targetDir, "--lambda-dir", lambdaDir, "--disable-zig-linker",
		"--", "--features", "tracing")
	require.Equal(t, 0, code, e.out.String())

	assert.Equal(t, "build", e.runner.runArgs[0])
	assert.Equal(t, []string{"--features", "tracing"}, e.runner.runArgs[len(e.runner.runArgs)-2:])
	assert.Contains(t, e.runner.runEnv["RUSTFLAGS"], "-C strip=symbols")
	assert.FileExists(t, filepath.Join(lambdaDir, "api", entities.BootstrapZipName))
	assert.Contains(t, e.out.String(), "api (arm64)")
}

func TestRun_BuildFailurePassesExitCode(t *testing.T) {
	e := newTestEnv(t)
	e.runner.exitCode = 101

	code := e.run("build", "--target-dir", e.runner.targetDir)
	assert.Equal(t, 101, code)
	assert.Empty(t, e.out.String())
}

func TestRun_BuildRejectsConflictingOptions(t *testing.T) {
	e := newTestEnv(t)

	code := e.run("build", "--arm64", "--target", entities.TargetX86_64)
	assert.Equal(t, 1, code)
	assert.Nil(t, e.runner.runArgs)
}

func TestRun_UnknownFlag(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, 1, e.run("build", "--no-such-flag"))
}

func TestRun_BuildCargoFlagBeforeSeparator(t *testing.T) {
	e := newTestEnv(t)
	lambdaDir := filepath.Join(e.root, "lambda")

	code := e.run("build", "--target-dir", e.runner.targetDir, "--features", "tracing",
		"--release", "--lambda-dir", lambdaDir, "-o", "zip")
	assert.Equal(t, 1, code)
	assert.Nil(t, e.runner.runArgs)
	assert.NoDirExists(t, lambdaDir)
}

func TestRun_BuildCargoArgsAfterSeparator(t *testing.T) {
	e := newTestEnv(t)
	lambdaDir := filepath.Join(e.root, "lambda")

	code := e.run("build", "--release", "--target-dir", e.runner.targetDir, "--lambda-dir", lambdaDir,
		"--", "--features", "tracing")
	require.Equal(t, 0, code, e.out.String())

	assert.Contains(t, e.runner.runArgs, "--release")
	assert.NotContains(t, e.runner.runArgs, "--")
	assert.Equal(t, []string{"--features", "tracing"}, e.runner.runArgs[len(e.runner.runArgs)-2:])
	assert.Contains(t, e.runner.runEnv["RUSTFLAGS"], "-C strip=symbols")
	assert.FileExists(t, filepath.Join(lambdaDir, "api", entities.BootstrapName))
}

func TestRun_Version(t *testing.T) {
	e := newTestEnv(t)
	require.Equal(t, 0, e.run("version"))
	assert.True(t, strings.HasPrefix(e.out.String(), appName+" "))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(&entities.BuildFailedError{ExitCode: 2}))
	assert.Equal(t, 1, exitCode(&entities.BuildFailedError{ExitCode: -1}))
	assert.Equal(t, 1, exitCode(fmt.Errorf("wrapped: %w", entities.ErrIO)))
	assert.Equal(t, 7, exitCode(fmt.Errorf("wrapped: %w", &entities.BuildFailedError{ExitCode: 7})))
}
