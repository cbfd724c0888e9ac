package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// CommandRunner executes external tools on behalf of the build pipeline
type CommandRunner struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// NewCommandRunner creates a runner wired to the process stdio
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
	}
}

// Output runs a command and returns its standard output.
// Standard error is folded into the returned error on failure.
func (r *CommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	//nolint:gosec // G204: command names are fixed tool names chosen by the pipeline
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
	}

	return stdout.Bytes(), nil
}

// Run runs a command with inherited stdio and blocks until it exits.
//
// A process that ran and exited non-zero is reported through the exit code
// with a nil error. An error is returned only when the process could not be
// started or waited on.
func (r *CommandRunner) Run(ctx context.Context, env map[string]string, name string, args ...string) (int, error) {
	//nolint:gosec // G204: cargo invocation is assembled from validated build options
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Stdin = r.stdin
	cmd.Env = mergeEnv(os.Environ(), env)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal, no exit status available.
			code = 1
		}
		return code, nil
	}

	return -1, fmt.Errorf("failed to run %s: %w", name, err)
}

// LookPath reports the resolved path of an executable
func (r *CommandRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// mergeEnv overlays extra on base, replacing existing keys
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}

	env := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[key]; overridden {
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}

	return env
}
