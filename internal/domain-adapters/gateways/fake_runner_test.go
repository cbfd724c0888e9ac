package gateways

import (
	"context"
	"fmt"
	"strings"
)

type fakeResult struct {
	out []byte
	err error
}

// fakeRunner answers commands from a table keyed by the full command line
type fakeRunner struct {
	outputs map[string]fakeResult
	paths   map[string]string
	hooks   map[string]func()

	runCode int
	runErr  error
	runEnv  map[string]string

	calls []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]fakeResult{},
		paths:   map[string]string{},
		hooks:   map[string]func(){},
	}
}

func commandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	key := commandLine(name, args...)
	f.calls = append(f.calls, key)
	if hook, ok := f.hooks[key]; ok {
		hook()
	}
	res, ok := f.outputs[key]
	if !ok {
		return nil, fmt.Errorf("unexpected command: %s", key)
	}
	return res.out, res.err
}

func (f *fakeRunner) Run(_ context.Context, env map[string]string, name string, args ...string) (int, error) {
	f.calls = append(f.calls, commandLine(name, args...))
	f.runEnv = env
	return f.runCode, f.runErr
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%s: executable file not found in $PATH", name)
}

func (f *fakeRunner) called(key string) bool {
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}
