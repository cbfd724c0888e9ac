package main

import (
	"context"
	"fmt"
	"runtime"
)

// Set at build time via -ldflags "-X main.version=... -X main.commit=..."
var (
	version = ""
	commit  = ""
)

// VersionCmd prints version information
type VersionCmd struct{}

// Run executes the version command
func (c *VersionCmd) Run(_ context.Context, a *app) error {
	fmt.Fprintln(a.stdout, versionString())
	return nil
}

// versionString is formatted as "<name> <version> <commit> [<os>/<arch>]"
func versionString() string {
	v := version
	if v == "" {
		v = "(undefined)"
	}
	c := commit
	if c == "" {
		c = "(unknown)"
	}
	return fmt.Sprintf("%s %s %s [%s/%s]", appName, v, c, runtime.GOOS, runtime.GOARCH)
}
