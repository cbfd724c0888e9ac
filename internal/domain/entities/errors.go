package entities

import (
	"errors"
	"fmt"
)

var (
	ErrConflictingOptions      = errors.New("invalid options")
	ErrUnsupportedTarget       = errors.New("invalid or unsupported target for AWS Lambda")
	ErrUnknownBinaryTarget     = errors.New("binary target is missing from this project")
	ErrToolchainUnavailable    = errors.New("target component unavailable")
	ErrLinkerUnavailable       = errors.New("linker unavailable")
	ErrBuildFailed             = errors.New("build failed")
	ErrBinaryNotFound          = errors.New("binary not found")
	ErrUnsupportedArchitecture = errors.New("invalid binary architecture")
	ErrIO                      = errors.New("file system operation failed")
)

// BuildFailedError reports a non-zero exit from the compiler process.
// The exit code is reproduced by the CLI instead of being reinterpreted.
type BuildFailedError struct {
	ExitCode int
}

func (e *BuildFailedError) Error() string {
	return fmt.Sprintf("%s: compiler exited with status %d", ErrBuildFailed, e.ExitCode)
}

// Is reports ErrBuildFailed as a match so callers can use errors.Is.
func (e *BuildFailedError) Is(target error) bool {
	return target == ErrBuildFailed
}
