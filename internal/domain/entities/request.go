package entities

import (
	"fmt"
	"strings"
)

// OutputFormat selects how a compiled binary is handed to the deployment platform.
type OutputFormat string

const (
	// OutputBinary moves the raw binary to <dir>/bootstrap.
	OutputBinary OutputFormat = "Binary"
	// OutputZip writes <dir>/bootstrap.zip with a single bootstrap entry.
	OutputZip OutputFormat = "Zip"
)

// ParseOutputFormat parses a format name case-insensitively.
// An empty string yields the default, OutputBinary.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "binary":
		return OutputBinary, nil
	case "zip":
		return OutputZip, nil
	default:
		return "", fmt.Errorf("invalid output format %q, acceptable values are [Binary, Zip]", s)
	}
}

func (f OutputFormat) String() string {
	return string(f)
}

// BuildRequest captures everything a single build run needs.
// It is built once by the CLI layer and passed by value afterwards.
type BuildRequest struct {
	Targets          []string // only the first entry is used
	ARM64            bool
	Profile          string // empty when not given
	Release          bool
	Binaries         []string
	ManifestPath     string
	DisableZigLinker bool
	PassThrough      []string // extra arguments handed to cargo untouched

	OutputFormat OutputFormat
	TargetDir    string
	LambdaDir    string // empty means <TargetDir>/lambda
	SignKeyPath  string
}

// ExplicitTarget returns the first explicit target, if any.
func (r BuildRequest) ExplicitTarget() (string, bool) {
	if len(r.Targets) == 0 {
		return "", false
	}
	return r.Targets[0], true
}
