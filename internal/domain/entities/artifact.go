// Package entities defines core domain models and data structures.
package entities

// BuildArtifact is a packaged Lambda function ready for deployment.
// Records are created once per packaged binary and never mutated.
type BuildArtifact struct {
	Name         string
	Architecture string // "arm64" or "x86_64"
	SHA256       string // uppercase hex of the raw binary bytes
	Path         string // bootstrap.zip for Zip, bootstrap for Binary
	Format       OutputFormat
}

// Lambda architecture names reported for packaged binaries.
const (
	ArchARM64  = "arm64"
	ArchX86_64 = "x86_64"
)

// Fixed names required by the Lambda custom runtime.
const (
	BootstrapName    = "bootstrap"
	BootstrapZipName = "bootstrap.zip"
)
