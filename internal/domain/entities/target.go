package entities

// Triples accepted by the Lambda provided.al2 runtimes.
const (
	TargetARM64  = "aarch64-unknown-linux-gnu"
	TargetX86_64 = "x86_64-unknown-linux-gnu"
)

// Supported platform families, matched by prefix so musl and
// glibc-versioned variants are accepted as well.
var SupportedTargetPrefixes = []string{
	"aarch64-unknown-linux",
	"x86_64-unknown-linux",
}

// ResolvedTarget is the single target a run compiles for.
type ResolvedTarget struct {
	Triple      string // as handed to the compiler, may carry a glibc suffix
	PlatformKey string // Triple without the glibc suffix, used for directory layout
	ProfileDir  string // "debug", "release" or a custom profile name
}

// HostFacts describes the compiler installed on the build host.
type HostFacts struct {
	HostTriple     string
	ReleaseChannel string // stable, beta or nightly
	Release        string // full rustc release string
}

// Toolchain returns the rustup toolchain name for the host, e.g. stable-x86_64-unknown-linux-gnu.
func (h HostFacts) Toolchain() string {
	return h.ReleaseChannel + "-" + h.HostTriple
}
