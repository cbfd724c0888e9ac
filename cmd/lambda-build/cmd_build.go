package main

import (
	"context"
	"fmt"
	"io"

	adapters "github.com/ochairo/lambda-build/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/lambda-build/internal/domain-orchestrators"
	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/domain/services"
)

// BuildCmd compiles every binary of the project and packages it
type BuildCmd struct {
	OutputFormat     string   `short:"o" help:"Format of the packaged artifact: Binary or Zip." placeholder:"FORMAT"`
	LambdaDir        string   `short:"l" help:"Directory where packaged functions are written (default <target-dir>/lambda)." placeholder:"DIR"`
	ARM64            bool     `name:"arm64" help:"Build for arm64 functions (aarch64-unknown-linux-gnu)."`
	Target           []string `help:"Target triple to build for." placeholder:"TRIPLE"`
	Release          bool     `short:"r" help:"Build with the release profile."`
	Profile          string   `help:"Build with the named profile." placeholder:"NAME"`
	Bin              []string `help:"Only build the named binary target." placeholder:"NAME"`
	ManifestPath     string   `help:"Path to Cargo.toml." placeholder:"PATH"`
	DisableZigLinker bool     `help:"Run cargo build instead of cargo zigbuild."`
	TargetDir        string   `help:"Directory for compiler output." placeholder:"DIR"`
	SignKey          string   `help:"Armored OpenPGP private key used to sign artifacts." placeholder:"FILE"`
	Report           string   `help:"Write a JSON build report." placeholder:"FILE"`
	CargoArgs        []string `arg:"" optional:"" passthrough:"partial" help:"Extra arguments handed to cargo, after --."`
}

// Run executes the build command
func (c *BuildCmd) Run(ctx context.Context, a *app) error {
	cfg, err := a.loadConfig(ctx, projectDir(c.ManifestPath))
	if err != nil {
		return err
	}

	req, err := c.request(cfg)
	if err != nil {
		return err
	}

	signer, err := a.signer(req.SignKeyPath, cfg.SignPassphrase)
	if err != nil {
		return err
	}

	logger := a.domainLogger()
	orch := orchestrators.NewBuildOrchestrator(orchestrators.BuildDeps{
		Toolchain: adapters.NewRustToolchain(a.runner, logger),
		Resolver:  services.NewTargetResolver(),
		Catalog:   adapters.NewCargoCatalog(a.runner),
		Linker:    adapters.NewZigLinker(a.runner, logger),
		Builder:   adapters.NewCargoBuilder(a.runner, logger),
		Packager:  adapters.NewPackager(adapters.NewArchitectureInspector(), logger),
		Locator:   adapters.NewArtifactFinder(),
		Signer:    signer,
		Logger:    logger,
	})

	result, err := orch.Run(ctx, req)
	if err != nil {
		return err
	}

	printSummary(a.stdout, result.Artifacts, result.Signatures)

	if c.Report != "" {
		reports := services.NewReportService()
		report := reports.NewBuildReport(result.Target, result.Artifacts, result.Signatures)
		if err := reports.WriteReport(c.Report, report); err != nil {
			return err
		}
		a.logger.Info("wrote build report", "path", c.Report)
	}

	return nil
}

// request merges flags over the layered configuration. Flags win; an arm64
// default from configuration only applies when no target was named.
func (c *BuildCmd) request(cfg entities.Config) (entities.BuildRequest, error) {
	format, err := entities.ParseOutputFormat(firstNonEmpty(c.OutputFormat, cfg.OutputFormat))
	if err != nil {
		return entities.BuildRequest{}, err
	}

	passThrough := c.CargoArgs
	if len(passThrough) > 0 && passThrough[0] == "--" {
		passThrough = passThrough[1:]
	}

	req := entities.BuildRequest{
		Targets:          c.Target,
		ARM64:            c.ARM64,
		Profile:          c.Profile,
		Release:          c.Release,
		Binaries:         c.Bin,
		ManifestPath:     c.ManifestPath,
		DisableZigLinker: c.DisableZigLinker || entities.Bool(cfg.DisableZigLinker),
		PassThrough:      passThrough,
		OutputFormat:     format,
		TargetDir:        firstNonEmpty(c.TargetDir, cfg.TargetDir),
		LambdaDir:        firstNonEmpty(c.LambdaDir, cfg.LambdaDir),
		SignKeyPath:      firstNonEmpty(c.SignKey, cfg.SignKeyPath),
	}

	if !req.ARM64 && len(req.Targets) == 0 && entities.Bool(cfg.ARM64) {
		req.ARM64 = true
	}

	return req, nil
}

func printSummary(w io.Writer, artifacts []*entities.BuildArtifact, signatures map[string]string) {
	if len(artifacts) == 0 {
		fmt.Fprintln(w, "No binaries were produced")
		return
	}

	for _, a := range artifacts {
		fmt.Fprintf(w, "📦 %s (%s)\n", a.Name, a.Architecture)
		fmt.Fprintf(w, "   path:   %s\n", a.Path)
		fmt.Fprintf(w, "   sha256: %s\n", a.SHA256)
		if sig := signatures[a.Path]; sig != "" {
			fmt.Fprintf(w, "   sig:    %s\n", sig)
		}
	}
	fmt.Fprintf(w, "\n✅ %d function(s) packaged\n", len(artifacts))
}
