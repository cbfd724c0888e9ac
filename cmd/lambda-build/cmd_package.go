package main

import (
	"context"

	adapters "github.com/ochairo/lambda-build/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/lambda-build/internal/domain-orchestrators"
	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// PackageCmd zips <lambda-dir>/<name>/bootstrap into bootstrap.zip
type PackageCmd struct {
	Name      string `arg:"" help:"Name of the function binary."`
	LambdaDir string `short:"l" help:"Directory holding packaged functions (default <target-dir>/lambda)." placeholder:"DIR"`
	SignKey   string `help:"Armored OpenPGP private key used to sign the archive." placeholder:"FILE"`
}

// Run executes the package command
func (c *PackageCmd) Run(ctx context.Context, a *app) error {
	cfg, err := a.loadConfig(ctx, projectDir(""))
	if err != nil {
		return err
	}

	lambdaDir := c.lambdaDir(cfg)
	signer, err := a.signer(firstNonEmpty(c.SignKey, cfg.SignKeyPath), cfg.SignPassphrase)
	if err != nil {
		return err
	}

	logger := a.domainLogger()
	orch := orchestrators.NewPackageOrchestrator(
		adapters.NewPackager(adapters.NewArchitectureInspector(), logger),
		adapters.NewArtifactFinder(),
		signer,
		logger,
	)

	result, err := orch.PackageFunction(ctx, c.Name, lambdaDir)
	if err != nil {
		return err
	}

	signatures := map[string]string{}
	if result.Signature != "" {
		signatures[result.Artifact.Path] = result.Signature
	}
	printSummary(a.stdout, []*entities.BuildArtifact{result.Artifact}, signatures)
	return nil
}

func (c *PackageCmd) lambdaDir(cfg entities.Config) string {
	if dir := firstNonEmpty(c.LambdaDir, cfg.LambdaDir); dir != "" {
		return dir
	}
	_, dir := orchestrators.OutputDirs(entities.BuildRequest{TargetDir: cfg.TargetDir})
	return dir
}
