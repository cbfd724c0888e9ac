package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	adapters "github.com/ochairo/lambda-build/internal/domain-adapters/gateways"
	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/domain/interfaces"
	"github.com/ochairo/lambda-build/internal/domain/interfaces/gateways"
	"github.com/ochairo/lambda-build/internal/domain/interfaces/repositories"
	"github.com/ochairo/lambda-build/internal/external-adapters/env"
	"github.com/ochairo/lambda-build/internal/external-adapters/gpg"
	"github.com/ochairo/lambda-build/internal/external-adapters/yaml"
)

// envLoader reads configuration from the environment
type envLoader interface {
	Load(projectDir string) (entities.Config, error)
}

// app carries the process-wide collaborators handed to every command
type app struct {
	stdout  io.Writer
	logger  *slog.Logger
	runner  gateways.CommandRunner
	configs repositories.ConfigRepository
	env     envLoader
}

func newApp(stdout io.Writer) *app {
	return &app{
		stdout:  stdout,
		runner:  adapters.NewCommandRunner(),
		configs: yaml.NewConfigRepository(),
		env:     env.NewLoader(),
	}
}

func (a *app) domainLogger() interfaces.Logger {
	return interfaces.NewSlogLogger(a.logger)
}

// loadConfig layers user, project and environment settings, lowest first
func (a *app) loadConfig(ctx context.Context, projectDir string) (entities.Config, error) {
	user, err := a.configs.LoadUser(ctx)
	if err != nil {
		return entities.Config{}, err
	}
	project, err := a.configs.LoadProject(ctx, projectDir)
	if err != nil {
		return entities.Config{}, err
	}
	fromEnv, err := a.env.Load(projectDir)
	if err != nil {
		return entities.Config{}, err
	}
	return user.Merge(project).Merge(fromEnv), nil
}

// signer returns nil when no key is configured
func (a *app) signer(keyPath, passphrase string) (gateways.ArtifactSigner, error) {
	if keyPath == "" {
		return nil, nil
	}
	s, err := gpg.NewSignerFromFile(keyPath, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}
	a.logger.Debug("loaded signing key", "fingerprint", s.KeyID())
	return s, nil
}

// projectDir is the directory holding the manifest, or the working directory
func projectDir(manifestPath string) string {
	if manifestPath != "" {
		return filepath.Dir(manifestPath)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
