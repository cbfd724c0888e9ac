// Package env reads build defaults from the environment and a project .env file.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ochairo/lambda-build/internal/domain/entities"
)

// Variable names understood by the loader.
const (
	Prefix              = "LAMBDA_BUILD_"
	VarOutputFormat     = Prefix + "OUTPUT_FORMAT"
	VarLambdaDir        = Prefix + "LAMBDA_DIR"
	VarTargetDir        = Prefix + "TARGET_DIR"
	VarARM64            = Prefix + "ARM64"
	VarDisableZigLinker = Prefix + "DISABLE_ZIG_LINKER"
	VarSignKey          = Prefix + "SIGN_KEY"
	VarSignPassphrase   = Prefix + "SIGN_PASSPHRASE"
	VarCargoTargetDir   = "CARGO_TARGET_DIR"

	DotEnvName = ".env"
)

// Loader builds a Config from the process environment layered over a
// project .env file. The process environment always wins.
type Loader struct {
	lookup func(string) (string, bool)
}

// NewLoader creates a loader backed by os.LookupEnv
func NewLoader() *Loader {
	return &Loader{lookup: os.LookupEnv}
}

// NewLoaderWithLookup creates a loader with a custom variable source
func NewLoaderWithLookup(lookup func(string) (string, bool)) *Loader {
	return &Loader{lookup: lookup}
}

// Load reads <projectDir>/.env when present and returns the resulting Config.
// An empty projectDir skips the .env file.
func (l *Loader) Load(projectDir string) (entities.Config, error) {
	dotenv := map[string]string{}
	if projectDir != "" {
		path := filepath.Join(projectDir, DotEnvName)
		vars, err := godotenv.Read(path)
		switch {
		case err == nil:
			dotenv = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return entities.Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	get := func(key string) string {
		if v, ok := l.lookup(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[key])
	}

	cfg := entities.Config{
		OutputFormat:   get(VarOutputFormat),
		LambdaDir:      get(VarLambdaDir),
		TargetDir:      firstNonEmpty(get(VarTargetDir), get(VarCargoTargetDir)),
		SignKeyPath:    get(VarSignKey),
		SignPassphrase: get(VarSignPassphrase),
	}

	if cfg.OutputFormat != "" {
		if _, err := entities.ParseOutputFormat(cfg.OutputFormat); err != nil {
			return entities.Config{}, fmt.Errorf("%s: %w", VarOutputFormat, err)
		}
	}

	var err error
	if cfg.ARM64, err = parseBool(VarARM64, get(VarARM64)); err != nil {
		return entities.Config{}, err
	}
	if cfg.DisableZigLinker, err = parseBool(VarDisableZigLinker, get(VarDisableZigLinker)); err != nil {
		return entities.Config{}, err
	}

	return cfg, nil
}

func parseBool(key, raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return &b, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
