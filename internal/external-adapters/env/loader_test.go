package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestLoader_ProcessEnv(t *testing.T) {
	l := NewLoaderWithLookup(mapLookup(map[string]string{
		VarOutputFormat:     "zip",
		VarLambdaDir:        "dist",
		VarARM64:            "1",
		VarDisableZigLinker: "false",
		VarSignKey:          "key.asc",
		VarSignPassphrase:   "pw",
	}))

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "zip", cfg.OutputFormat)
	assert.Equal(t, "dist", cfg.LambdaDir)
	require.NotNil(t, cfg.ARM64)
	assert.True(t, *cfg.ARM64)
	require.NotNil(t, cfg.DisableZigLinker)
	assert.False(t, *cfg.DisableZigLinker)
	assert.Equal(t, "key.asc", cfg.SignKeyPath)
	assert.Equal(t, "pw", cfg.SignPassphrase)
}

func TestLoader_CargoTargetDirFallback(t *testing.T) {
	cfg, err := NewLoaderWithLookup(mapLookup(map[string]string{
		VarCargoTargetDir: "/cache/target",
	})).Load("")
	require.NoError(t, err)
	assert.Equal(t, "/cache/target", cfg.TargetDir)

	cfg, err = NewLoaderWithLookup(mapLookup(map[string]string{
		VarCargoTargetDir: "/cache/target",
		VarTargetDir:      "/mine",
	})).Load("")
	require.NoError(t, err)
	assert.Equal(t, "/mine", cfg.TargetDir)
}

func TestLoader_DotEnvUnderProcessEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvName), []byte(
		"LAMBDA_BUILD_LAMBDA_DIR=from-file\nLAMBDA_BUILD_OUTPUT_FORMAT=Zip\nUNRELATED=1\n",
	), 0600))

	cfg, err := NewLoaderWithLookup(mapLookup(map[string]string{
		VarLambdaDir: "from-env",
	})).Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LambdaDir)
	assert.Equal(t, "Zip", cfg.OutputFormat)
}

func TestLoader_NoDotEnv(t *testing.T) {
	cfg, err := NewLoaderWithLookup(mapLookup(nil)).Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.LambdaDir)
	assert.Nil(t, cfg.ARM64)
}

func TestLoader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"bool", map[string]string{VarARM64: "sometimes"}, VarARM64},
		{"zig bool", map[string]string{VarDisableZigLinker: "nah"}, VarDisableZigLinker},
		{"format", map[string]string{VarOutputFormat: "tar"}, VarOutputFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoaderWithLookup(mapLookup(tt.vars)).Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
