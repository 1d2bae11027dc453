package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.PreviewRows)
	assert.Equal(t, "datasets", cfg.Storage.Bucket)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "_A", cfg.Compare.SuffixA)
	assert.Equal(t, "_B", cfg.Compare.SuffixB)
	assert.Equal(t, "_merge", cfg.Compare.Indicator)
	assert.False(t, cfg.Compare.Normalize)
	assert.True(t, cfg.Compare.Parallel)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("COMPARE_SUFFIX_A", "_left")
	t.Setenv("COMPARE_NORMALIZE", "true")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "_left", cfg.Compare.SuffixA)
	assert.True(t, cfg.Compare.Normalize)
	assert.Equal(t, "9090", cfg.Server.Port)

	opts := cfg.Compare.Options()
	assert.Equal(t, [2]string{"_left", "_B"}, opts.Suffixes)
	assert.True(t, opts.Normalize)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_DRIVER=sqlite\nDATABASE_NAME=ledger.db\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_DRIVER")
		os.Unsetenv("DATABASE_NAME")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "ledger.db", cfg.Database.Name)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("COMPARE_SUFFIX_B", "_A")
	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "suffixes must differ")

	t.Setenv("COMPARE_SUFFIX_B", "_B")
	t.Setenv("COMPARE_VALIDATE", "one_to_few")
	_, err = LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "compare.validate")

	t.Setenv("COMPARE_VALIDATE", "1:1")
	t.Setenv("DATABASE_DRIVER", "postgres")
	_, err = LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "database.driver")
}
