package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, `
reference_path: /data/pi1M.txt
stdout_name: out.txt
output_dir: results
database: results/analyses.db
workers: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/pi1M.txt", cfg.ReferencePath)
	assert.Equal(t, "out.txt", cfg.StdoutName)
	assert.Equal(t, "results", cfg.OutputDir)
	assert.Equal(t, "results/analyses.db", cfg.Database)
	assert.Equal(t, 2, cfg.Workers)
	// untouched keys keep defaults
	assert.Equal(t, "codar.cheetah.walltime.txt", cfg.WalltimeName)
	assert.Equal(t, "analysis.txt", cfg.AnalysisFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "workers: [1, 2\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	testChdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_SearchesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	writeFile(t, filepath.Join(dir, "analysis.yaml"), "analysis_file: summary.txt\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "summary.txt", cfg.AnalysisFile)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, "reference_path: from-file.txt\nworkers: 2\n")

	t.Setenv("PIACC_REFERENCE", "from-env.txt")
	t.Setenv("PIACC_WORKERS", "16")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.txt", cfg.ReferencePath)
	assert.Equal(t, 16, cfg.Workers)
}

func TestLoad_BadEnvValue(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("PIACC_WORKERS", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no reference", func(c *Config) { c.ReferencePath = "" }},
		{"no stdout name", func(c *Config) { c.StdoutName = "" }},
		{"no walltime name", func(c *Config) { c.WalltimeName = "" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
