package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/recforge/internal/constants"
	rferrors "github.com/mrz1836/recforge/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(constants.HomeEnvVar, t.TempDir())

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ReadsGlobalThenProject(t *testing.T) {
	home := t.TempDir()
	t.Setenv(constants.HomeEnvVar, home)
	writeConfig(t, home, `
output:
  pages_package: com.acme.pages
resolver:
  cache_size: 16
`)

	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, constants.ProjectConfigDir), 0o750))
	writeConfig(t, filepath.Join(project, constants.ProjectConfigDir), `
resolver:
  cache_size: 32
`)
	t.Chdir(project)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "com.acme.pages", cfg.Output.PagesPackage)
	assert.Equal(t, 32, cfg.Resolver.CacheSize)
}

func TestLoadFromPaths_ProjectConfigOverridesGlobal(t *testing.T) {
	globalConfig := writeConfig(t, t.TempDir(), `
resolver:
  probe_timeout: 1s
  cache_size: 50
browser:
  headless: false
`)
	projectConfig := writeConfig(t, t.TempDir(), `
resolver:
  probe_timeout: 750ms
`)

	cfg, err := LoadFromPaths(context.Background(), projectConfig, globalConfig)
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Resolver.ProbeTimeout, "project config wins")
	assert.Equal(t, 50, cfg.Resolver.CacheSize, "global value survives")
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, constants.DefaultPagesDir, cfg.Output.PagesDir, "defaults fill the rest")
}

func TestLoadFromPaths_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFromPaths(context.Background(),
		filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "nope-either.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPaths_EnvVarOverridesConfigFile(t *testing.T) {
	t.Setenv("RECFORGE_GENERATE_CONCURRENCY", "8")
	t.Setenv("RECFORGE_BROWSER_BASE_URL", "https://staging.example.com")
	projectConfig := writeConfig(t, t.TempDir(), `
generate:
  concurrency: 2
`)

	cfg, err := LoadFromPaths(context.Background(), projectConfig, "")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Generate.Concurrency)
	assert.Equal(t, "https://staging.example.com", cfg.Browser.BaseURL)
}

func TestLoadFromPaths_InvalidValues(t *testing.T) {
	projectConfig := writeConfig(t, t.TempDir(), `
generate:
  concurrency: 99
`)

	_, err := LoadFromPaths(context.Background(), projectConfig, "")

	require.ErrorIs(t, err, rferrors.ErrConfigInvalidGenerate)
}

func TestLoadFromPaths_MalformedYAML(t *testing.T) {
	projectConfig := writeConfig(t, t.TempDir(), "output: [unterminated\n")

	_, err := LoadFromPaths(context.Background(), projectConfig, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read project config")
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()

	applyOverrides(cfg, &Config{
		Output:   OutputConfig{PagesDir: "out/pages", StepsPackage: "com.acme.steps"},
		Resolver: ResolverConfig{ProbeTimeout: time.Second},
		Browser:  BrowserConfig{BaseURL: "http://localhost:8080"},
		Generate: GenerateConfig{StoryID: "AUTH-12"},
	})

	assert.Equal(t, "out/pages", cfg.Output.PagesDir)
	assert.Equal(t, constants.DefaultFeaturesDir, cfg.Output.FeaturesDir)
	assert.Equal(t, "com.acme.steps", cfg.Output.StepsPackage)
	assert.Equal(t, time.Second, cfg.Resolver.ProbeTimeout)
	assert.Equal(t, constants.DefaultCacheSize, cfg.Resolver.CacheSize)
	assert.Equal(t, "http://localhost:8080", cfg.Browser.BaseURL)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "AUTH-12", cfg.Generate.StoryID)
}

func TestGlobalConfigDir_HonorsHomeEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(constants.HomeEnvVar, dir)

	got, err := GlobalConfigDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	path, err := GlobalConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), path)
}

func TestProjectConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".recforge", "config.yaml"), ProjectConfigPath())
}
