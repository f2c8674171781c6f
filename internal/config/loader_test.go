package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
)

func isolatedOptions(t *testing.T) (LoadOptions, string) {
	t.Helper()
	dir := t.TempDir()
	return LoadOptions{
		SearchPaths: []string{dir},
		EnvFiles:    []string{filepath.Join(dir, ".env")},
	}, dir
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func TestLoad_Defaults(t *testing.T) {
	opts, _ := isolatedOptions(t)

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr)
	assert.Equal(t, "/", cfg.HTTP.BasePath)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 30*time.Minute, cfg.HTTP.SessionTTL)
	assert.Equal(t, int64(32<<20), cfg.HTTP.MaxUploadBytes)
	assert.True(t, cfg.HTTP.Metrics)
	assert.Equal(t, float64(20), cfg.HTTP.RateLimit)
	assert.Equal(t, 40, cfg.HTTP.RateBurst)
	assert.Equal(t, 10*time.Second, cfg.Sheet.Timeout)
	assert.Equal(t, 1, cfg.Sheet.HeaderRows)
	assert.Equal(t, "DROPDOWN", cfg.Sheet.Name)
	assert.Empty(t, cfg.Form.TemplatesDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, orderstatus.KeepHidden, cfg.SubmitPolicy())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	opts, dir := isolatedOptions(t)

	yaml := []byte(`http:
  addr: ":8081"
  base_path: /crm
sheet:
  url: https://docs.google.com/spreadsheets/d/abc/gviz/tq?tqx=out:json
  timeout: 3s
theme:
  name: acme
  variant: dark
  css_vars:
    --os-gap: 2rem
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orderstatus.yaml"), yaml, 0o600))
	t.Setenv("ORDERSTATUS_HTTP_ADDR", ":9090")
	t.Setenv("ORDERSTATUS_LOG_FORMAT", "json")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "/crm", cfg.HTTP.BasePath)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/gviz/tq?tqx=out:json", cfg.Sheet.URL)
	assert.Equal(t, 3*time.Second, cfg.Sheet.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "acme", cfg.Theme.Name)
	assert.Equal(t, "dark", cfg.Theme.Variant)
	assert.Equal(t, map[string]string{"--os-gap": "2rem"}, cfg.Theme.CSSVars)
}

func TestLoad_DotEnvFile(t *testing.T) {
	opts, dir := isolatedOptions(t)
	unsetEnv(t, "ORDERSTATUS_FORM_SUBMIT_POLICY")
	unsetEnv(t, "ORDERSTATUS_SHEET_XLSX_PATH")

	env := []byte("ORDERSTATUS_FORM_SUBMIT_POLICY=drop\nORDERSTATUS_SHEET_XLSX_PATH=/data/dropdowns.xlsx\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), env, 0o600))

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, orderstatus.DropHidden, cfg.SubmitPolicy())
	assert.Equal(t, "/data/dropdowns.xlsx", cfg.Sheet.XLSXPath)
}

func TestLoad_Rejects(t *testing.T) {
	t.Run("submit policy", func(t *testing.T) {
		opts, _ := isolatedOptions(t)
		t.Setenv("ORDERSTATUS_FORM_SUBMIT_POLICY", "purge")

		_, err := Load(opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "form.submit_policy")
	})

	t.Run("log format", func(t *testing.T) {
		opts, _ := isolatedOptions(t)
		t.Setenv("ORDERSTATUS_LOG_FORMAT", "xml")

		_, err := Load(opts)
		require.Error(t, err)
	})

	t.Run("explicit file missing", func(t *testing.T) {
		opts, dir := isolatedOptions(t)
		opts.ConfigFile = filepath.Join(dir, "nope.yaml")

		_, err := Load(opts)
		require.Error(t, err)
	})
}

func TestSheetConfig_FeedURL(t *testing.T) {
	t.Run("explicit url wins", func(t *testing.T) {
		got, err := SheetConfig{URL: " https://example.test/feed ", ID: "abc"}.FeedURL()
		require.NoError(t, err)
		assert.Equal(t, "https://example.test/feed", got)
	})

	t.Run("built from id and tab name", func(t *testing.T) {
		got, err := SheetConfig{ID: "abc123", Name: "DROPDOWN"}.FeedURL()
		require.NoError(t, err)
		assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/gviz/tq?sheet=DROPDOWN&tqx=out%3Ajson", got)
	})

	t.Run("nothing configured", func(t *testing.T) {
		got, err := SheetConfig{Name: "DROPDOWN"}.FeedURL()
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestLoad_SheetIDFromEnvironment(t *testing.T) {
	opts, _ := isolatedOptions(t)
	unsetEnv(t, "ORDERSTATUS_SHEET_URL")
	t.Setenv("ORDERSTATUS_SHEET_ID", "14n58u8M3NYiIjW5vT")

	cfg, err := Load(opts)
	require.NoError(t, err)

	got, err := cfg.Sheet.FeedURL()
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/14n58u8M3NYiIjW5vT/gviz/tq?sheet=DROPDOWN&tqx=out%3Ajson", got)
}
