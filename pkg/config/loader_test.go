package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should load defaults when no sources are given", func(t *testing.T) {
		svc := NewService()
		cfg, err := svc.Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, SourceDefault, svc.GetSource("urls.products"))
	})

	t.Run("Should read a JSON config file", func(t *testing.T) {
		path := writeFile(t, "catalogadmin.json", `{
			"urls": {"products": "https://products.example.com/", "brands": "https://brands.example.com/"},
			"api": {"page_size": 25, "timeout": "5s"},
			"runtime": {"environment": "production"}
		}`)
		svc := NewService()
		cfg, err := svc.Load(t.Context(), NewFileProvider(path, true))
		require.NoError(t, err)
		assert.Equal(t, "https://products.example.com/", cfg.URLs.Products)
		assert.Equal(t, 25, cfg.API.PageSize)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.True(t, cfg.Runtime.IsProduction())
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
		assert.Equal(t, SourceFile, svc.GetSource("api.page_size"))
	})

	t.Run("Should read a YAML config file", func(t *testing.T) {
		path := writeFile(t, "catalogadmin.yaml", "urls:\n  brands: http://brands.local:9000/\n")
		cfg, err := NewService().Load(t.Context(), NewFileProvider(path, true))
		require.NoError(t, err)
		assert.Equal(t, "http://brands.local:9000/", cfg.URLs.Brands)
	})

	t.Run("Should let env override the file and CLI override env", func(t *testing.T) {
		path := writeFile(t, "catalogadmin.json", `{"api": {"page_size": 25}, "urls": {"brands": "http://file/"}}`)
		t.Setenv("CATALOG_API_PAGE_SIZE", "50")
		t.Setenv("CATALOG_URLS_BRANDS", "http://env/")
		svc := NewService()
		cfg, err := svc.Load(t.Context(),
			NewFileProvider(path, true),
			NewCLIProvider(map[string]any{"brands-url": "http://cli/"}),
		)
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.API.PageSize)
		assert.Equal(t, "http://cli/", cfg.URLs.Brands)
		assert.Equal(t, SourceEnv, svc.GetSource("api.page_size"))
		assert.Equal(t, SourceCLI, svc.GetSource("urls.brands"))
	})

	t.Run("Should ignore a missing optional file", func(t *testing.T) {
		_, err := NewService().Load(t.Context(), NewFileProvider(filepath.Join(t.TempDir(), "nope.json"), false))
		assert.NoError(t, err)
	})

	t.Run("Should fail on a missing required file", func(t *testing.T) {
		_, err := NewService().Load(t.Context(), NewFileProvider(filepath.Join(t.TempDir(), "nope.json"), true))
		assert.Error(t, err)
	})

	t.Run("Should reject malformed documents", func(t *testing.T) {
		path := writeFile(t, "catalogadmin.json", `{"urls": `)
		_, err := NewService().Load(t.Context(), NewFileProvider(path, true))
		assert.Error(t, err)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		path := writeFile(t, "catalogadmin.json", `{"urls": {"products": "not a url"}, "api": {"page_size": 0}}`)
		_, err := NewService().Load(t.Context(), NewFileProvider(path, true))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("Should reject unknown environments", func(t *testing.T) {
		_, err := NewService().Load(t.Context(), NewCLIProvider(map[string]any{"environment": "qa"}))
		assert.Error(t, err)
	})

	t.Run("Should reject base URLs with a query string", func(t *testing.T) {
		_, err := NewService().Load(t.Context(), NewCLIProvider(map[string]any{
			"products-url": "http://products.local/?page=2",
		}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "endpoint")
	})

	t.Run("Should keep the default source for values restated unchanged", func(t *testing.T) {
		path := writeFile(t, "catalogadmin.json", `{"runtime": {"environment": "development"}}`)
		svc := NewService()
		_, err := svc.Load(t.Context(), NewFileProvider(path, true))
		require.NoError(t, err)
		assert.Equal(t, SourceDefault, svc.GetSource("runtime.environment"))
	})
}

func TestTransformEnvKey(t *testing.T) {
	t.Run("Should split section from field name", func(t *testing.T) {
		assert.Equal(t, "api.page_size", transformEnvKey("API_PAGE_SIZE"))
		assert.Equal(t, "urls", transformEnvKey("URLS"))
		assert.Equal(t, "", transformEnvKey("__"))
	})
}

func TestEnvMappings(t *testing.T) {
	t.Run("Should derive prefixed variables from struct tags", func(t *testing.T) {
		assert.Equal(t, "CATALOG_URLS_PRODUCTS", EnvVarFor("urls.products"))
		assert.Equal(t, "CATALOG_CLI_WATCH_CONFIG", EnvVarFor("cli.watch_config"))
		assert.Empty(t, EnvVarFor("does.not.exist"))
	})
}

func TestResolve(t *testing.T) {
	t.Run("Should be ready with a config", func(t *testing.T) {
		l := Resolve(Default(), nil)
		assert.True(t, l.Ready())
		assert.Equal(t, "ready", l.State.String())
	})

	t.Run("Should be invalid on error", func(t *testing.T) {
		l := Resolve(nil, assert.AnError)
		assert.Equal(t, StateInvalid, l.State)
		assert.False(t, l.Ready())
		assert.ErrorIs(t, l.Err, assert.AnError)
	})

	t.Run("Should start in loading", func(t *testing.T) {
		assert.Equal(t, StateLoading, Pending().State)
	})
}
