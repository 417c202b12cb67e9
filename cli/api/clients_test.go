package api

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/logger"
	"github.com/retailcat/catalogadmin/server"
)

func TestNewClients(t *testing.T) {
	t.Run("Should require a configuration", func(t *testing.T) {
		_, err := NewClients(nil)
		assert.Error(t, err)
	})

	t.Run("Should reject an empty base URL", func(t *testing.T) {
		cfg := config.Default()
		cfg.URLs.Brands = ""
		_, err := NewClients(cfg)
		assert.ErrorContains(t, err, "brands")
	})
}

func TestFetchVersions(t *testing.T) {
	t.Run("Should read both versions from the backend", func(t *testing.T) {
		backend := server.NewServer(&server.Config{Version: "2.0.1", Seed: true}, logger.NewLogger(logger.TestConfig()))
		ts := httptest.NewServer(backend.Handler())
		defer ts.Close()

		cfg := config.Default()
		cfg.URLs.Products = ts.URL + "/"
		cfg.URLs.Brands = ts.URL + "/"
		clients, err := NewClients(cfg)
		require.NoError(t, err)

		v := clients.FetchVersions(context.Background())
		assert.Equal(t, "2.0.1", v.Products)
		assert.Equal(t, "2.0.1", v.Brands)
		assert.Empty(t, v.ProductsErr)
	})

	t.Run("Should report failures per entity", func(t *testing.T) {
		ts := httptest.NewServer(nil)
		ts.Close()
		cfg := config.Default()
		cfg.URLs.Products = ts.URL + "/"
		cfg.URLs.Brands = ts.URL + "/"
		clients, err := NewClients(cfg)
		require.NoError(t, err)

		v := clients.FetchVersions(context.Background())
		assert.NotEmpty(t, v.ProductsErr)
		assert.NotEmpty(t, v.BrandsErr)
	})

	t.Run("Should still read one version when the other backend is down", func(t *testing.T) {
		backend := server.NewServer(&server.Config{Version: "2.0.1", Seed: true}, logger.NewLogger(logger.TestConfig()))
		up := httptest.NewServer(backend.Handler())
		defer up.Close()
		down := httptest.NewServer(nil)
		down.Close()

		cfg := config.Default()
		cfg.URLs.Products = down.URL + "/"
		cfg.URLs.Brands = up.URL + "/"
		clients, err := NewClients(cfg)
		require.NoError(t, err)

		v := clients.FetchVersions(context.Background())
		assert.NotEmpty(t, v.ProductsErr)
		assert.Empty(t, v.BrandsErr)
		assert.Equal(t, "2.0.1", v.Brands)
	})
}
