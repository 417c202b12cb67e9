package version

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcat/catalogadmin/cli/api"
	"github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/logger"
	"github.com/retailcat/catalogadmin/server"
)

func TestVersionCommand(t *testing.T) {
	t.Run("Should include backend versions with --remote", func(t *testing.T) {
		log := logger.NewLogger(logger.TestConfig())
		ts := httptest.NewServer(server.NewServer(&server.Config{Version: "0.9.0", Seed: true}, log).Handler())
		defer ts.Close()

		m := config.NewManager(nil)
		_, err := m.Load(t.Context(), config.NewCLIProvider(map[string]any{
			"products-url": ts.URL + "/",
			"brands-url":   ts.URL + "/",
			"format":       "json",
		}))
		require.NoError(t, err)
		ctx := logger.ContextWithLogger(config.ContextWithManager(t.Context(), m), log)

		c := NewVersionCommand()
		var out bytes.Buffer
		c.SetOut(&out)
		c.SetArgs([]string{"--remote"})
		require.NoError(t, c.ExecuteContext(ctx))

		var r Report
		require.NoError(t, json.Unmarshal(out.Bytes(), &r))
		require.NotNil(t, r.Backends)
		assert.Equal(t, "0.9.0", r.Backends.Products)
		assert.Equal(t, "0.9.0", r.Backends.Brands)
		assert.NotEmpty(t, r.Version)
	})

	t.Run("Should render an error line for an unreachable backend", func(t *testing.T) {
		out := render(Report{Backends: &api.Versions{ProductsErr: "connection refused", Brands: "1.0"}})
		assert.Contains(t, out, "connection refused")
		assert.Contains(t, out, "v1.0")
	})
}
