package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcat/catalogadmin/cli/helpers"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestExtractCLIFlags(t *testing.T) {
	t.Run("Should only pass flags the user changed", func(t *testing.T) {
		root := RootCmd()
		require.NoError(t, root.PersistentFlags().Parse([]string{"--page-size", "25", "--timeout", "2s", "--watch-config"}))
		flags := extractCLIFlags(root)
		assert.Equal(t, map[string]any{
			"page-size":    25,
			"timeout":      2 * time.Second,
			"watch-config": true,
		}, flags)
	})
}

func TestRootCommand(t *testing.T) {
	t.Run("Should layer flags over the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "admin.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"api":{"page_size":15,"timeout":"5s"}}`), 0o644))

		out, err := runRoot(t, "config", "show", "--output", "json", "--format", "json",
			"--config", path, "--timeout", "9s", "--log-level", "disabled")
		require.NoError(t, err)

		var doc struct {
			Config map[string]string `json:"config"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "15", doc.Config["api.page_size"])
		assert.Equal(t, "9s", doc.Config["api.timeout"])
	})

	t.Run("Should fail fast on an invalid configuration", func(t *testing.T) {
		_, err := runRoot(t, "config", "show", "--format", "json", "--log-level", "disabled",
			"--products-url", "not-a-url")
		var cliErr *helpers.CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "INVALID_CONFIG", cliErr.Code)
	})

	t.Run("Should require an explicitly named config file", func(t *testing.T) {
		_, err := runRoot(t, "config", "show", "--format", "json", "--log-level", "disabled",
			"--config", filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})
}

func TestIsPathWithinDirectory(t *testing.T) {
	t.Run("Should reject paths outside the directory", func(t *testing.T) {
		dir := t.TempDir()
		assert.True(t, isPathWithinDirectory(filepath.Join(dir, ".env"), dir))
		assert.False(t, isPathWithinDirectory(filepath.Join(dir, "..", ".env"), dir))
	})
}
