package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcat/catalogadmin/cli/tui/models"
	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/catalogapi"
	"github.com/retailcat/catalogadmin/pkg/config"
)

func TestToCliError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"request failed", &catalogapi.RequestFailedError{Entity: "products", StatusCode: 500, StatusText: "Internal Server Error"}, "REQUEST_FAILED"},
		{"network", &catalogapi.NetworkError{Op: "list product", Err: fmt.Errorf("dial tcp: connection refused")}, "NETWORK_ERROR"},
		{"save failed", &catalogapi.SaveFailedError{Entity: "product", Name: "Kiwi", StatusCode: 500}, "SAVE_FAILED"},
		{"delete failed", &catalogapi.DeleteFailedError{Entity: "product", ID: "3", StatusCode: 404}, "DELETE_FAILED"},
		{"validation", catalog.ValidateProduct(catalog.Product{}), "VALIDATION_FAILED"},
		{"cancelled", fmt.Errorf("save: %w", catalogapi.ErrCancelled), "CANCELLED"},
		{"confirmation", ErrConfirmationRequired, "CONFIRMATION_REQUIRED"},
		{"canceled", context.Canceled, "OPERATION_CANCELED"},
		{"timeout", NewTimeoutError("list", "5s"), "OPERATION_TIMEOUT"},
		{"deadline", fmt.Errorf("list: %w", context.DeadlineExceeded), "OPERATION_TIMEOUT"},
	}
	for _, tc := range cases {
		t.Run("Should map "+tc.name, func(t *testing.T) {
			cliErr := ToCliError(tc.err)
			require.NotNil(t, cliErr)
			assert.Equal(t, tc.code, cliErr.Code)
			assert.ErrorIs(t, cliErr, tc.err)
		})
	}

	t.Run("Should pass through an existing CliError", func(t *testing.T) {
		orig := NewCliError("X", "y")
		assert.Same(t, orig, ToCliError(fmt.Errorf("wrapped: %w", orig)))
	})

	t.Run("Should return nil for unknown errors", func(t *testing.T) {
		assert.Nil(t, ToCliError(fmt.Errorf("boom")))
		assert.Nil(t, ToCliError(nil))
	})

	t.Run("Should carry validation fields", func(t *testing.T) {
		cliErr := ToCliError(catalog.ValidateProduct(catalog.Product{}))
		require.NotNil(t, cliErr)
		fields, ok := cliErr.Context["fields"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Name must be entered", fields["name"])
	})
}

func TestFormatError(t *testing.T) {
	t.Run("Should render a JSON object with the code", func(t *testing.T) {
		out := FormatError(NewCliError("SAVE_FAILED", "Issue adding product: Kiwi"), models.ModeJSON)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "SAVE_FAILED", decoded["code"])
		assert.Equal(t, "Issue adding product: Kiwi", decoded["error"])
	})

	t.Run("Should prefix the message in TUI mode", func(t *testing.T) {
		out := FormatError(NewCliError("X", "Error retrieving products! Not Found", "status 404"), models.ModeTUI)
		assert.Contains(t, out, "Error Error retrieving products! Not Found")
		assert.Contains(t, out, "Details: status 404")
	})

	t.Run("Should write nothing for nil", func(t *testing.T) {
		var buf bytes.Buffer
		FprintError(&buf, nil, models.ModeJSON)
		assert.Empty(t, buf.String())
	})
}

func TestValidators(t *testing.T) {
	t.Run("Should check enums but allow empty", func(t *testing.T) {
		allowed := []string{"fruit", "dairy"}
		assert.NoError(t, ValidateEnum("", allowed, "type"))
		assert.NoError(t, ValidateEnum("dairy", allowed, "type"))
		assert.Error(t, ValidateEnum("meat", allowed, "type"))
	})
}

func TestTruncate(t *testing.T) {
	t.Run("Should keep short strings", func(t *testing.T) {
		assert.Equal(t, "Apple", Truncate("Apple", 10))
	})
	t.Run("Should add an ellipsis", func(t *testing.T) {
		assert.Equal(t, "Straw...", Truncate("Strawberries", 8))
	})
	t.Run("Should count runes", func(t *testing.T) {
		assert.Equal(t, "Crème", Truncate("Crème", 5))
	})
	t.Run("Should cut hard when too narrow for an ellipsis", func(t *testing.T) {
		assert.Equal(t, "Ap", Truncate("Apple", 2))
	})
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "product", Pluralize(1, "product", "products"))
	assert.Equal(t, "products", Pluralize(0, "product", "products"))
}

func TestDetectMode(t *testing.T) {
	newCmd := func(cfg *config.Config) *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		ctx := context.Background()
		if cfg != nil {
			m := config.NewManager(config.NewService())
			_, err := m.Load(ctx)
			require.NoError(t, err)
			*m.Get() = *cfg
			ctx = config.ContextWithManager(ctx, m)
		}
		cmd.SetContext(ctx)
		return cmd
	}

	t.Run("Should default to JSON without configuration", func(t *testing.T) {
		assert.Equal(t, models.ModeJSON, DetectMode(newCmd(nil)))
	})

	t.Run("Should honor an explicit format", func(t *testing.T) {
		cfg := config.Default()
		cfg.CLI.Format = "tui"
		assert.Equal(t, models.ModeTUI, DetectMode(newCmd(cfg)))
		cfg.CLI.Format = "json"
		assert.Equal(t, models.ModeJSON, DetectMode(newCmd(cfg)))
	})

	t.Run("Should fall back to JSON when not interactive", func(t *testing.T) {
		cfg := config.Default()
		cfg.CLI.Interactive = false
		assert.Equal(t, models.ModeJSON, DetectMode(newCmd(cfg)))
	})
}

func TestOutputWriter(t *testing.T) {
	t.Run("Should write indented JSON", func(t *testing.T) {
		var buf bytes.Buffer
		ow := NewOutputWriter(&buf, models.ModeJSON)
		require.NoError(t, ow.WriteJSON(map[string]int{"total": 2}))
		assert.Equal(t, "{\n  \"total\": 2\n}\n", buf.String())
	})
}
