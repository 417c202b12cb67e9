package entity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/catalogapi"
	"github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/logger"
	"github.com/retailcat/catalogadmin/server"
)

func setup(t *testing.T) (*server.Server, context.Context) {
	t.Helper()
	log := logger.NewLogger(logger.TestConfig())
	backend := server.NewServer(&server.Config{Version: "1.4.0", Seed: true}, log)
	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)

	m := config.NewManager(nil)
	_, err := m.Load(t.Context(), config.NewCLIProvider(map[string]any{
		"products-url": ts.URL + "/",
		"brands-url":   ts.URL + "/",
		"format":       "json",
	}))
	require.NoError(t, err)
	ctx := config.ContextWithManager(t.Context(), m)
	return backend, logger.ContextWithLogger(ctx, log)
}

func execute(ctx context.Context, root *cobra.Command, args ...string) (string, error) {
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	t.Run("Should print the first page ordered by name", func(t *testing.T) {
		_, ctx := setup(t)
		out, err := execute(ctx, ProductsCommand(), "list")
		require.NoError(t, err)

		var res ListResult[catalog.Product]
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, 12, res.TotalItems)
		assert.Equal(t, 2, res.TotalPages)
		require.Len(t, res.Items, 10)
		assert.Equal(t, "Apple", res.Items[0].Name)
		assert.Equal(t, catalog.Sort{Column: catalog.SortByName, Ascending: true}, res.Sort)
	})

	t.Run("Should filter the fetched page by name", func(t *testing.T) {
		_, ctx := setup(t)
		out, err := execute(ctx, ProductsCommand(), "list", "--search", "AN")
		require.NoError(t, err)

		var res ListResult[catalog.Product]
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		names := make([]string, 0, len(res.Items))
		for _, p := range res.Items {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"Banana", "Mango"}, names)
	})

	t.Run("Should order descending on request", func(t *testing.T) {
		_, ctx := setup(t)
		out, err := execute(ctx, BrandsCommand(), "list", "--desc")
		require.NoError(t, err)

		var res ListResult[catalog.Brand]
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Len(t, res.Items, 3)
		assert.Equal(t, "Orchard Fresh", res.Items[0].Name)
	})

	t.Run("Should reject an unknown sort column", func(t *testing.T) {
		_, ctx := setup(t)
		_, err := execute(ctx, BrandsCommand(), "list", "--sort", "price")
		var cliErr *helpers.CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "INVALID_FLAG", cliErr.Code)
	})
}

func TestAddCommand(t *testing.T) {
	t.Run("Should create a product from flags", func(t *testing.T) {
		backend, ctx := setup(t)
		out, err := execute(ctx, ProductsCommand(), "add", "--name", "Kiwi", "--price", "$2.50", "--type", "Fruit")
		require.NoError(t, err)
		assert.Contains(t, out, `"action": "created"`)
		assert.Equal(t, 13, backend.Products.Len())
	})

	t.Run("Should refuse an invalid product before calling the backend", func(t *testing.T) {
		backend, ctx := setup(t)
		_, err := execute(ctx, ProductsCommand(), "add", "--price", "0")
		var cliErr *helpers.CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "VALIDATION_FAILED", cliErr.Code)
		assert.ErrorIs(t, err, catalog.ErrValidation)
		assert.Equal(t, 12, backend.Products.Len())
	})

	t.Run("Should reject an unknown product type", func(t *testing.T) {
		_, ctx := setup(t)
		_, err := execute(ctx, ProductsCommand(), "add", "--name", "Kiwi", "--price", "1", "--type", "meat")
		var cliErr *helpers.CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "INVALID_ENUM", cliErr.Code)
	})
}

func TestUpdateCommand(t *testing.T) {
	t.Run("Should change only the given fields", func(t *testing.T) {
		backend, ctx := setup(t)
		_, err := execute(ctx, ProductsCommand(), "update", "1", "--price", "1.25")
		require.NoError(t, err)

		got, ok := backend.Products.Get("1")
		require.True(t, ok)
		assert.Equal(t, "Apple", got.Name)
		assert.Equal(t, "1.25", got.Price.StringFixed(2))
	})

	t.Run("Should find entities beyond the first page", func(t *testing.T) {
		backend, ctx := setup(t)
		_, err := execute(ctx, ProductsCommand(), "update", "11", "--active=false")
		require.NoError(t, err)

		got, ok := backend.Products.Get("11")
		require.True(t, ok)
		assert.False(t, got.Active)
	})

	t.Run("Should report a missing entity", func(t *testing.T) {
		_, ctx := setup(t)
		_, err := execute(ctx, BrandsCommand(), "update", "404", "--name", "Nope")
		var cliErr *helpers.CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "NOT_FOUND", cliErr.Code)
	})
}

func TestDeleteCommand(t *testing.T) {
	t.Run("Should require --force in JSON mode", func(t *testing.T) {
		backend, ctx := setup(t)
		_, err := execute(ctx, BrandsCommand(), "delete", "2")
		assert.ErrorIs(t, err, helpers.ErrConfirmationRequired)
		assert.Equal(t, 3, backend.Brands.Len())
	})

	t.Run("Should delete with --force", func(t *testing.T) {
		backend, ctx := setup(t)
		out, err := execute(ctx, BrandsCommand(), "delete", "2", "--force")
		require.NoError(t, err)
		assert.Contains(t, out, `"id": "2"`)
		assert.Equal(t, 2, backend.Brands.Len())
	})

	t.Run("Should surface the backend failure", func(t *testing.T) {
		_, ctx := setup(t)
		_, err := execute(ctx, BrandsCommand(), "delete", "77", "--force")
		assert.ErrorIs(t, err, catalogapi.ErrDeleteFailed)
	})
}

func TestVersionCommand(t *testing.T) {
	t.Run("Should print the backend version", func(t *testing.T) {
		_, ctx := setup(t)
		out, err := execute(ctx, BrandsCommand(), "version")
		require.NoError(t, err)
		assert.JSONEq(t, `{"entity":"brand","version":"1.4.0"}`, out)
	})
}
