package api

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/catalogapi"
	"github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/logger"
)

// Clients holds one API client per entity kind, built from the loaded
// configuration.
type Clients struct {
	Products *catalogapi.Client[catalog.Product]
	Brands   *catalogapi.Client[catalog.Brand]
}

// NewClients builds the entity clients from cfg.
func NewClients(cfg *config.Config) (*Clients, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	debug := cfg.Runtime.LogLevel == "debug"
	products, err := catalogapi.New(catalog.Products, catalogapi.Options{
		BaseURL:  cfg.URLs.Products,
		PageSize: cfg.API.PageSize,
		Timeout:  cfg.API.Timeout,
		Debug:    debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create products client: %w", err)
	}
	brands, err := catalogapi.New(catalog.Brands, catalogapi.Options{
		BaseURL:  cfg.URLs.Brands,
		PageSize: cfg.API.PageSize,
		Timeout:  cfg.API.Timeout,
		Debug:    debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create brands client: %w", err)
	}
	return &Clients{Products: products, Brands: brands}, nil
}

// Versions reports the backend version of each entity API. Failures are
// reported per entity instead of aborting the whole lookup.
type Versions struct {
	Products    string `json:"products,omitempty"`
	Brands      string `json:"brands,omitempty"`
	ProductsErr string `json:"products_error,omitempty"`
	BrandsErr   string `json:"brands_error,omitempty"`
}

// FetchVersions asks both backends for their version concurrently.
func (c *Clients) FetchVersions(ctx context.Context) Versions {
	var out Versions
	// plain Group, not WithContext: one backend failing must not cancel the
	// other lookup, so each goroutine records its error and returns nil
	var g errgroup.Group
	g.Go(func() error {
		v, err := c.Products.Version(ctx)
		out.Products = v
		if err != nil {
			out.ProductsErr = err.Error()
			logger.FromContext(ctx).Debug("Products version lookup failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		v, err := c.Brands.Version(ctx)
		out.Brands = v
		if err != nil {
			out.BrandsErr = err.Error()
			logger.FromContext(ctx).Debug("Brands version lookup failed", "error", err)
		}
		return nil
	})
	_ = g.Wait()
	return out
}
