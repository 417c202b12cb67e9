package entity

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/retailcat/catalogadmin/cli/api"
	"github.com/retailcat/catalogadmin/cli/helpers"
	"github.com/retailcat/catalogadmin/cli/tui/pages"
	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/catalogapi"
)

func ProductsCommand() *cobra.Command {
	return NewCommand(Spec[catalog.Product]{
		Desc:    catalog.Products,
		Client:  func(c *api.Clients) *catalogapi.Client[catalog.Product] { return c.Products },
		Columns: pages.ProductColumns,
		BindFlags: func(fs *pflag.FlagSet) {
			fs.String("name", "", "Product name")
			fs.String("price", "", "Unit price, e.g. 12.50")
			fs.String("type", "", "Product type ("+strings.Join(productTypes(), ", ")+")")
			fs.Bool("active", true, "Whether the product is active")
		},
		ApplyFlags: applyProductFlags,
	})
}

func productTypes() []string {
	out := make([]string, len(catalog.ProductTypes))
	for i, t := range catalog.ProductTypes {
		out[i] = string(t)
	}
	return out
}

func applyProductFlags(fs *pflag.FlagSet, p *catalog.Product) error {
	if fs.Changed("name") {
		p.Name, _ = fs.GetString("name")
	}
	if fs.Changed("price") {
		raw, _ := fs.GetString("price")
		price, err := catalog.ParsePrice(raw)
		if err != nil {
			return helpers.NewCliError("INVALID_FLAG", err.Error())
		}
		p.Price = price
	}
	if fs.Changed("type") {
		raw, _ := fs.GetString("type")
		raw = strings.ToLower(strings.TrimSpace(raw))
		if err := helpers.ValidateEnum(raw, productTypes(), "type"); err != nil {
			return err
		}
		if slices.Contains(productTypes(), raw) {
			p.Type = catalog.ProductType(raw)
		}
	}
	if fs.Changed("active") {
		p.Active, _ = fs.GetBool("active")
	}
	return nil
}

func BrandsCommand() *cobra.Command {
	return NewCommand(Spec[catalog.Brand]{
		Desc:    catalog.Brands,
		Client:  func(c *api.Clients) *catalogapi.Client[catalog.Brand] { return c.Brands },
		Columns: pages.BrandColumns,
		BindFlags: func(fs *pflag.FlagSet) {
			fs.String("name", "", "Brand name")
			fs.Bool("active", true, "Whether the brand is active")
		},
		ApplyFlags: func(fs *pflag.FlagSet, b *catalog.Brand) error {
			if fs.Changed("name") {
				b.Name, _ = fs.GetString("name")
			}
			if fs.Changed("active") {
				b.Active, _ = fs.GetBool("active")
			}
			return nil
		},
	})
}
