package pages

import (
	"strconv"

	"github.com/retailcat/catalogadmin/cli/tui/components"
	"github.com/retailcat/catalogadmin/pkg/catalog"
)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func ProductColumns() []components.Column[catalog.Product] {
	return []components.Column[catalog.Product]{
		{Key: "id", Heading: "ID", Width: 6, Sortable: true,
			Value: func(p catalog.Product) any { return p.ID }},
		{Key: "name", Heading: "Name", Width: 24, Sortable: true,
			Value: func(p catalog.Product) any { return p.Name }},
		{Key: "price", Heading: "Price", Width: 12, Align: components.AlignRight, Sortable: true,
			Value:  func(p catalog.Product) any { return p.Price },
			Render: func(p catalog.Product) string { return catalog.FormatCurrency(p.Price) }},
		{Key: "type", Heading: "Type", Width: 10, Sortable: true,
			Value: func(p catalog.Product) any { return string(p.Type) }},
		{Key: "active", Heading: "Active", Width: 6, Align: components.AlignCenter, Sortable: true,
			Value:  func(p catalog.Product) any { return p.Active },
			Render: func(p catalog.Product) string { return yesNo(p.Active) }},
	}
}

func BrandColumns() []components.Column[catalog.Brand] {
	return []components.Column[catalog.Brand]{
		{Key: "id", Heading: "ID", Width: 6, Sortable: true,
			Value: func(b catalog.Brand) any { return b.ID }},
		{Key: "name", Heading: "Name", Width: 30, Sortable: true,
			Value: func(b catalog.Brand) any { return b.Name }},
		{Key: "active", Heading: "Active", Width: 6, Align: components.AlignCenter, Sortable: true,
			Value:  func(b catalog.Brand) any { return b.Active },
			Render: func(b catalog.Brand) string { return yesNo(b.Active) }},
	}
}

func productTypeOptions() []string {
	out := make([]string, len(catalog.ProductTypes))
	for i, t := range catalog.ProductTypes {
		out[i] = string(t)
	}
	return out
}

func ProductFields() []components.FieldSpec[catalog.Product] {
	return []components.FieldSpec[catalog.Product]{
		{Key: "name", Label: "Name",
			Get: func(p catalog.Product) string { return p.Name },
			Set: func(p *catalog.Product, v string) { p.Name = v }},
		{Key: "price", Label: "Price",
			Get: func(p catalog.Product) string {
				if p.Price.IsZero() {
					return ""
				}
				return p.Price.StringFixed(2)
			},
			Set: func(p *catalog.Product, v string) {
				// unparsable input leaves a zero price, which fails validation
				price, err := catalog.ParsePrice(v)
				if err != nil {
					price = catalog.Price{}
				}
				p.Price = price
			}},
		{Key: "type", Label: "Type", Kind: components.FieldChoice, Options: productTypeOptions(),
			Get: func(p catalog.Product) string { return string(p.Type) },
			Set: func(p *catalog.Product, v string) { p.Type = catalog.ProductType(v) }},
		{Key: "active", Label: "Active", Kind: components.FieldToggle,
			Get: func(p catalog.Product) string { return strconv.FormatBool(p.Active) },
			Set: func(p *catalog.Product, v string) { p.Active = v == "true" }},
	}
}

func BrandFields() []components.FieldSpec[catalog.Brand] {
	return []components.FieldSpec[catalog.Brand]{
		{Key: "name", Label: "Name",
			Get: func(b catalog.Brand) string { return b.Name },
			Set: func(b *catalog.Brand, v string) { b.Name = v }},
		{Key: "active", Label: "Active", Kind: components.FieldToggle,
			Get: func(b catalog.Brand) string { return strconv.FormatBool(b.Active) },
			Set: func(b *catalog.Brand, v string) { b.Active = v == "true" }},
	}
}
