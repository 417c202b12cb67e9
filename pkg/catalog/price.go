package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Price is a monetary amount serialized as a bare JSON number with two decimals.
type Price struct {
	decimal.Decimal
}

func NewPrice(v float64) Price {
	return Price{decimal.NewFromFloat(v).Round(2)}
}

// ParsePrice parses user input such as "12.5" or "$1,234.50".
func ParsePrice(s string) (Price, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return Price{}, nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return Price{d.Round(2)}, nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.StringFixed(2)), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		p.Decimal = decimal.Zero
		return nil
	}
	return p.Decimal.UnmarshalJSON(data)
}

// Float64 returns the nearest float value, used by field validation.
func (p Price) Float64() float64 {
	f, _ := p.Decimal.Float64()
	return f
}

var currencyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders a price the way the storefront does: $1,234.50 or -$100.00.
func FormatCurrency(p Price) string {
	amount := p.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	f, _ := amount.Float64()
	return sign + "$" + currencyPrinter.Sprint(number.Decimal(f, number.Scale(2)))
}
