package catalog

// Row is anything a table can render: it only needs a stable identifier.
type Row interface {
	GetID() string
}

// Entity is the set of catalog records this admin manages.
type Entity interface {
	Product | Brand
	Row
	DisplayName() string
}

type ProductType string

const (
	TypeFruit     ProductType = "fruit"
	TypeVegetable ProductType = "vegetable"
	TypeDairy     ProductType = "dairy"
)

// ProductTypes lists the selectable product types in display order.
var ProductTypes = []ProductType{TypeFruit, TypeVegetable, TypeDairy}

type Product struct {
	ID     string      `json:"id,omitempty"`
	Name   string      `json:"name"   validate:"required"`
	Price  Price       `json:"price"  validate:"gt=0"`
	Type   ProductType `json:"type"   validate:"required"`
	Active bool        `json:"active"`
}

func (p Product) GetID() string       { return p.ID }
func (p Product) DisplayName() string { return p.Name }

type Brand struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"   validate:"required"`
	Active bool   `json:"active"`
}

func (b Brand) GetID() string       { return b.ID }
func (b Brand) DisplayName() string { return b.Name }

// IsNew reports whether the entity has not been created on the backend yet.
func IsNew[T Entity](e T) bool {
	return e.GetID() == ""
}
