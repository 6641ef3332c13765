package products

import (
	"github.com/abelheddy/simplepos/internal/catalog/brands"
	"github.com/abelheddy/simplepos/internal/catalog/taxes"
)

// ID identifies a product. Distinct from brand and tax ids so the compiler
// rejects a brand id where a product id is expected.
type ID int64

// Product represents a sellable product. JSON field names follow the
// original API wire format.
type Product struct {
	ID            ID        `json:"id_producto"`
	Name          string    `json:"nombre"`
	Description   string    `json:"descripcion"`
	Model         string    `json:"modelo"`
	PurchasePrice float64   `json:"precio_compra"`
	SalePrice     float64   `json:"precio_venta"`
	SKU           string    `json:"sku"`
	Barcode       string    `json:"codigo_barras"`
	BrandID       brands.ID `json:"id_marca"`
	TaxID         taxes.ID  `json:"id_iva"`
	Active        bool      `json:"activo"`
}
