package inventory

import (
	"github.com/abelheddy/simplepos/internal/catalog/products"
)

// ID identifies an inventory row.
type ID int64

// DefaultLocation is assigned when a row is first created without an
// explicit location. Updates never change the stored location.
const DefaultLocation = "main warehouse"

// Record is the single stock row kept per product.
type Record struct {
	ID        ID          `json:"id_inventario"`
	ProductID products.ID `json:"id_producto"`
	Quantity  int64       `json:"cantidad"`
	Location  string      `json:"ubicacion"`
}

// ReconcileInput describes a request to set a product's stock.
type ReconcileInput struct {
	ProductID products.ID
	Quantity  int64
	// Location is only honoured when the row does not exist yet.
	Location string
}
