package brands

// ID identifies a brand. Kept distinct from other entity ids so a brand id
// cannot be passed where a product or tax id is expected.
type ID int64

// Brand represents a product brand (marca). JSON field names follow the
// original API wire format.
type Brand struct {
	ID          ID     `json:"id_marca"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	// ProductCount is populated by List only.
	ProductCount int64 `json:"product_count"`
}
