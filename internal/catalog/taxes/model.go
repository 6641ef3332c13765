package taxes

// ID identifies a tax rate, distinct from other entity ids.
type ID int64

// Tax represents a VAT rate (iva) applied to products.
type Tax struct {
	ID          ID      `json:"id_iva"`
	Description string  `json:"descripcion"`
	Percentage  float64 `json:"porcentaje"`
}
