package products

import (
	"fmt"
	"strings"

	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

// Validate checks the fields every product write must satisfy.
func Validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("products: nombre is required: %w", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Model) == "" {
		return fmt.Errorf("products: modelo is required: %w", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("products: sku is required: %w", httpx.ErrValidation)
	}
	if p.PurchasePrice < 0 {
		return fmt.Errorf("products: precio_compra must be >= 0: %w", httpx.ErrValidation)
	}
	if p.SalePrice < 0 {
		return fmt.Errorf("products: precio_venta must be >= 0: %w", httpx.ErrValidation)
	}
	return nil
}
