package inventory

import (
	"context"
	"fmt"

	"github.com/abelheddy/simplepos/internal/catalog/products"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	Upsert(ctx context.Context, input ReconcileInput) (Record, error)
	GetByProduct(ctx context.Context, productID products.ID) (Record, error)
}

// Service is the inventory reconciler. It guarantees at most one inventory
// row per product across every write path that sets stock.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Reconcile creates or updates the inventory row for a product. Quantity
// must be >= 0; nothing reaches the store when validation fails. The write
// itself is a single conditional upsert, so two concurrent calls for the
// same new product still leave exactly one row, holding whichever quantity
// won the race.
func (s *Service) Reconcile(ctx context.Context, input ReconcileInput) (Record, error) {
	if input.ProductID <= 0 {
		return Record{}, fmt.Errorf("inventory: invalid product id %d: %w", input.ProductID, httpx.ErrValidation)
	}
	if input.Quantity < 0 {
		return Record{}, fmt.Errorf("inventory: cantidad must be >= 0: %w", httpx.ErrValidation)
	}
	if input.Location == "" {
		input.Location = DefaultLocation
	}
	return s.repo.Upsert(ctx, input)
}

// Get returns the inventory row for a product.
func (s *Service) Get(ctx context.Context, productID products.ID) (Record, error) {
	if productID <= 0 {
		return Record{}, fmt.Errorf("inventory: invalid product id %d: %w", productID, httpx.ErrValidation)
	}
	return s.repo.GetByProduct(ctx, productID)
}
