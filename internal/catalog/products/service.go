package products

import (
	"context"
	"fmt"

	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	List(ctx context.Context, includeInactive bool) ([]Product, error)
	Get(ctx context.Context, id ID) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id ID, p Product) (Product, error)
	Deactivate(ctx context.Context, id ID) error
	CountInventory(ctx context.Context, id ID) (int64, error)
	Purge(ctx context.Context, id ID) error
}

// Service coordinates product operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]Product, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *Service) Get(ctx context.Context, id ID) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("products: invalid id %d: %w", id, httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new product. The inventory row is not
// created here; setting initial stock is a separate reconcile step.
func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if err := Validate(p); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, p)
}

// Update validates and rewrites an existing product. Stock changes are
// again a separate reconcile step.
func (s *Service) Update(ctx context.Context, id ID, p Product) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("products: invalid id %d: %w", id, httpx.ErrValidation)
	}
	if err := Validate(p); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, p)
}

// Deactivate flips the activo flag. The row and its inventory survive.
func (s *Service) Deactivate(ctx context.Context, id ID) error {
	if id <= 0 {
		return fmt.Errorf("products: invalid id %d: %w", id, httpx.ErrValidation)
	}
	return s.repo.Deactivate(ctx, id)
}

// Purge hard-deletes a product. Refused while an inventory row still
// references it; deactivation is the documented path for retiring products.
func (s *Service) Purge(ctx context.Context, id ID) error {
	if id <= 0 {
		return fmt.Errorf("products: invalid id %d: %w", id, httpx.ErrValidation)
	}
	count, err := s.repo.CountInventory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("products: product %d still has inventory: %w", id, httpx.ErrConflict)
	}
	return s.repo.Purge(ctx, id)
}
