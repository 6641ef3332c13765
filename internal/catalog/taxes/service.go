package taxes

import (
	"context"
	"fmt"
	"strings"

	"github.com/abelheddy/simplepos/internal/catalog/listcache"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

const listCacheKey = "catalog:taxes"

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	List(ctx context.Context) ([]Tax, error)
	Create(ctx context.Context, tax Tax) (Tax, error)
	Update(ctx context.Context, id ID, tax Tax) (Tax, error)
	CountProducts(ctx context.Context, id ID) (int64, error)
	Delete(ctx context.Context, id ID) error
}

// Service coordinates tax rate operations.
type Service struct {
	repo  RepositoryPort
	cache *listcache.Cache
}

// NewService builds Service. cache may be nil.
func NewService(repo RepositoryPort, cache *listcache.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) List(ctx context.Context) ([]Tax, error) {
	return listcache.GetList(ctx, s.cache, listCacheKey, s.repo.List)
}

func (s *Service) Create(ctx context.Context, tax Tax) (Tax, error) {
	if err := validate(tax); err != nil {
		return Tax{}, err
	}
	created, err := s.repo.Create(ctx, tax)
	if err != nil {
		return Tax{}, err
	}
	s.cache.Invalidate(ctx, listCacheKey)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id ID, tax Tax) (Tax, error) {
	if id <= 0 {
		return Tax{}, fmt.Errorf("taxes: invalid id %d: %w", id, httpx.ErrValidation)
	}
	if err := validate(tax); err != nil {
		return Tax{}, err
	}
	updated, err := s.repo.Update(ctx, id, tax)
	if err != nil {
		return Tax{}, err
	}
	s.cache.Invalidate(ctx, listCacheKey)
	return updated, nil
}

// Delete refuses to remove a tax rate that any product still references.
func (s *Service) Delete(ctx context.Context, id ID) error {
	if id <= 0 {
		return fmt.Errorf("taxes: invalid id %d: %w", id, httpx.ErrValidation)
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("taxes: tax rate %d has %d associated products: %w", id, count, httpx.ErrConflict)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, listCacheKey)
	return nil
}

func validate(t Tax) error {
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("taxes: descripcion is required: %w", httpx.ErrValidation)
	}
	if t.Percentage < 0 {
		return fmt.Errorf("taxes: porcentaje must be >= 0: %w", httpx.ErrValidation)
	}
	return nil
}
