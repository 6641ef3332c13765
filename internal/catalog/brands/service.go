package brands

import (
	"context"
	"fmt"
	"strings"

	"github.com/abelheddy/simplepos/internal/catalog/listcache"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

const listCacheKey = "catalog:brands"

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	List(ctx context.Context) ([]Brand, error)
	Create(ctx context.Context, brand Brand) (Brand, error)
	Update(ctx context.Context, id ID, brand Brand) (Brand, error)
	CountProducts(ctx context.Context, id ID) (int64, error)
	Delete(ctx context.Context, id ID) error
}

// Service coordinates brand operations.
type Service struct {
	repo  RepositoryPort
	cache *listcache.Cache
}

// NewService builds Service. cache may be nil.
func NewService(repo RepositoryPort, cache *listcache.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns all brands, served from the cache when warm.
func (s *Service) List(ctx context.Context) ([]Brand, error) {
	return listcache.GetList(ctx, s.cache, listCacheKey, s.repo.List)
}

// Create validates and stores a new brand.
func (s *Service) Create(ctx context.Context, brand Brand) (Brand, error) {
	if err := validate(brand); err != nil {
		return Brand{}, err
	}
	created, err := s.repo.Create(ctx, brand)
	if err != nil {
		return Brand{}, err
	}
	s.cache.Invalidate(ctx, listCacheKey)
	return created, nil
}

// Update validates and rewrites an existing brand.
func (s *Service) Update(ctx context.Context, id ID, brand Brand) (Brand, error) {
	if id <= 0 {
		return Brand{}, fmt.Errorf("brands: invalid id %d: %w", id, httpx.ErrValidation)
	}
	if err := validate(brand); err != nil {
		return Brand{}, err
	}
	updated, err := s.repo.Update(ctx, id, brand)
	if err != nil {
		return Brand{}, err
	}
	s.cache.Invalidate(ctx, listCacheKey)
	return updated, nil
}

// Delete removes a brand. The delete is guarded: a brand referenced by any
// product is left intact and the caller gets a conflict error.
func (s *Service) Delete(ctx context.Context, id ID) error {
	if id <= 0 {
		return fmt.Errorf("brands: invalid id %d: %w", id, httpx.ErrValidation)
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("brands: brand %d has %d associated products: %w", id, count, httpx.ErrConflict)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, listCacheKey)
	return nil
}

func validate(b Brand) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("brands: nombre is required: %w", httpx.ErrValidation)
	}
	return nil
}
