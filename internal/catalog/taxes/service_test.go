package taxes

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

type memoryRepo struct {
	taxes         map[ID]Tax
	nextID        ID
	productCounts map[ID]int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{taxes: make(map[ID]Tax), productCounts: make(map[ID]int64)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Tax, error) {
	out := make([]Tax, 0, len(r.taxes))
	for _, t := range r.taxes {
		out = append(out, t)
	}
	return out, nil
}

func (r *memoryRepo) Create(ctx context.Context, tax Tax) (Tax, error) {
	r.nextID++
	tax.ID = r.nextID
	r.taxes[tax.ID] = tax
	return tax, nil
}

func (r *memoryRepo) Update(ctx context.Context, id ID, tax Tax) (Tax, error) {
	if _, ok := r.taxes[id]; !ok {
		return Tax{}, fmt.Errorf("taxes: id %d: %w", id, httpx.ErrNotFound)
	}
	tax.ID = id
	r.taxes[id] = tax
	return tax, nil
}

func (r *memoryRepo) CountProducts(ctx context.Context, id ID) (int64, error) {
	return r.productCounts[id], nil
}

func (r *memoryRepo) Delete(ctx context.Context, id ID) error {
	if _, ok := r.taxes[id]; !ok {
		return fmt.Errorf("taxes: id %d: %w", id, httpx.ErrNotFound)
	}
	delete(r.taxes, id)
	return nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, Tax{Description: "", Percentage: 16})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, Tax{Description: "IVA", Percentage: -1})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateAcceptsZeroPercentage(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	created, err := svc.Create(context.Background(), Tax{Description: "Exento", Percentage: 0})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Zero(t, created.Percentage)
}

func TestUpdateNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Update(context.Background(), 12, Tax{Description: "IVA", Percentage: 16})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteGuardedWhenReferenced(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, Tax{Description: "IVA", Percentage: 16})
	require.NoError(t, err)
	repo.productCounts[created.ID] = 2

	err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Contains(t, repo.taxes, created.ID)
}

func TestDeleteUnreferenced(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, Tax{Description: "IVA", Percentage: 16})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NotContains(t, repo.taxes, created.ID)
}
