package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abelheddy/simplepos/internal/catalog/products"
	"github.com/abelheddy/simplepos/internal/inventory"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

type fakeProducts struct {
	createErr   error
	updateErr   error
	createCalls int
}

func (f *fakeProducts) Create(ctx context.Context, p products.Product) (products.Product, error) {
	f.createCalls++
	if f.createErr != nil {
		return products.Product{}, f.createErr
	}
	p.ID = 1
	p.Active = true
	return p, nil
}

func (f *fakeProducts) Update(ctx context.Context, id products.ID, p products.Product) (products.Product, error) {
	if f.updateErr != nil {
		return products.Product{}, f.updateErr
	}
	p.ID = id
	return p, nil
}

type fakeStock struct {
	err   error
	calls int
	last  inventory.ReconcileInput
}

func (f *fakeStock) Reconcile(ctx context.Context, input inventory.ReconcileInput) (inventory.Record, error) {
	f.calls++
	f.last = input
	if f.err != nil {
		return inventory.Record{}, f.err
	}
	return inventory.Record{
		ID:        7,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Location:  input.Location,
	}, nil
}

// fakeAtomic commits both rows or neither, like the transactional store.
type fakeAtomic struct {
	failStock bool
	committed bool
	location  string
}

func (f *fakeAtomic) CreateWithStock(ctx context.Context, p products.Product, quantity int64, location string) (products.Product, inventory.Record, error) {
	if f.failStock {
		return products.Product{}, inventory.Record{}, fmt.Errorf("lifecycle: insert inventory: %w", errors.New("connection reset"))
	}
	f.committed = true
	f.location = location
	p.ID = 3
	p.Active = true
	return p, inventory.Record{ID: 4, ProductID: p.ID, Quantity: quantity, Location: location}, nil
}

func validProduct() products.Product {
	return products.Product{
		Name:          "Mouse",
		Model:         "M-10",
		SKU:           "MS-10",
		PurchasePrice: 5,
		SalePrice:     9,
	}
}

func TestCreateProductWrapsStepError(t *testing.T) {
	prods := &fakeProducts{createErr: fmt.Errorf("duplicate: %w", httpx.ErrConflict)}
	coord := NewCoordinator(prods, &fakeStock{}, &fakeAtomic{})

	_, err := coord.CreateProduct(context.Background(), validProduct())

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, StepProduct, stepErr.Step)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestSetStockWrapsStepError(t *testing.T) {
	stock := &fakeStock{err: errors.New("connection reset")}
	coord := NewCoordinator(&fakeProducts{}, stock, &fakeAtomic{})

	_, err := coord.SetStock(context.Background(), 1, 10, "")

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, StepStock, stepErr.Step)
}

func TestStockFailureLeavesProductAndRetriesStockOnly(t *testing.T) {
	prods := &fakeProducts{}
	stock := &fakeStock{err: errors.New("connection reset")}
	coord := NewCoordinator(prods, stock, &fakeAtomic{})
	ctx := context.Background()

	created, err := coord.CreateProduct(ctx, validProduct())
	require.NoError(t, err)

	_, err = coord.SetStock(ctx, created.ID, 10, "")
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, StepStock, stepErr.Step)

	// Retry only the stock step. The product write never runs again.
	stock.err = nil
	rec, err := coord.SetStock(ctx, created.ID, 10, "")
	require.NoError(t, err)
	require.Equal(t, created.ID, rec.ProductID)
	require.Equal(t, 1, prods.createCalls)
	require.Equal(t, 2, stock.calls)
}

func TestCreateWithStockValidatesBeforeStore(t *testing.T) {
	atomic := &fakeAtomic{}
	coord := NewCoordinator(&fakeProducts{}, &fakeStock{}, atomic)
	ctx := context.Background()

	p := validProduct()
	p.SKU = ""
	_, _, err := coord.CreateWithStock(ctx, p, 10, "")
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, _, err = coord.CreateWithStock(ctx, validProduct(), -1, "")
	require.ErrorIs(t, err, httpx.ErrValidation)

	require.False(t, atomic.committed)
}

func TestCreateWithStockDefaultsLocation(t *testing.T) {
	atomic := &fakeAtomic{}
	coord := NewCoordinator(&fakeProducts{}, &fakeStock{}, atomic)

	created, rec, err := coord.CreateWithStock(context.Background(), validProduct(), 12, "")
	require.NoError(t, err)
	require.Equal(t, created.ID, rec.ProductID)
	require.EqualValues(t, 12, rec.Quantity)
	require.Equal(t, inventory.DefaultLocation, atomic.location)
}

func TestCreateWithStockNoPartialState(t *testing.T) {
	atomic := &fakeAtomic{failStock: true}
	coord := NewCoordinator(&fakeProducts{}, &fakeStock{}, atomic)

	_, _, err := coord.CreateWithStock(context.Background(), validProduct(), 5, "")
	require.Error(t, err)
	require.False(t, atomic.committed)
}
