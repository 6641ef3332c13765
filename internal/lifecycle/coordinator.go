// Package lifecycle keeps a product and its inventory row logically
// consistent. The original client drives product creation and stock
// setting as two independent HTTP calls; the coordinator models them as
// two explicit, separately retryable steps with distinguishable error
// kinds, and also offers a single-transaction variant that removes the
// inconsistency window entirely.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/abelheddy/simplepos/internal/catalog/products"
	"github.com/abelheddy/simplepos/internal/inventory"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

// Step identifies which half of the product+stock flow an error came from.
type Step string

const (
	// StepProduct is the product row write.
	StepProduct Step = "product"
	// StepStock is the inventory reconcile write. When this step fails
	// after StepProduct succeeded, the caller retries only this step and
	// must not re-create the product.
	StepStock Step = "stock"
)

// StepError wraps a failure with the step it belongs to.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("lifecycle: %s step: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ProductService is the coordinator's view of product operations.
type ProductService interface {
	Create(ctx context.Context, p products.Product) (products.Product, error)
	Update(ctx context.Context, id products.ID, p products.Product) (products.Product, error)
}

// StockService is the coordinator's view of the inventory reconciler.
type StockService interface {
	Reconcile(ctx context.Context, input inventory.ReconcileInput) (inventory.Record, error)
}

// AtomicStore runs the product insert and the inventory upsert inside one
// store transaction.
type AtomicStore interface {
	CreateWithStock(ctx context.Context, p products.Product, quantity int64, location string) (products.Product, inventory.Record, error)
}

// Coordinator orchestrates the product+inventory pair.
type Coordinator struct {
	products ProductService
	stock    StockService
	atomic   AtomicStore
}

// NewCoordinator builds Coordinator.
func NewCoordinator(productSvc ProductService, stockSvc StockService, atomic AtomicStore) *Coordinator {
	return &Coordinator{products: productSvc, stock: stockSvc, atomic: atomic}
}

// CreateProduct performs the product step of the saga. The inventory row
// is a follow-up SetStock call with the returned id.
func (c *Coordinator) CreateProduct(ctx context.Context, p products.Product) (products.Product, error) {
	created, err := c.products.Create(ctx, p)
	if err != nil {
		return products.Product{}, &StepError{Step: StepProduct, Err: err}
	}
	return created, nil
}

// UpdateProduct performs the product step of the edit saga.
func (c *Coordinator) UpdateProduct(ctx context.Context, id products.ID, p products.Product) (products.Product, error) {
	updated, err := c.products.Update(ctx, id, p)
	if err != nil {
		return products.Product{}, &StepError{Step: StepProduct, Err: err}
	}
	return updated, nil
}

// SetStock performs the stock step of the saga, delegating to the
// reconciler. Safe to retry: the reconcile is idempotent.
func (c *Coordinator) SetStock(ctx context.Context, productID products.ID, quantity int64, location string) (inventory.Record, error) {
	rec, err := c.stock.Reconcile(ctx, inventory.ReconcileInput{
		ProductID: productID,
		Quantity:  quantity,
		Location:  location,
	})
	if err != nil {
		return inventory.Record{}, &StepError{Step: StepStock, Err: err}
	}
	return rec, nil
}

// CreateWithStock writes product and inventory in one transaction. On any
// failure neither row is committed, so there is no partial state to retry.
func (c *Coordinator) CreateWithStock(ctx context.Context, p products.Product, quantity int64, location string) (products.Product, inventory.Record, error) {
	if err := products.Validate(p); err != nil {
		return products.Product{}, inventory.Record{}, err
	}
	if quantity < 0 {
		return products.Product{}, inventory.Record{}, fmt.Errorf("lifecycle: stock must be >= 0: %w", httpx.ErrValidation)
	}
	if location == "" {
		location = inventory.DefaultLocation
	}
	return c.atomic.CreateWithStock(ctx, p, quantity, location)
}
