package lifecycle

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abelheddy/simplepos/internal/catalog/products"
	"github.com/abelheddy/simplepos/internal/inventory"
	"github.com/abelheddy/simplepos/internal/platform/db"
)

// Repository implements AtomicStore on PostgreSQL by binding the product
// and inventory repositories to one transaction.
type Repository struct {
	pool      *pgxpool.Pool
	products  *products.Repository
	inventory *inventory.Repository
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool, productRepo *products.Repository, inventoryRepo *inventory.Repository) *Repository {
	return &Repository{pool: pool, products: productRepo, inventory: inventoryRepo}
}

// CreateWithStock inserts the product and upserts its inventory row in a
// single transaction. A failure in either write rolls back both.
func (r *Repository) CreateWithStock(ctx context.Context, p products.Product, quantity int64, location string) (products.Product, inventory.Record, error) {
	var (
		created products.Product
		rec     inventory.Record
	)
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		created, err = r.products.WithTx(tx).Create(ctx, p)
		if err != nil {
			return err
		}
		rec, err = r.inventory.WithTx(tx).Upsert(ctx, inventory.ReconcileInput{
			ProductID: created.ID,
			Quantity:  quantity,
			Location:  location,
		})
		return err
	})
	if err != nil {
		return products.Product{}, inventory.Record{}, err
	}
	return created, rec, nil
}
