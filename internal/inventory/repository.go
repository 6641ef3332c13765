package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abelheddy/simplepos/internal/catalog/products"
	"github.com/abelheddy/simplepos/internal/platform/db"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

// Repository persists inventory rows in PostgreSQL.
type Repository struct {
	db db.DBTX
}

// NewRepository constructs Repository.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

// Upsert creates or updates the single inventory row for a product as one
// atomic statement. The schema declares UNIQUE(id_producto); the conflict
// clause turns a concurrent duplicate insert into an update, so the
// one-row-per-product invariant holds without application-level locking.
// Location is written only on insert: the DO UPDATE arm deliberately
// leaves ubicacion untouched.
func (r *Repository) Upsert(ctx context.Context, input ReconcileInput) (Record, error) {
	const query = `INSERT INTO inventario (id_producto, cantidad, ubicacion)
VALUES ($1, $2, $3)
ON CONFLICT (id_producto) DO UPDATE SET cantidad = EXCLUDED.cantidad
RETURNING id_inventario, id_producto, cantidad, ubicacion`

	var rec Record
	err := r.db.QueryRow(ctx, query, input.ProductID, input.Quantity, input.Location).
		Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.Location)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Record{}, fmt.Errorf("inventory: upsert: product %d does not exist: %w", input.ProductID, err)
		}
		return Record{}, fmt.Errorf("inventory: upsert for product %d: %w", input.ProductID, err)
	}
	return rec, nil
}

// GetByProduct returns the inventory row for a product.
func (r *Repository) GetByProduct(ctx context.Context, productID products.ID) (Record, error) {
	const query = `SELECT id_inventario, id_producto, cantidad, ubicacion
FROM inventario WHERE id_producto = $1`

	var rec Record
	err := r.db.QueryRow(ctx, query, productID).
		Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, fmt.Errorf("inventory: no row for product %d: %w", productID, httpx.ErrNotFound)
		}
		return Record{}, fmt.Errorf("inventory: get for product %d: %w", productID, err)
	}
	return rec, nil
}

// ListBelow returns active products whose stock is under the threshold.
// Used by the low-stock scan job.
func (r *Repository) ListBelow(ctx context.Context, threshold int64) ([]Record, error) {
	const query = `SELECT i.id_inventario, i.id_producto, i.cantidad, i.ubicacion
FROM inventario i
JOIN productos p ON p.id_producto = i.id_producto
WHERE p.activo AND i.cantidad < $1
ORDER BY i.cantidad`

	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("inventory: list below %d: %w", threshold, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.Location); err != nil {
			return nil, fmt.Errorf("inventory: scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountDuplicates reports products holding more than one inventory row.
// The unique constraint makes this impossible; the integrity sweep keeps
// watching anyway since older deployments predate the constraint.
func (r *Repository) CountDuplicates(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM (
SELECT id_producto FROM inventario GROUP BY id_producto HAVING COUNT(*) > 1
) d`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("inventory: count duplicates: %w", err)
	}
	return count, nil
}
