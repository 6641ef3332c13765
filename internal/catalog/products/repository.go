package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abelheddy/simplepos/internal/platform/db"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

const productColumns = `id_producto, nombre, descripcion, modelo, precio_compra, precio_venta, sku, codigo_barras, id_marca, id_iva, activo`

// Repository persists products in PostgreSQL.
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

// List returns products, optionally including deactivated ones.
func (r *Repository) List(ctx context.Context, includeInactive bool) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos`
	if !includeInactive {
		query += ` WHERE activo`
	}
	query += ` ORDER BY id_producto`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("products: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns a single product by id.
func (r *Repository) Get(ctx context.Context, id ID) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM productos WHERE id_producto = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("products: get %d: %w", id, httpx.ErrNotFound)
		}
		return Product{}, fmt.Errorf("products: get %d: %w", id, err)
	}
	return p, nil
}

// Create inserts a product and returns the stored row.
func (r *Repository) Create(ctx context.Context, p Product) (Product, error) {
	const query = `INSERT INTO productos (nombre, descripcion, modelo, precio_compra, precio_venta, sku, codigo_barras, id_marca, id_iva, activo)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + productColumns

	row := r.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Model, p.PurchasePrice, p.SalePrice,
		p.SKU, p.Barcode, p.BrandID, p.TaxID, true)
	created, err := scanProduct(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Product{}, fmt.Errorf("products: create: sku %q already exists: %w", p.SKU, httpx.ErrConflict)
		}
		return Product{}, fmt.Errorf("products: create %q: %w", p.SKU, err)
	}
	return created, nil
}

// Update rewrites an existing product by id.
func (r *Repository) Update(ctx context.Context, id ID, p Product) (Product, error) {
	const query = `UPDATE productos SET nombre = $1, descripcion = $2, modelo = $3, precio_compra = $4, precio_venta = $5, sku = $6, codigo_barras = $7, id_marca = $8, id_iva = $9
WHERE id_producto = $10
RETURNING ` + productColumns

	row := r.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Model, p.PurchasePrice, p.SalePrice,
		p.SKU, p.Barcode, p.BrandID, p.TaxID, id)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("products: update %d: %w", id, httpx.ErrNotFound)
		}
		if db.IsUniqueViolation(err) {
			return Product{}, fmt.Errorf("products: update %d: sku %q already exists: %w", id, p.SKU, httpx.ErrConflict)
		}
		return Product{}, fmt.Errorf("products: update %d: %w", id, err)
	}
	return updated, nil
}

// Deactivate flips the activo flag, the documented soft-delete path.
func (r *Repository) Deactivate(ctx context.Context, id ID) error {
	tag, err := r.db.Exec(ctx, `UPDATE productos SET activo = false WHERE id_producto = $1`, id)
	if err != nil {
		return fmt.Errorf("products: deactivate %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("products: deactivate %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

// CountInventory returns how many inventory rows reference the product.
func (r *Repository) CountInventory(ctx context.Context, id ID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventario WHERE id_producto = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("products: count inventory for %d: %w", id, err)
	}
	return count, nil
}

// Purge hard-deletes the product row.
func (r *Repository) Purge(ctx context.Context, id ID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM productos WHERE id_producto = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("products: purge %d: product is still referenced: %w", id, httpx.ErrConflict)
		}
		return fmt.Errorf("products: purge %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("products: purge %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Model, &p.PurchasePrice,
		&p.SalePrice, &p.SKU, &p.Barcode, &p.BrandID, &p.TaxID, &p.Active)
	return p, err
}
