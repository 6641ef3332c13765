package brands

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abelheddy/simplepos/internal/platform/db"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

// Repository persists brands in PostgreSQL.
type Repository struct {
	db db.DBTX
}

// NewRepository constructs Repository.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// List returns all brands with the number of products referencing each.
func (r *Repository) List(ctx context.Context) ([]Brand, error) {
	const query = `SELECT m.id_marca, m.nombre, m.descripcion, COUNT(p.id_producto) AS product_count
FROM marcas m
LEFT JOIN productos p ON m.id_marca = p.id_marca
GROUP BY m.id_marca
ORDER BY m.id_marca`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("brands: list: %w", err)
	}
	defer rows.Close()

	var out []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.ProductCount); err != nil {
			return nil, fmt.Errorf("brands: scan: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Create inserts a brand and returns the stored row.
func (r *Repository) Create(ctx context.Context, brand Brand) (Brand, error) {
	const query = `INSERT INTO marcas (nombre, descripcion) VALUES ($1, $2)
RETURNING id_marca, nombre, descripcion`

	var b Brand
	err := r.db.QueryRow(ctx, query, brand.Name, brand.Description).
		Scan(&b.ID, &b.Name, &b.Description)
	if err != nil {
		return Brand{}, fmt.Errorf("brands: create %q: %w", brand.Name, err)
	}
	return b, nil
}

// Update rewrites name and description of an existing brand.
func (r *Repository) Update(ctx context.Context, id ID, brand Brand) (Brand, error) {
	const query = `UPDATE marcas SET nombre = $1, descripcion = $2 WHERE id_marca = $3
RETURNING id_marca, nombre, descripcion`

	var b Brand
	err := r.db.QueryRow(ctx, query, brand.Name, brand.Description, id).
		Scan(&b.ID, &b.Name, &b.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Brand{}, fmt.Errorf("brands: update %d: %w", id, httpx.ErrNotFound)
		}
		return Brand{}, fmt.Errorf("brands: update %d: %w", id, err)
	}
	return b, nil
}

// CountProducts returns how many products reference the brand.
func (r *Repository) CountProducts(ctx context.Context, id ID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM productos WHERE id_marca = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("brands: count products for %d: %w", id, err)
	}
	return count, nil
}

// Delete removes the brand row.
func (r *Repository) Delete(ctx context.Context, id ID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM marcas WHERE id_marca = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("brands: delete %d: brand has associated products: %w", id, httpx.ErrConflict)
		}
		return fmt.Errorf("brands: delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("brands: delete %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
