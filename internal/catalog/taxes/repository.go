package taxes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abelheddy/simplepos/internal/platform/db"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

// Repository persists tax rates in PostgreSQL.
type Repository struct {
	db db.DBTX
}

// NewRepository constructs Repository.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) List(ctx context.Context) ([]Tax, error) {
	const query = `SELECT id_iva, descripcion, porcentaje FROM ivas ORDER BY id_iva`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("taxes: list: %w", err)
	}
	defer rows.Close()

	var out []Tax
	for rows.Next() {
		var t Tax
		if err := rows.Scan(&t.ID, &t.Description, &t.Percentage); err != nil {
			return nil, fmt.Errorf("taxes: scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, tax Tax) (Tax, error) {
	const query = `INSERT INTO ivas (descripcion, porcentaje) VALUES ($1, $2)
RETURNING id_iva, descripcion, porcentaje`

	var t Tax
	err := r.db.QueryRow(ctx, query, tax.Description, tax.Percentage).
		Scan(&t.ID, &t.Description, &t.Percentage)
	if err != nil {
		return Tax{}, fmt.Errorf("taxes: create %q: %w", tax.Description, err)
	}
	return t, nil
}

func (r *Repository) Update(ctx context.Context, id ID, tax Tax) (Tax, error) {
	const query = `UPDATE ivas SET descripcion = $1, porcentaje = $2 WHERE id_iva = $3
RETURNING id_iva, descripcion, porcentaje`

	var t Tax
	err := r.db.QueryRow(ctx, query, tax.Description, tax.Percentage, id).
		Scan(&t.ID, &t.Description, &t.Percentage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tax{}, fmt.Errorf("taxes: update %d: %w", id, httpx.ErrNotFound)
		}
		return Tax{}, fmt.Errorf("taxes: update %d: %w", id, err)
	}
	return t, nil
}

// CountProducts returns how many products reference the tax rate.
func (r *Repository) CountProducts(ctx context.Context, id ID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM productos WHERE id_iva = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("taxes: count products for %d: %w", id, err)
	}
	return count, nil
}

func (r *Repository) Delete(ctx context.Context, id ID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ivas WHERE id_iva = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("taxes: delete %d: tax rate has associated products: %w", id, httpx.ErrConflict)
		}
		return fmt.Errorf("taxes: delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taxes: delete %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
