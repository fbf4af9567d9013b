package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

// ProductRepository loads the per-client product catalog used for SKU matching.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) ListByClient(ctx context.Context, clientCode string) ([]domain.ProductRow, error) {
	const query = `
		SELECT p.sku_code, p.sku_name, cp.weight
		FROM client_products cp
		JOIN products p ON p.sku_code = cp.sku_code
		WHERE cp.client_code = $1
		ORDER BY cp.weight DESC, p.sku_code`

	rows, err := r.db.QueryContext(ctx, query, clientCode)
	if err != nil {
		return nil, fmt.Errorf("list client products: %w", err)
	}
	defer rows.Close()

	var out []domain.ProductRow
	for rows.Next() {
		var row domain.ProductRow
		if err := rows.Scan(&row.SKUCode, &row.SKUName, &row.Weight); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return out, nil
}
