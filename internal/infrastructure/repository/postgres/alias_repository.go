package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

// AliasRepository loads the client alias read model used by the resolver.
type AliasRepository struct {
	db *sql.DB
}

func NewAliasRepository(db *sql.DB) *AliasRepository {
	return &AliasRepository{db: db}
}

func (r *AliasRepository) ListAliases(ctx context.Context) ([]domain.AliasRow, error) {
	const query = `
		SELECT a.client_code, a.alias, a.weight
		FROM client_aliases a
		ORDER BY a.client_code, a.alias`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	defer rows.Close()

	var out []domain.AliasRow
	for rows.Next() {
		var row domain.AliasRow
		if err := rows.Scan(&row.ClientCode, &row.Alias, &row.Weight); err != nil {
			return nil, fmt.Errorf("scan alias row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alias rows: %w", err)
	}
	return out, nil
}
