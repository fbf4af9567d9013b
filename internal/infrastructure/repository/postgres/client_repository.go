package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetByCode(ctx context.Context, code string) (*domain.Client, error) {
	const query = `
		SELECT client_code, client_name
		FROM clients
		WHERE client_code = $1`

	var client domain.Client
	err := r.db.QueryRowContext(ctx, query, code).Scan(&client.Code, &client.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapError(domain.ErrClientNotFound, "client.get_by_code", fmt.Errorf("code %q", code))
	}
	if err != nil {
		return nil, fmt.Errorf("get client by code: %w", err)
	}
	return &client, nil
}
