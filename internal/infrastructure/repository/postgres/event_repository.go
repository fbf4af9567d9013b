package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

// EventRepository is the worker's write model for interpreted-order events.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) SaveInterpretedEvent(ctx context.Context, event domain.OrderInterpretedEvent) error {
	const query = `
		INSERT INTO intake_events (request_id, status, client_code, client_name, item_count, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		event.RequestID,
		event.Status,
		nullString(event.ClientCode),
		nullString(event.ClientName),
		event.ItemCount,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert intake event: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
