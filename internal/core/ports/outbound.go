package ports

import (
	"context"
	"time"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

type AliasReader interface {
	ListAliases(ctx context.Context) ([]domain.AliasRow, error)
}

type ClientReader interface {
	GetByCode(ctx context.Context, code string) (*domain.Client, error)
}

type ProductReader interface {
	ListByClient(ctx context.Context, clientCode string) ([]domain.ProductRow, error)
}

// ItemResolver maps parsed line items to concrete SKUs for one client.
type ItemResolver interface {
	ResolveItemsByClient(ctx context.Context, clientCode string, items []domain.LineItem, opts domain.ResolveItemsOptions) ([]domain.ResolvedItem, error)
}

// Translator rewrites a non-Korean message into Korean when needed. A nil
// Translator means the cold path: the raw text is used as-is.
type Translator interface {
	TranslateToKoreanIfNeeded(ctx context.Context, text string) (translated bool, out string, err error)
}

type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

type EventPublisher interface {
	PublishOrderInterpreted(ctx context.Context, event domain.OrderInterpretedEvent) error
}
