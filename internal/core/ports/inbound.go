package ports

import (
	"context"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

// OrderInterpreter is the inbound contract for chat-order interpretation.
type OrderInterpreter interface {
	Interpret(ctx context.Context, req domain.InterpretRequest) (*domain.InterpretResult, error)
}
