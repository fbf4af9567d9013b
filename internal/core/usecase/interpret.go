package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vinbridge/order-intake/internal/core/domain"
	"github.com/vinbridge/order-intake/internal/core/ports"
)

// Interpreter sequences the interpretation engine: preprocess the message,
// resolve the client, parse the line items, delegate SKU resolution, compute
// the delivery date, and render the staff message. Ambiguity terminates in a
// needs_review status, never in an error.
type Interpreter struct {
	pre        *Preprocessor
	parser     *LineItemParser
	resolver   *ClientResolver
	scheduler  *DeliveryScheduler
	aliases    ports.AliasReader
	items      ports.ItemResolver
	translator ports.Translator
	publisher  ports.EventPublisher
	opts       domain.ResolveItemsOptions

	now func() time.Time
}

func NewInterpreter(
	aliases ports.AliasReader,
	clients ports.ClientReader,
	items ports.ItemResolver,
	translator ports.Translator,
	calendar ports.HolidayCalendar,
	publisher ports.EventPublisher,
	opts domain.ResolveItemsOptions,
) *Interpreter {
	return &Interpreter{
		pre:        NewPreprocessor(),
		parser:     NewLineItemParser(),
		resolver:   NewClientResolver(clients),
		scheduler:  NewDeliveryScheduler(calendar),
		aliases:    aliases,
		items:      items,
		translator: translator,
		publisher:  publisher,
		opts:       opts,
		now:        time.Now,
	}
}

func (uc *Interpreter) Interpret(ctx context.Context, req domain.InterpretRequest) (*domain.InterpretResult, error) {
	if strings.TrimSpace(req.Message) == "" &&
		strings.TrimSpace(req.ClientText) == "" &&
		strings.TrimSpace(req.OrderText) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "interpret", errors.New("message is required"))
	}

	debug := map[string]any{}

	message := req.Message
	if uc.translator != nil && message != "" {
		translated, out, err := uc.translator.TranslateToKoreanIfNeeded(ctx, message)
		switch {
		case err != nil:
			// Translation is a best-effort collaborator; the untranslated
			// text is the cold path.
			slog.Warn("translate_failed", "error", err)
		case translated:
			message = out
			debug["translated"] = true
		}
	}

	cleaned := uc.pre.Clean(message)
	clientText, orderText := splitClientOrder(req, cleaned)
	debug["client_text"] = clientText

	aliasRows, err := uc.aliases.ListAliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}

	resolution, err := uc.resolver.Resolve(ctx, clientText, req.ForceResolve, aliasRows)
	if err != nil {
		return nil, fmt.Errorf("resolve client: %w", err)
	}
	if !resolution.Resolved() {
		result := &domain.InterpretResult{
			Status: domain.StatusNeedsReviewClient,
			Client: resolution,
			Debug:  debug,
		}
		uc.publish(ctx, result)
		return result, nil
	}

	report := uc.parser.Parse(uc.pre.Clean(orderText))
	if len(report.Dropped) > 0 {
		debug["dropped_segments"] = report.Dropped
	}

	items, err := uc.resolveItems(ctx, resolution.ClientCode, report.Items)
	if err != nil {
		return nil, fmt.Errorf("resolve items: %w", err)
	}

	status := domain.StatusResolved
	if len(items) == 0 {
		status = domain.StatusNeedsReviewItems
	}
	for _, item := range items {
		if !item.Resolved {
			status = domain.StatusNeedsReviewItems
		}
	}

	label := strings.TrimSpace(req.CustomDeliveryDate)
	if label == "" {
		delivery := uc.scheduler.Schedule(uc.now())
		label = delivery.Label
		debug["delivery_date"] = delivery.Date.Format("2006-01-02")
	}

	result := &domain.InterpretResult{
		Status:       status,
		Client:       resolution,
		ParsedItems:  report.Items,
		Items:        items,
		StaffMessage: renderStaffMessage(resolution, label, req, items),
		Debug:        debug,
	}
	uc.publish(ctx, result)
	return result, nil
}

// splitClientOrder decides whether the message carries a separate client
// line. Explicit fields win; a single-line message, or a first line already
// shaped like an order line, means the whole message is order text.
func splitClientOrder(req domain.InterpretRequest, cleaned string) (clientText, orderText string) {
	if strings.TrimSpace(req.ClientText) != "" || strings.TrimSpace(req.OrderText) != "" {
		clientText = strings.TrimSpace(req.ClientText)
		orderText = strings.TrimSpace(req.OrderText)
		if orderText == "" {
			orderText = cleaned
		}
		return clientText, orderText
	}

	lines := strings.Split(cleaned, "\n")
	if len(lines) <= 1 || looksLikeOrderLine(lines[0]) {
		return "", cleaned
	}
	return lines[0], strings.Join(lines[1:], "\n")
}

func looksLikeOrderLine(line string) bool {
	if strings.ContainsAny(line, "0123456789") {
		return true
	}
	for _, unit := range []string{"병", "박스", "케이스", "보틀", "바틀"} {
		if strings.Contains(line, unit) {
			return true
		}
	}
	return false
}

func (uc *Interpreter) resolveItems(ctx context.Context, clientCode string, parsed []domain.LineItem) ([]domain.ResolvedItem, error) {
	if len(parsed) == 0 {
		return nil, nil
	}
	if uc.items == nil {
		out := make([]domain.ResolvedItem, len(parsed))
		for i, item := range parsed {
			out[i] = domain.ResolvedItem{LineItem: item}
		}
		return out, nil
	}
	return uc.items.ResolveItemsByClient(ctx, clientCode, parsed, uc.opts)
}

func renderStaffMessage(client domain.ClientResolution, deliveryLabel string, req domain.InterpretRequest, items []domain.ResolvedItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", client.ClientName, client.ClientCode)
	fmt.Fprintf(&b, "%s 출고\n", deliveryLabel)
	if req.RequirePaymentCheck {
		b.WriteString("입금확인후 출고\n")
	}
	if req.RequireInvoice {
		b.WriteString("거래명세표 부탁드립니다\n")
	}
	for _, item := range items {
		if item.Resolved {
			fmt.Fprintf(&b, "- %s / %s / %d병\n", item.SKUCode, item.SKUName, item.Quantity)
		} else {
			fmt.Fprintf(&b, "- 확인필요 / %q / %d병\n", item.Name, item.Quantity)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (uc *Interpreter) publish(ctx context.Context, result *domain.InterpretResult) {
	if uc.publisher == nil {
		return
	}
	event := domain.OrderInterpretedEvent{
		RequestID:  uuid.NewString(),
		Status:     result.Status,
		ClientCode: result.Client.ClientCode,
		ClientName: result.Client.ClientName,
		ItemCount:  len(result.ParsedItems),
		OccurredAt: uc.now().UTC(),
	}
	if err := uc.publisher.PublishOrderInterpreted(ctx, event); err != nil {
		slog.Warn("publish_order_interpreted_failed", "error", err, "status", string(result.Status))
	}
}
