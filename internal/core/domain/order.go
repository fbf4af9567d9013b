package domain

import "time"

// LineItem is one parsed order line. Quantity is never a value that was also
// recognized as a 4-digit vintage year for the same line.
type LineItem struct {
	RawLine     string `json:"rawLine"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	VintageHint string `json:"vintageHint,omitempty"`
}

type ItemSuggestion struct {
	SKUCode string  `json:"sku_code"`
	SKUName string  `json:"sku_name"`
	Score   float64 `json:"score"`
}

// ResolvedItem is a line item after the downstream SKU-resolution step.
// When Resolved is false, Suggestions carries up to 3 ranked alternatives.
type ResolvedItem struct {
	LineItem
	Resolved    bool             `json:"resolved"`
	SKUCode     string           `json:"sku_code,omitempty"`
	SKUName     string           `json:"sku_name,omitempty"`
	Suggestions []ItemSuggestion `json:"suggestions,omitempty"`
}

type ResolveItemsOptions struct {
	MinScore float64
	MinGap   float64
	TopN     int
}

type DeliveryDate struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

type InterpretRequest struct {
	Message             string `json:"message"`
	ClientText          string `json:"clientText,omitempty"`
	OrderText           string `json:"orderText,omitempty"`
	ForceResolve        bool   `json:"force_resolve,omitempty"`
	CustomDeliveryDate  string `json:"customDeliveryDate,omitempty"`
	RequirePaymentCheck bool   `json:"requirePaymentConfirm,omitempty"`
	RequireInvoice      bool   `json:"requireInvoice,omitempty"`
}

type InterpretResult struct {
	Status       ResolutionStatus `json:"status"`
	Client       ClientResolution `json:"client"`
	ParsedItems  []LineItem       `json:"parsed_items"`
	Items        []ResolvedItem   `json:"items"`
	StaffMessage string           `json:"staff_message"`
	Debug        map[string]any   `json:"debug,omitempty"`
}

// OrderInterpretedEvent is the best-effort notification published after each
// interpretation for the back-office dashboards.
type OrderInterpretedEvent struct {
	RequestID  string           `json:"request_id"`
	Status     ResolutionStatus `json:"status"`
	ClientCode string           `json:"client_code,omitempty"`
	ClientName string           `json:"client_name,omitempty"`
	ItemCount  int              `json:"item_count"`
	OccurredAt time.Time        `json:"occurred_at"`
}
