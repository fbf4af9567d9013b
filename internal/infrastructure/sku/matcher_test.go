package sku

import (
	"context"
	"testing"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

type productReaderFake struct {
	rows []domain.ProductRow
	err  error
}

func (f *productReaderFake) ListByClient(ctx context.Context, clientCode string) ([]domain.ProductRow, error) {
	return f.rows, f.err
}

func TestMatcherResolvesExactName(t *testing.T) {
	matcher := NewMatcher(&productReaderFake{rows: []domain.ProductRow{
		{SKUCode: "W-0042", SKUName: "샤또 마르고", Weight: 1},
		{SKUCode: "W-0107", SKUName: "끌로 뒤 발", Weight: 1},
	}})

	items, err := matcher.ResolveItemsByClient(context.Background(), "10482",
		[]domain.LineItem{{Name: "샤또 마르고", Quantity: 2}}, domain.ResolveItemsOptions{})
	if err != nil {
		t.Fatalf("ResolveItemsByClient() error = %v", err)
	}
	if len(items) != 1 || !items[0].Resolved {
		t.Fatalf("expected resolved item, got %+v", items)
	}
	if items[0].SKUCode != "W-0042" {
		t.Fatalf("expected W-0042, got %s", items[0].SKUCode)
	}
	if items[0].Quantity != 2 {
		t.Fatalf("quantity must carry through, got %d", items[0].Quantity)
	}
}

func TestMatcherContainmentResolves(t *testing.T) {
	matcher := NewMatcher(&productReaderFake{rows: []domain.ProductRow{
		{SKUCode: "W-0042", SKUName: "샤또 마르고 2019", Weight: 1},
		{SKUCode: "W-0901", SKUName: "모엣 샹동 브뤼", Weight: 1},
	}})

	items, err := matcher.ResolveItemsByClient(context.Background(), "10482",
		[]domain.LineItem{{Name: "마르고 2019", Quantity: 1}}, domain.ResolveItemsOptions{})
	if err != nil {
		t.Fatalf("ResolveItemsByClient() error = %v", err)
	}
	if !items[0].Resolved || items[0].SKUCode != "W-0042" {
		t.Fatalf("expected containment match to W-0042, got %+v", items[0])
	}
}

func TestMatcherAmbiguousReturnsSuggestions(t *testing.T) {
	// Two near-identical catalog names: the gap gate must refuse to pick.
	matcher := NewMatcher(&productReaderFake{rows: []domain.ProductRow{
		{SKUCode: "W-0042", SKUName: "샤또 마르고 레드", Weight: 1},
		{SKUCode: "W-0043", SKUName: "샤또 마르고 화이트", Weight: 1},
	}})

	items, err := matcher.ResolveItemsByClient(context.Background(), "10482",
		[]domain.LineItem{{Name: "샤또 마르고", Quantity: 1}}, domain.ResolveItemsOptions{})
	if err != nil {
		t.Fatalf("ResolveItemsByClient() error = %v", err)
	}
	if items[0].Resolved {
		t.Fatalf("expected unresolved item, got %+v", items[0])
	}
	if len(items[0].Suggestions) == 0 || len(items[0].Suggestions) > 3 {
		t.Fatalf("expected 1..3 suggestions, got %d", len(items[0].Suggestions))
	}
	if items[0].Suggestions[0].SKUCode != "W-0042" {
		t.Fatalf("suggestions must be ranked deterministically, got %+v", items[0].Suggestions)
	}
}

func TestMatcherEmptyCatalogLeavesUnresolved(t *testing.T) {
	matcher := NewMatcher(&productReaderFake{})

	items, err := matcher.ResolveItemsByClient(context.Background(), "10482",
		[]domain.LineItem{{Name: "샤또 마르고", Quantity: 1}}, domain.ResolveItemsOptions{})
	if err != nil {
		t.Fatalf("ResolveItemsByClient() error = %v", err)
	}
	if items[0].Resolved || items[0].Suggestions != nil {
		t.Fatalf("expected bare unresolved item, got %+v", items[0])
	}
}

func TestMatcherWeightBreaksNearTies(t *testing.T) {
	matcher := NewMatcher(&productReaderFake{rows: []domain.ProductRow{
		{SKUCode: "W-0042", SKUName: "샤또 마르고", Weight: 9},
		{SKUCode: "W-0043", SKUName: "마르고 리저브", Weight: 1},
	}})

	items, err := matcher.ResolveItemsByClient(context.Background(), "10482",
		[]domain.LineItem{{Name: "마르고", Quantity: 1}}, domain.ResolveItemsOptions{MinGap: 0.04})
	if err != nil {
		t.Fatalf("ResolveItemsByClient() error = %v", err)
	}
	if !items[0].Resolved || items[0].SKUCode != "W-0042" {
		t.Fatalf("expected weight bonus to break the tie toward W-0042, got %+v", items[0])
	}
}
