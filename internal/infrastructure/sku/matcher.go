package sku

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/vinbridge/order-intake/internal/core/domain"
	"github.com/vinbridge/order-intake/internal/core/ports"
)

const (
	defaultMinScore = 0.62
	defaultMinGap   = 0.10
	defaultTopN     = 3
)

// Matcher resolves parsed line items against the per-client product catalog.
type Matcher struct {
	products ports.ProductReader
}

func NewMatcher(products ports.ProductReader) *Matcher {
	return &Matcher{products: products}
}

func (m *Matcher) ResolveItemsByClient(ctx context.Context, clientCode string, items []domain.LineItem, opts domain.ResolveItemsOptions) ([]domain.ResolvedItem, error) {
	if opts.MinScore <= 0 {
		opts.MinScore = defaultMinScore
	}
	if opts.MinGap <= 0 {
		opts.MinGap = defaultMinGap
	}
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}

	catalog, err := m.products.ListByClient(ctx, clientCode)
	if err != nil {
		return nil, fmt.Errorf("load product catalog: %w", err)
	}

	out := make([]domain.ResolvedItem, 0, len(items))
	for _, item := range items {
		out = append(out, resolveOne(item, catalog, opts))
	}
	return out, nil
}

func resolveOne(item domain.LineItem, catalog []domain.ProductRow, opts domain.ResolveItemsOptions) domain.ResolvedItem {
	resolved := domain.ResolvedItem{LineItem: item}
	if len(catalog) == 0 {
		return resolved
	}

	query := normalizeProduct(item.Name)
	scored := make([]domain.ItemSuggestion, 0, len(catalog))
	for _, row := range catalog {
		score := scoreProduct(query, normalizeProduct(row.SKUName), row.Weight)
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.ItemSuggestion{
			SKUCode: row.SKUCode,
			SKUName: row.SKUName,
			Score:   score,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].SKUCode < scored[j].SKUCode
	})

	if len(scored) == 0 {
		return resolved
	}

	top := scored[0]
	gap := top.Score
	if len(scored) > 1 {
		gap = top.Score - scored[1].Score
	}
	if top.Score >= opts.MinScore && gap >= opts.MinGap {
		resolved.Resolved = true
		resolved.SKUCode = top.SKUCode
		resolved.SKUName = top.SKUName
		return resolved
	}

	n := opts.TopN
	if n > len(scored) {
		n = len(scored)
	}
	resolved.Suggestions = scored[:n]
	return resolved
}

// scoreProduct mirrors the alias scorer shape: exact, containment, then
// character overlap, with a small weight bonus for frequently ordered SKUs.
func scoreProduct(query, candidate string, weight float64) float64 {
	if query == "" || candidate == "" {
		return 0
	}
	var base float64
	switch {
	case query == candidate:
		base = 1.0
	case strings.Contains(candidate, query) || strings.Contains(query, candidate):
		base = 0.90
	default:
		base = min(0.85, charOverlap(query, candidate))
	}
	if base > 0.5 && weight > 1 {
		base += min(0.05, (weight-1)*0.01)
	}
	if base > 1 {
		base = 1
	}
	return base
}

func normalizeProduct(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func charOverlap(query, candidate string) float64 {
	qset := make(map[rune]bool)
	for _, r := range query {
		qset[r] = true
	}
	seen := make(map[rune]bool)
	shared := 0
	total := 0
	for _, r := range candidate {
		if seen[r] {
			continue
		}
		seen[r] = true
		total++
		if qset[r] {
			shared++
		}
	}
	if total < 6 {
		total = 6
	}
	return float64(shared) / float64(total)
}
