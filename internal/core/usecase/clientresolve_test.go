package usecase

import (
	"context"
	"testing"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

type clientReaderFake struct {
	clients map[string]string
}

func (f *clientReaderFake) GetByCode(_ context.Context, code string) (*domain.Client, error) {
	name, ok := f.clients[code]
	if !ok {
		return nil, domain.WrapError(domain.ErrClientNotFound, "get client", domain.ErrClientNotFound)
	}
	return &domain.Client{Code: code, Name: name}, nil
}

func newTestResolver() *ClientResolver {
	return NewClientResolver(&clientReaderFake{clients: map[string]string{
		"30694": "스시소라",
		"10001": "라뜨리에드 오르조 강남점",
		"10002": "와인앤모어 청담점",
	}})
}

func TestResolveExactCode(t *testing.T) {
	res, err := newTestResolver().Resolve(context.Background(), "30694", false, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Resolved() || res.Method != domain.MethodExactCode {
		t.Fatalf("expected exact_code resolution, got %+v", res)
	}
	if res.ClientName != "스시소라" {
		t.Fatalf("expected client name from read model, got %q", res.ClientName)
	}
}

func TestResolveExactNormalizedAlias(t *testing.T) {
	aliases := []domain.AliasRow{
		{ClientCode: "30694", Alias: "스시소라", Weight: 1},
	}
	res, err := newTestResolver().Resolve(context.Background(), "스시 소라", false, aliases)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Resolved() || res.Method != domain.MethodExactNormFirstline {
		t.Fatalf("expected exact_norm_firstline, got %+v", res)
	}
	if res.ClientCode != "30694" {
		t.Fatalf("expected client 30694, got %q", res.ClientCode)
	}
}

func TestResolveFuzzyAutoOnContainment(t *testing.T) {
	aliases := []domain.AliasRow{
		{ClientCode: "10001", Alias: "라뜨리에드 오르조 (강남점)", Weight: 1},
		{ClientCode: "30694", Alias: "스시소라", Weight: 1},
	}
	res, err := newTestResolver().Resolve(context.Background(), "라뜨리에드오르조", false, aliases)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Resolved() || res.Method != domain.MethodFuzzyAuto {
		t.Fatalf("expected fuzzy_auto, got %+v", res)
	}
	if res.ClientCode != "10001" {
		t.Fatalf("expected client 10001, got %q", res.ClientCode)
	}
}

func TestResolveBranchMismatchNeedsReview(t *testing.T) {
	aliases := []domain.AliasRow{
		{ClientCode: "10001", Alias: "라뜨리에드 오르조 (강남점)", Weight: 5},
	}
	res, err := newTestResolver().Resolve(context.Background(), "라뜨리에 청담점", false, aliases)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Status != domain.StatusNeedsReviewClient {
		t.Fatalf("expected needs_review_client, got %+v", res)
	}
	if len(res.Candidates) == 0 {
		t.Fatalf("expected ranked candidates for review")
	}
	if res.Candidates[0].Score >= autoScoreFloor {
		t.Fatalf("branch mismatch must stay below the auto floor, got %f", res.Candidates[0].Score)
	}
	if res.HintUsed != "라뜨리에 청담점" {
		t.Fatalf("expected hint_used to carry the candidate text, got %q", res.HintUsed)
	}
}

func TestResolveBrandGateCapsForeignBrand(t *testing.T) {
	aliases := []domain.AliasRow{
		{ClientCode: "10002", Alias: "와인앤모어 청담점", Weight: 10},
	}
	// Shared branch qualifier ("청담") but a brand token the alias does not
	// contain anywhere.
	res, err := newTestResolver().Resolve(context.Background(), "비노쿠스 청담점", false, aliases)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Status != domain.StatusNeedsReviewClient {
		t.Fatalf("expected needs_review_client, got %+v", res)
	}
	if len(res.Candidates) > 0 && res.Candidates[0].Score > brandGateCap+0.2 {
		t.Fatalf("expected brand-gated score, got %f", res.Candidates[0].Score)
	}
}

func TestResolveForceIsMonotonic(t *testing.T) {
	aliases := []domain.AliasRow{
		{ClientCode: "30694", Alias: "스시소라", Weight: 1},
	}
	resolver := newTestResolver()

	unforced, err := resolver.Resolve(context.Background(), "수시소라", false, aliases)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if unforced.Status != domain.StatusNeedsReviewClient {
		t.Fatalf("expected needs_review_client without force, got %+v", unforced)
	}

	forced, err := resolver.Resolve(context.Background(), "수시소라", true, aliases)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !forced.Resolved() || forced.Method != domain.MethodFuzzyForce {
		t.Fatalf("expected fuzzy_force with force set, got %+v", forced)
	}

	// force never demotes an auto-resolved hint.
	auto, err := resolver.Resolve(context.Background(), "스시소라", true, aliases)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !auto.Resolved() {
		t.Fatalf("force flipped a resolvable hint to review: %+v", auto)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	aliases := []domain.AliasRow{
		{ClientCode: "10001", Alias: "라뜨리에드 오르조 (강남점)", Weight: 3},
		{ClientCode: "10002", Alias: "와인앤모어 청담점", Weight: 2},
		{ClientCode: "30694", Alias: "스시소라", Weight: 1},
	}
	resolver := newTestResolver()

	first, err := resolver.Resolve(context.Background(), "라뜨리에 청담점", false, aliases)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := resolver.Resolve(context.Background(), "라뜨리에 청담점", false, aliases)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if again.Status != first.Status || len(again.Candidates) != len(first.Candidates) {
			t.Fatalf("resolution not deterministic: %+v vs %+v", first, again)
		}
		for j := range again.Candidates {
			if again.Candidates[j] != first.Candidates[j] {
				t.Fatalf("candidate %d differs between runs", j)
			}
		}
	}
}

func TestResolveKeepsAtMostEightCandidates(t *testing.T) {
	var aliases []domain.AliasRow
	reader := &clientReaderFake{clients: map[string]string{}}
	for i := 0; i < 12; i++ {
		code := string(rune('a'+i)) + "0000"
		aliases = append(aliases, domain.AliasRow{ClientCode: code, Alias: "스시소라" + string(rune('가'+i)), Weight: 1})
	}
	res, err := NewClientResolver(reader).Resolve(context.Background(), "스시소라집", false, aliases)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Status != domain.StatusNeedsReviewClient {
		t.Fatalf("expected needs_review_client, got %+v", res)
	}
	if len(res.Candidates) > maxCandidates {
		t.Fatalf("expected at most %d candidates, got %d", maxCandidates, len(res.Candidates))
	}
}
