package usecase

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/vinbridge/order-intake/internal/core/domain"
	"github.com/vinbridge/order-intake/internal/core/ports"
)

// ClientResolver matches a free-text client hint against the alias table.
// Matching short-circuits: exact client code, then exact normalized alias,
// then a fuzzy scorer chain with two confidence regimes (automatic and
// operator-forced), each requiring a minimum gap over the runner-up.
type ClientResolver struct {
	clients ports.ClientReader
}

func NewClientResolver(clients ports.ClientReader) *ClientResolver {
	return &ClientResolver{clients: clients}
}

// Fixed policy constants. The pairs (0.90, 0.08) and (0.45, 0.15) and the
// 0.45 brand-gate cap are business policy, not tunables.
const (
	autoScoreFloor  = 0.90
	autoGapFloor    = 0.08
	forceScoreFloor = 0.45
	forceGapFloor   = 0.15
	brandGateCap    = 0.45
	branchBonus     = 0.18
	branchPenalty   = 0.25
	maxCandidates   = 8
)

var (
	clientCodePattern = regexp.MustCompile(`^\d{5}$`)
	parenPattern      = regexp.MustCompile(`\(([^)]*)\)`)
	corpSuffixPattern = regexp.MustCompile(`주식회사|\(주\)|㈜|유한회사|유한책임회사|co\.?,?\s*ltd\.?|inc\.?`)
	nonNamePattern    = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	tokenSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// tokenStopwords are generic trade words that never qualify as a brand token.
var tokenStopwords = map[string]bool{
	"와인": true, "주류": true, "상사": true, "유통": true, "무역": true,
	"매장": true, "스토어": true, "본점": true, "지점": true, "직영점": true,
}

func (r *ClientResolver) Resolve(ctx context.Context, hint string, force bool, aliases []domain.AliasRow) (domain.ClientResolution, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return domain.ClientResolution{Status: domain.StatusNeedsReviewClient, HintUsed: hint}, nil
	}

	// Exact client code.
	if clientCodePattern.MatchString(hint) {
		client, err := r.clients.GetByCode(ctx, hint)
		if err == nil {
			return domain.ClientResolution{
				Status:     domain.StatusResolved,
				ClientCode: client.Code,
				ClientName: client.Name,
				Method:     domain.MethodExactCode,
				HintUsed:   hint,
			}, nil
		}
		if !domain.IsKind(err, domain.ErrClientNotFound) {
			return domain.ClientResolution{}, err
		}
	}

	// Exact normalized alias.
	hintNorm := normalizeName(hint)
	for _, row := range aliases {
		if hintNorm != "" && normalizeName(row.Alias) == hintNorm {
			name, err := r.displayName(ctx, row.ClientCode, row.Alias)
			if err != nil {
				return domain.ClientResolution{}, err
			}
			return domain.ClientResolution{
				Status:     domain.StatusResolved,
				ClientCode: row.ClientCode,
				ClientName: name,
				Method:     domain.MethodExactNormFirstline,
				HintUsed:   hint,
			}, nil
		}
	}

	candidates, err := r.rankFuzzy(ctx, hint, aliases)
	if err != nil {
		return domain.ClientResolution{}, err
	}
	if len(candidates) == 0 {
		return domain.ClientResolution{Status: domain.StatusNeedsReviewClient, HintUsed: hint}, nil
	}

	top := candidates[0]
	gap := top.Score
	if len(candidates) > 1 {
		gap = top.Score - candidates[1].Score
	}

	method := domain.ResolutionMethod("")
	switch {
	case top.Score >= autoScoreFloor && gap >= autoGapFloor:
		method = domain.MethodFuzzyAuto
	case force && top.Score >= forceScoreFloor && gap >= forceGapFloor:
		method = domain.MethodFuzzyForce
	}
	if method == "" {
		return domain.ClientResolution{
			Status:     domain.StatusNeedsReviewClient,
			Candidates: candidates,
			HintUsed:   hint,
		}, nil
	}
	return domain.ClientResolution{
		Status:     domain.StatusResolved,
		ClientCode: top.ClientCode,
		ClientName: top.ClientName,
		Method:     method,
		HintUsed:   hint,
	}, nil
}

func (r *ClientResolver) rankFuzzy(ctx context.Context, hint string, aliases []domain.AliasRow) ([]domain.ClientCandidate, error) {
	profile := newNameProfile(hint)

	type scoredRow struct {
		row   domain.AliasRow
		score float64
	}
	scored := make([]scoredRow, 0, len(aliases))
	for _, row := range aliases {
		s := scoreAlias(profile, row)
		if s <= 0 {
			continue
		}
		scored = append(scored, scoredRow{row: row, score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].row.Weight != scored[j].row.Weight {
			return scored[i].row.Weight > scored[j].row.Weight
		}
		return scored[i].row.Alias < scored[j].row.Alias
	})

	// One candidate per client: a client with several close aliases must not
	// occupy both the top slot and the runner-up slot.
	seen := make(map[string]bool, maxCandidates)
	candidates := make([]domain.ClientCandidate, 0, maxCandidates)
	for _, sr := range scored {
		if seen[sr.row.ClientCode] {
			continue
		}
		seen[sr.row.ClientCode] = true
		name, err := r.displayName(ctx, sr.row.ClientCode, sr.row.Alias)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, domain.ClientCandidate{
			ClientCode: sr.row.ClientCode,
			ClientName: name,
			Score:      sr.score,
		})
		if len(candidates) == maxCandidates {
			break
		}
	}
	return candidates, nil
}

func (r *ClientResolver) displayName(ctx context.Context, code, fallback string) (string, error) {
	client, err := r.clients.GetByCode(ctx, code)
	if err != nil {
		if domain.IsKind(err, domain.ErrClientNotFound) {
			return fallback, nil
		}
		return "", err
	}
	return client.Name, nil
}

// nameProfile is the precomputed shape of a name used by the scorer chain.
type nameProfile struct {
	norm      string
	brand     string
	branches  []string
	runeCount int
}

func newNameProfile(text string) nameProfile {
	main, paren := splitParenthetical(text)
	tokens := qualifyingTokens(main)
	tokens = append(tokens, qualifyingTokens(paren)...)

	brand := ""
	for _, tok := range tokens {
		if len([]rune(tok)) > len([]rune(brand)) {
			brand = tok
		}
	}

	var branches []string
	for _, tok := range tokens {
		if tok == brand {
			continue
		}
		branches = append(branches, trimBranchSuffix(tok))
	}

	norm := normalizeName(text)
	return nameProfile{
		norm:      norm,
		brand:     brand,
		branches:  branches,
		runeCount: len([]rune(norm)),
	}
}

// scoreAlias runs the scorer chain for one alias row: parenthetical-alias
// priority, base similarity with branch adjustment, brand gate, then the
// weight bonus. The result is clamped to [0,1].
func scoreAlias(cand nameProfile, row domain.AliasRow) float64 {
	aliasMain, aliasParen := splitParenthetical(row.Alias)
	aliasMainNorm := normalizeName(aliasMain)
	aliasParenNorm := normalizeName(aliasParen)

	base, ok := parentheticalScore(cand, aliasParenNorm)
	if !ok {
		base = baseSimilarity(cand, row.Alias, aliasMainNorm)
	}

	// Brand gate: a candidate whose brand token appears nowhere in the alias
	// is capped no matter how similar the rest looks. This keeps a matching
	// store-branch qualifier from out-ranking the correct brand.
	if cand.brand != "" &&
		!strings.Contains(aliasMainNorm, normalizeName(cand.brand)) &&
		!strings.Contains(aliasParenNorm, normalizeName(cand.brand)) {
		base = min(base, brandGateCap)
	}

	bonus := 0.0
	if base > 0.5 {
		bonus = min(0.2, max(0, (row.Weight-1)*0.02))
	}
	return clamp(base+bonus, 0, 1)
}

// parentheticalScore compares the candidate against the alias's "(...)"
// segment first; a hit there outranks the main-text similarity.
func parentheticalScore(cand nameProfile, aliasParenNorm string) (float64, bool) {
	if aliasParenNorm == "" || cand.norm == "" {
		return 0, false
	}
	if cand.norm == aliasParenNorm {
		return 1.0, true
	}
	if strings.Contains(cand.norm, aliasParenNorm) || strings.Contains(aliasParenNorm, cand.norm) {
		return 0.98, true
	}
	sim := charOverlap(cand.norm, aliasParenNorm, cand.runeCount)
	if sim < 0.7 {
		return 0, false
	}
	lenDiff := cand.runeCount - len([]rune(aliasParenNorm))
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	return clamp(0.97-0.02*float64(lenDiff), 0.85, 0.97), true
}

func baseSimilarity(cand nameProfile, alias, aliasMainNorm string) float64 {
	aliasProfile := newNameProfile(alias)

	adjustment := 0.0
	shared := false
	for _, cb := range cand.branches {
		for _, ab := range aliasProfile.branches {
			if cb == ab {
				shared = true
			}
		}
	}
	switch {
	case shared:
		adjustment = branchBonus
	case len(cand.branches) > 0:
		adjustment = -branchPenalty
	}

	if cand.norm == aliasProfile.norm {
		return 1.0
	}
	if cand.norm != "" && aliasMainNorm != "" &&
		(strings.Contains(cand.norm, aliasMainNorm) || strings.Contains(aliasMainNorm, cand.norm) ||
			strings.Contains(cand.norm, aliasProfile.norm) || strings.Contains(aliasProfile.norm, cand.norm)) {
		return clamp(0.9+adjustment, 0, 0.99)
	}
	overlap := min(0.89, charOverlap(cand.norm, aliasProfile.norm, cand.runeCount))
	return overlap + adjustment
}

// charOverlap is the count of distinct shared runes divided by
// max(6, candidate length). The floor of 6 keeps trivially short hints from
// producing inflated ratios.
func charOverlap(a, b string, aRunes int) float64 {
	if a == "" || b == "" {
		return 0
	}
	inA := make(map[rune]bool)
	for _, r := range a {
		inA[r] = true
	}
	shared := make(map[rune]bool)
	for _, r := range b {
		if inA[r] {
			shared[r] = true
		}
	}
	denom := aRunes
	if denom < 6 {
		denom = 6
	}
	return float64(len(shared)) / float64(denom)
}

func splitParenthetical(text string) (main, paren string) {
	m := parenPattern.FindStringSubmatch(text)
	if m != nil {
		paren = strings.TrimSpace(m[1])
	}
	main = strings.TrimSpace(parenPattern.ReplaceAllString(text, " "))
	return main, paren
}

func normalizeName(text string) string {
	text = strings.ToLower(text)
	text = corpSuffixPattern.ReplaceAllString(text, "")
	return nonNamePattern.ReplaceAllString(text, "")
}

func qualifyingTokens(text string) []string {
	var out []string
	for _, tok := range tokenSplitPattern.Split(strings.ToLower(text), -1) {
		if len([]rune(tok)) < 2 || tokenStopwords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func trimBranchSuffix(tok string) string {
	tok = strings.TrimSuffix(tok, "지점")
	return strings.TrimSuffix(tok, "점")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
