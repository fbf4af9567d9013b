package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vinbridge/order-intake/internal/core/domain"
)

// LineItemParser turns preprocessed text into ordered line items. Its core
// invariant is "never invent a quantity": a segment whose number cannot be
// read unambiguously is dropped, not guessed.
type LineItemParser struct{}

func NewLineItemParser() *LineItemParser {
	return &LineItemParser{}
}

// DroppedSegment records a segment the parser discarded and why. Dropping is
// a normal outcome for conversational filler, never an error.
type DroppedSegment struct {
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

type ParseReport struct {
	Items   []domain.LineItem
	Dropped []DroppedSegment
}

const (
	dropReasonFiller        = "filler"
	dropReasonLogistics     = "logistics"
	dropReasonNoQuantity    = "no_quantity"
	dropReasonAmbiguousYear = "ambiguous_year"
)

var (
	yearPattern         = regexp.MustCompile(`^(?:19|20)\d{2}$`)
	leadingYearPattern  = regexp.MustCompile(`^((?:19|20)\d{2})\s+(.+)$`)
	trailingYearPattern = regexp.MustCompile(`^(.+?)\s+((?:19|20)\d{2})$`)

	// "2 0 2 4" → "2024" when the joined digits form a plausible year.
	spacedDigitsPattern = regexp.MustCompile(`\b(\d)\s+(\d)\s+(\d)\s+(\d)\b`)

	caseCountPattern   = regexp.MustCompile(`(?i)^(.+?)\s+cs\s*(\d{1,4})$`)
	trailingQtyPattern = regexp.MustCompile(`(?i)^(.+?)\s+(\d{1,4})(?:\s*(병|개|본|박스|케이스|보틀|바틀|ea|pcs|box|case|bt|btl))?$`)
	leadingQtyPattern  = regexp.MustCompile(`^(\d{1,4})\s+(.+)$`)

	logisticsPattern = regexp.MustCompile(`배송|퀵|주소|픽업|방문|수령|내일|오늘|모레|입금|계산서|명세서|문의|연락`)
	greetingPattern  = regexp.MustCompile(`^(?:네|넵|예|안녕|반갑|잘\s*받았|확인했|알겠|감사|수고)`)
)

// Parse splits the cleaned text into segments, extracts a vintage hint before
// any quantity decision, and merges duplicate names by summing quantities.
func (p *LineItemParser) Parse(text string) ParseReport {
	text = deglueTokens(text)
	text = collapseSpacedYears(text)

	segments := splitSegments(text)
	segments = mergeIsolatedYears(segments)

	var report ParseReport
	for _, seg := range segments {
		item, reason := parseSegment(seg)
		if reason != "" {
			report.Dropped = append(report.Dropped, DroppedSegment{Text: seg, Reason: reason})
			continue
		}
		report.Items = append(report.Items, item)
	}
	report.Items = mergeDuplicateItems(report.Items)
	return report
}

func collapseSpacedYears(text string) string {
	return spacedDigitsPattern.ReplaceAllStringFunc(text, func(m string) string {
		joined := strings.Join(strings.Fields(m), "")
		if yearPattern.MatchString(joined) {
			return joined
		}
		return m
	})
}

// splitSegments cuts by newline and ";" and "/" always, and by "," only when
// the comma is not protected as part of a Latin producer name.
func splitSegments(text string) []string {
	var segments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		protected := latinNameCommaPattern.MatchString(line)
		for _, part := range strings.FieldsFunc(line, func(r rune) bool {
			if r == '/' || r == ';' {
				return true
			}
			return r == ',' && !protected
		}) {
			part = strings.TrimSpace(part)
			if part != "" {
				segments = append(segments, part)
			}
		}
	}
	return segments
}

// mergeIsolatedYears re-joins a bare 4-digit year that landed on its own
// segment ahead of the item name it belongs to.
func mergeIsolatedYears(segments []string) []string {
	out := make([]string, 0, len(segments))
	for i := 0; i < len(segments); i++ {
		if yearPattern.MatchString(segments[i]) && i+1 < len(segments) {
			out = append(out, segments[i]+" "+segments[i+1])
			i++
			continue
		}
		out = append(out, segments[i])
	}
	return out
}

func parseSegment(seg string) (domain.LineItem, string) {
	raw := seg
	seg = strings.Join(strings.Fields(stripTrailingRequests(stripCourtesy(seg))), " ")

	if !strings.ContainsAny(seg, "0123456789") {
		if logisticsPattern.MatchString(seg) || greetingPattern.MatchString(seg) {
			return domain.LineItem{}, dropReasonLogistics
		}
		return domain.LineItem{}, dropReasonFiller
	}

	// Vintage before quantity: without this ordering a bare year and a bare
	// quantity are indistinguishable.
	seg, vintage := extractVintage(seg)

	name, qty, reason := extractQuantity(seg)
	if reason != "" {
		return domain.LineItem{}, reason
	}

	name = strings.TrimSpace(multiSpacePattern.ReplaceAllString(name, " "))
	if vintage != "" {
		name = name + " " + vintage
	}
	return domain.LineItem{
		RawLine:     raw,
		Name:        name,
		Quantity:    qty,
		VintageHint: vintage,
	}, ""
}

func extractVintage(seg string) (rest, vintage string) {
	if m := leadingYearPattern.FindStringSubmatch(seg); m != nil {
		return strings.TrimSpace(m[2]), m[1]
	}
	if m := trailingYearPattern.FindStringSubmatch(seg); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return seg, ""
}

// extractQuantity tries, in priority order: case-count shorthand, trailing
// number with optional unit, then quantity-first. First match wins.
func extractQuantity(seg string) (name string, qty int, dropReason string) {
	if m := caseCountPattern.FindStringSubmatch(seg); m != nil {
		n, _ := strconv.Atoi(m[2])
		if n >= 1 && n <= 9999 {
			return m[1], n, ""
		}
		return "", 0, dropReasonNoQuantity
	}

	if m := trailingQtyPattern.FindStringSubmatch(seg); m != nil {
		n, _ := strconv.Atoi(m[2])
		switch {
		case n >= 1900 && n <= 2099:
			// A trailing number in year range is never accepted as a
			// quantity, unit or not.
			return "", 0, dropReasonAmbiguousYear
		case n >= 1 && n <= 9999:
			return m[1], n, ""
		}
		return "", 0, dropReasonNoQuantity
	}

	if m := leadingQtyPattern.FindStringSubmatch(seg); m != nil {
		if yearPattern.MatchString(m[1]) {
			return "", 0, dropReasonAmbiguousYear
		}
		n, _ := strconv.Atoi(m[1])
		if n >= 1 && n <= 9999 {
			return m[2], n, ""
		}
	}

	return "", 0, dropReasonNoQuantity
}

// mergeDuplicateItems sums quantities of items whose names match case- and
// space-insensitively, preserving first-occurrence order.
func mergeDuplicateItems(items []domain.LineItem) []domain.LineItem {
	if len(items) < 2 {
		return items
	}
	index := make(map[string]int, len(items))
	out := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.Join(strings.Fields(item.Name), ""))
		if at, ok := index[key]; ok {
			out[at].Quantity += item.Quantity
			if out[at].VintageHint == "" {
				out[at].VintageHint = item.VintageHint
			}
			continue
		}
		index[key] = len(out)
		out = append(out, item)
	}
	return out
}
