package usecase

import (
	"regexp"
	"strings"
)

// Preprocessor normalizes a raw chat message into line-oriented text where
// every line is either an item candidate or discardable filler. The work is
// an ordered pipeline of named stages; running the pipeline on its own
// output changes nothing.
type Preprocessor struct {
	stages []preprocessStage
}

type preprocessStage struct {
	name  string
	apply func(string) string
}

var (
	courtesyPattern = regexp.MustCompile(
		`안녕하세요|안녕하십니까|수고하십니다|수고하세요|수고많으십니다|감사합니다|감사드립니다|고맙습니다|` +
			`부탁드립니다|부탁드려요|부탁합니다|부탁해요|주문합니다|주문할게요|주문드립니다|발주합니다|발주드립니다`)

	// Multi-word capitalized Latin name with a comma between its parts, e.g.
	// "Christophe Pitois, Grand Cru". Such a comma is part of a producer
	// name, not a list separator.
	latinNameCommaPattern = regexp.MustCompile(`^[A-Z][A-Za-z'.\-]+(?:\s+[A-Za-z'.\-]+)*\s*,\s*[A-Z]`)

	letterDigitGluePattern = regexp.MustCompile(`([가-힣A-Za-z])(\d)`)
	digitLetterGluePattern = regexp.MustCompile(`(\d)([가-힣A-Za-z])`)

	trailingRequestPattern = regexp.MustCompile(
		`(?:이?\s*가능할까요|가능한가요|가능할지요|될까요|할까요|할까|해\s*주세요|해\s*주실래요|주세요|보내\s*주세요|넣어\s*주세요|요청드립니다)\??\s*$`)

	danglingQtyPattern = regexp.MustCompile(`^(.*\S)\s+(\d{1,4})\s*(병|개|본|박스|케이스|보틀|바틀|ea|pcs|box|case|bt|btl)?$`)

	multiSpacePattern = regexp.MustCompile(`[ \t]+`)
)

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		stages: []preprocessStage{
			{name: "normalize_newlines", apply: normalizeNewlines},
			{name: "strip_courtesy", apply: stripCourtesy},
			{name: "break_delimiters", apply: breakDelimiters},
			{name: "break_sentences", apply: breakSentences},
			{name: "deglue_tokens", apply: deglueTokens},
			{name: "strip_trailing_requests", apply: stripTrailingRequests},
			{name: "rejoin_dangling_quantity", apply: rejoinDanglingQuantity},
			{name: "collapse_whitespace", apply: collapseWhitespace},
		},
	}
}

// Clean runs every stage in order and returns the line-oriented text.
func (p *Preprocessor) Clean(text string) string {
	out := text
	for _, stage := range p.stages {
		out = stage.apply(out)
	}
	return out
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func stripCourtesy(text string) string {
	return courtesyPattern.ReplaceAllString(text, "\n")
}

// breakDelimiters turns "/" and "," into line breaks. A line whose comma sits
// inside a capitalized Latin producer name keeps the line intact.
func breakDelimiters(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if latinNameCommaPattern.MatchString(strings.TrimSpace(line)) {
			continue
		}
		line = strings.ReplaceAll(line, "/", "\n")
		line = strings.ReplaceAll(line, ",", "\n")
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// breakSentences converts sentence terminators into line breaks. A period is
// kept when it follows a Latin letter ("St. Emilion", "Dom. Leflaive").
func breakSentences(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i, r := range runes {
		switch r {
		case '!', '?':
			b.WriteRune('\n')
		case '.':
			if i > 0 && isLatinLetter(runes[i-1]) {
				b.WriteRune('.')
			} else {
				b.WriteRune('\n')
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// deglueTokens inserts a space at every letter/digit boundary so glued tokens
// split: "샤도3" → "샤도 3", "2024팝콘" → "2024 팝콘".
func deglueTokens(text string) string {
	text = letterDigitGluePattern.ReplaceAllString(text, "$1 $2")
	return digitLetterGluePattern.ReplaceAllString(text, "$1 $2")
}

func stripTrailingRequests(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for {
			stripped := trailingRequestPattern.ReplaceAllString(trimmed, "")
			stripped = strings.TrimSpace(stripped)
			if stripped == trimmed {
				break
			}
			trimmed = stripped
		}
		lines[i] = trimmed
	}
	return strings.Join(lines, "\n")
}

// rejoinDanglingQuantity re-normalizes a line that ends in a number plus an
// optional unit word back to "name qty unit" spacing, so a quantity left
// dangling by the phrase-strip stage stays attached to its item.
func rejoinDanglingQuantity(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := danglingQtyPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		parts := []string{strings.TrimSpace(m[1]), m[2]}
		if m[3] != "" {
			parts = append(parts, m[3])
		}
		lines[i] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}

func collapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(multiSpacePattern.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
