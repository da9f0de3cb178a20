// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate scans raw document text for legal case citations using an
// ordered table of reporter-specific patterns and returns citation spans
// with offsets into the original text.
// Implements: prd001-location (R1, R2).
package locate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/meshintel/briefcite/pkg/types"
)

// reporterPattern pairs a pattern identifier with its compiled regex.
// Patterns are evaluated independently; the union of matches is taken and
// deduplicated afterwards, so overlap between patterns is expected.
type reporterPattern struct {
	id string
	re *regexp.Regexp
}

// volPage is the shared "<volume> ... <page>" skeleton pieces used to
// compose reporter patterns.
const (
	vol  = `\b\d{1,4}`
	page = `\d{1,5}\b`
)

// reporterPatterns is the ordered pattern table (R1.1). Specific reporters
// come first; the generic "<vol> <Abbrev>. <page>" fallback last. All
// patterns are case-insensitive because OCR output is inconsistent about
// reporter casing.
var reporterPatterns = []reporterPattern{
	{"us", regexp.MustCompile(`(?i)` + vol + `\s+U\.\s?S\.\s+` + page)},
	{"sct", regexp.MustCompile(`(?i)` + vol + `\s+S\.\s?Ct\.\s+` + page)},
	{"led", regexp.MustCompile(`(?i)` + vol + `\s+L\.\s?Ed\.(?:\s?2d)?\s+` + page)},
	{"f", regexp.MustCompile(`(?i)` + vol + `\s+F\.\s?(?:2d|3d|4th)\s+` + page)},
	{"fsupp", regexp.MustCompile(`(?i)` + vol + `\s+F\.\s?Supp\.(?:\s?(?:2d|3d))?\s+` + page)},
	{"wn2d", regexp.MustCompile(`(?i)` + vol + `\s+Wn\.\s?2d\s+` + page)},
	{"wnapp", regexp.MustCompile(`(?i)` + vol + `\s+Wn\.\s?App\.(?:\s?2d)?\s+` + page)},
	{"wash2d", regexp.MustCompile(`(?i)` + vol + `\s+Wash\.\s?2d\s+` + page)},
	{"washapp", regexp.MustCompile(`(?i)` + vol + `\s+Wash\.\s?App\.\s+` + page)},
	{"p", regexp.MustCompile(`(?i)` + vol + `\s+P\.\s?(?:2d|3d)\s+` + page)},
	{"generic", regexp.MustCompile(vol + `\s+[A-Z][A-Za-z]{0,10}\.(?:\s?(?:2d|3d|4th|App\.|Supp\.)){0,2}\s+` + page)},
}

// parallelPairRe matches two comma-joined citations, optionally separated
// by pincite pages, e.g. "195 Wn.2d 742, 773, 466 P.3d 213". The two
// capture groups are clustering hints only, never extraction units (R2.2).
var parallelPairRe = regexp.MustCompile(
	`(?i)(\d{1,4}\s+[A-Z][A-Za-z]{0,10}\.(?:\s?(?:2d|3d|4th|App\.|Supp\.)){0,2}\s+\d{1,5})` +
		`(?:,\s*\d{1,5}){0,3},\s*` +
		`(\d{1,4}\s+[A-Z][A-Za-z]{0,10}\.(?:\s?(?:2d|3d|4th|App\.|Supp\.)){0,2}\s+\d{1,5})`)

// Result holds located citation spans in document order plus composite
// parallel-pair hints for the clusterer.
type Result struct {
	Spans []types.CitationSpan
	Pairs []types.PairHint
}

// Locate scans text with every reporter pattern and returns the union of
// matches, ordered by position and deduplicated by normalized citation form.
// The first occurrence of a citation wins its offset (R1.2, R1.3).
func Locate(text string) Result {
	var spans []types.CitationSpan

	for _, rp := range reporterPatterns {
		for _, m := range rp.re.FindAllStringIndex(text, -1) {
			spans = append(spans, types.CitationSpan{
				Text:      text[m[0]:m[1]],
				Start:     m[0],
				End:       m[1],
				PatternID: rp.id,
			})
		}
	}

	// Position order first so the earliest occurrence of a duplicate keeps
	// its offset; specific patterns outrank the generic one at equal offsets.
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})

	seen := make(map[string]bool)
	deduped := spans[:0]
	for _, s := range spans {
		key := NormalizeKey(s.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, s)
	}

	return Result{
		Spans: deduped,
		Pairs: pairHints(text, deduped),
	}
}

// pairHints maps composite parallel-citation matches onto span indexes.
// A hint is recorded only when both halves resolved to located spans.
func pairHints(text string, spans []types.CitationSpan) []types.PairHint {
	byKey := make(map[string]int, len(spans))
	for i, s := range spans {
		byKey[NormalizeKey(s.Text)] = i
	}

	var hints []types.PairHint
	for _, m := range parallelPairRe.FindAllStringSubmatch(text, -1) {
		first, okFirst := byKey[NormalizeKey(m[1])]
		second, okSecond := byKey[NormalizeKey(m[2])]
		if okFirst && okSecond && first != second {
			hints = append(hints, types.PairHint{First: first, Second: second})
		}
	}
	return hints
}

// NormalizeKey reduces a citation string to its dedup form: lower-cased
// with punctuation and whitespace removed, so "195 Wn. 2d 742" and
// "195 Wn.2d 742" collapse to one key (R1.2).
func NormalizeKey(citation string) string {
	var b strings.Builder
	b.Grow(len(citation))
	for _, r := range strings.ToLower(citation) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
