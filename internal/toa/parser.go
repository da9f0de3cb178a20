// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toa parses a brief's Table of Authorities section into
// ground-truth entries. The parser is a small state machine (searching ->
// section found -> chunking -> entry parsing) where every regex-bearing
// step runs under a wall-clock budget, so malformed OCR input degrades to
// partial results instead of hanging.
// Implements: prd003-authorities (R1-R5).
package toa

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/meshintel/briefcite/internal/guard"
	"github.com/meshintel/briefcite/internal/locate"
	"github.com/meshintel/briefcite/pkg/types"
)

var (
	// headerRe detects the start of an authorities section.
	headerRe = regexp.MustCompile(`(?i)(TABLE\s+OF\s+AUTHORITIES|AUTHORITIES\s+CITED|CASES\s+CITED|TABLE\s+OF\s+CASES)`)

	// sectionEndRe detects the next major heading after the table: argument
	// headings or roman/numeric outline markers at line start.
	sectionEndRe = regexp.MustCompile(`(?im)^\s*(?:ARGUMENT|STATEMENT\s+OF\s+(?:THE\s+CASE|FACTS)|INTRODUCTION|SUMMARY\s+OF\s+ARGUMENT|ASSIGNMENTS?\s+OF\s+ERROR|[IVXLC]+\.\s+[A-Z])`)

	// entryStartRe marks a line that begins a new table entry: a
	// capitalized party name followed by "v.", or a procedural-style
	// case-name prefix.
	entryStartRe = regexp.MustCompile(`^\s*(?:[A-Z][A-Za-z'’.&,\- ]{0,80}\sv\.?\s|In re\b|(?:In the )?Matter of\b|Ex parte\b|Estate of\b)`)

	// continuationRe matches a chunk that begins mid-entry ("v. Party..."),
	// which OCR line wrapping produces; it is reattached to the previous line.
	continuationRe = regexp.MustCompile(`^\s*v\.?\s`)

	// pageRefRe captures the trailing brief page references after a dot
	// leader or run of spaces, e.g. "..... 32" or "   12, 14".
	pageRefRe = regexp.MustCompile(`[.\s]{2,}(\d{1,4}(?:\s*[,–-]\s*\d{1,4})*)\s*$`)

	// structuredEntryRe is the primary entry shape: "Case Name, Citation
	// (Year)" where the name is either a versus pair or a procedural form.
	structuredEntryRe = regexp.MustCompile(`^((?:In re|(?:In the )?Matter of|Ex parte|Estate of)\s+.{2,120}?|.{2,120}?\sv\.?s?\.?\s.{2,120}?),\s+(\d.{2,200}?\(\s*\d{4}\s*\).*)$`)

	// looseEntryRe is the fallback: text before the first comma, remainder
	// containing a parenthesized year.
	looseEntryRe = regexp.MustCompile(`^(.{3,150}?),\s*(.*\(\s*\d{4}\s*\).*)$`)

	// toaYearRe finds plausible decision years in the citation substring.
	toaYearRe = regexp.MustCompile(`\b(19\d{2}|20[0-2]\d|2030)\b`)

	wsRe = regexp.MustCompile(`\s+`)
)

// Parser parses Table of Authorities sections under the configured bounds.
type Parser struct {
	cfg types.ToAConfig
}

// NewParser returns a Parser with zero config fields replaced by defaults.
func NewParser(cfg types.ToAConfig) *Parser {
	if cfg.HeaderWindow <= 0 {
		cfg.HeaderWindow = 50000
	}
	if cfg.SectionLookahead <= 0 {
		cfg.SectionLookahead = 20000
	}
	if cfg.MaxSectionLen <= 0 {
		cfg.MaxSectionLen = 30000
	}
	if cfg.MaxChunkLen <= 0 {
		cfg.MaxChunkLen = 5000
	}
	if cfg.MaxChunks <= 0 {
		cfg.MaxChunks = 200
	}
	if cfg.MaxCitationsPerEntry <= 0 {
		cfg.MaxCitationsPerEntry = 10
	}
	if cfg.MaxYearsPerEntry <= 0 {
		cfg.MaxYearsPerEntry = 3
	}
	if cfg.SectionTimeout <= 0 {
		cfg.SectionTimeout = 30 * time.Second
	}
	if cfg.ParseTimeout <= 0 {
		cfg.ParseTimeout = 120 * time.Second
	}
	if cfg.ChunkTimeout <= 0 {
		cfg.ChunkTimeout = 5 * time.Second
	}
	return &Parser{cfg: cfg}
}

// Parse extracts the ordered Table of Authorities entries from the full
// document text. A document without a detectable table yields an empty
// result; a step that overruns its budget is skipped and the parse
// continues with whatever prior steps produced. Parse never returns an
// error to the caller.
func (p *Parser) Parse(ctx context.Context, doc string) []types.ToAEntry {
	deadline := time.Now().Add(p.cfg.ParseTimeout)

	section, err := guard.Run(ctx, p.cfg.SectionTimeout, "toa section detection", func() string {
		return p.findSection(doc)
	})
	if err != nil || section == "" {
		return nil
	}

	chunks := p.chunk(section)

	var entries []types.ToAEntry
	for _, c := range chunks {
		if time.Now().After(deadline) {
			break
		}
		chunk := c
		entry, err := guard.Run(ctx, p.cfg.ChunkTimeout, "toa entry parse", func() *types.ToAEntry {
			return p.parseEntry(chunk)
		})
		if err != nil || entry == nil {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries
}

// findSection locates the authorities section body: from the header match
// to the next major heading within the lookahead, else capped at the
// maximum section length.
func (p *Parser) findSection(doc string) string {
	window := doc
	if len(window) > p.cfg.HeaderWindow {
		window = window[:p.cfg.HeaderWindow]
	}
	loc := headerRe.FindStringIndex(window)
	if loc == nil {
		return ""
	}

	body := doc[loc[1]:]
	lookahead := body
	if len(lookahead) > p.cfg.SectionLookahead {
		lookahead = lookahead[:p.cfg.SectionLookahead]
	}

	if end := sectionEndRe.FindStringIndex(lookahead); end != nil {
		return body[:end[0]]
	}
	if len(body) > p.cfg.MaxSectionLen {
		return body[:p.cfg.MaxSectionLen]
	}
	return body
}

// chunk splits the section into bounded-size entry chunks at natural entry
// boundaries. Lines beginning mid-entry with "v." are reattached to the
// previous line.
func (p *Parser) chunk(section string) []string {
	lines := strings.Split(section, "\n")

	var chunks []string
	var current []string
	var pending string // last dropped line, kept in case "v. ..." follows

	flush := func() {
		text := strings.TrimSpace(strings.Join(current, " "))
		current = nil
		if text == "" {
			return
		}
		if len(text) > p.cfg.MaxChunkLen {
			text = text[:p.cfg.MaxChunkLen]
		}
		chunks = append(chunks, text)
	}

	for _, line := range lines {
		if len(chunks) >= p.cfg.MaxChunks {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case continuationRe.MatchString(trimmed):
			// A line starting mid-entry with "v." belongs to the line
			// above it, even when that line did not look like an entry
			// start on its own.
			if len(current) == 0 && pending != "" {
				current = append(current, pending)
				pending = ""
			}
			current = append(current, trimmed)
		case entryStartRe.MatchString(trimmed):
			flush()
			pending = ""
			current = append(current, trimmed)
		case len(current) > 0:
			current = append(current, trimmed)
		default:
			// Preamble before the first entry ("Cases", "Page" headers) is
			// dropped, but remembered for mid-entry reattachment.
			pending = trimmed
		}
	}
	if len(chunks) < p.cfg.MaxChunks {
		flush()
	}
	return chunks
}

// parseEntry parses one chunk into a ToAEntry. Returns nil when the chunk
// contains no recognizable citation.
func (p *Parser) parseEntry(chunk string) *types.ToAEntry {
	line := wsRe.ReplaceAllString(chunk, " ")

	var pages []string
	if m := pageRefRe.FindStringSubmatchIndex(line); m != nil {
		for _, pg := range strings.FieldsFunc(line[m[2]:m[3]], func(r rune) bool {
			return r == ',' || r == '-' || r == '–' || r == ' '
		}) {
			if pg != "" {
				pages = append(pages, pg)
			}
		}
		line = strings.TrimRight(strings.TrimSpace(line[:m[0]]), ".")
	}

	name, citePart, conf := splitEntry(line)
	if name == "" {
		return nil
	}

	located := locate.Locate(citePart)
	var citations []string
	seen := make(map[string]bool)
	for _, s := range located.Spans {
		key := locate.NormalizeKey(s.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		citations = append(citations, s.Text)
		if len(citations) >= p.cfg.MaxCitationsPerEntry {
			break
		}
	}
	if len(citations) == 0 {
		return nil
	}

	var years []string
	seenYears := make(map[string]bool)
	for _, m := range toaYearRe.FindAllStringSubmatch(citePart, -1) {
		if seenYears[m[1]] {
			continue
		}
		seenYears[m[1]] = true
		years = append(years, m[1])
		if len(years) >= p.cfg.MaxYearsPerEntry {
			break
		}
	}

	return &types.ToAEntry{
		CaseName:    strings.TrimSpace(name),
		Citations:   citations,
		Years:       years,
		PageNumbers: pages,
		Confidence:  conf,
		SourceLine:  strings.TrimSpace(chunk),
	}
}

// splitEntry separates case name from citation text, trying the structured
// entry shape before the loose fallback.
func splitEntry(line string) (name, citePart string, confidence float64) {
	if m := structuredEntryRe.FindStringSubmatch(line); m != nil {
		return m[1], m[2], 0.9
	}
	if m := looseEntryRe.FindStringSubmatch(line); m != nil {
		return m[1], m[2], 0.5
	}
	return "", "", 0
}
