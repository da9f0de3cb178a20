// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package casename recovers the case name and decision year for a located
// citation by running an ordered cascade of extraction strategies over the
// surrounding document text, each candidate scored for confidence and
// validated before acceptance.
// Implements: prd002-casename (R1-R5).
package casename

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/meshintel/briefcite/pkg/types"
)

// ErrCitationNotFound is returned by ExtractBySearch when the citation
// substring is absent from the document. It signals a caller error, not a
// data error.
var ErrCitationNotFound = errors.New("citation not found in document text")

// methodNoMatch labels the terminal result when every strategy is
// exhausted. It is a valid outcome, not an error.
const methodNoMatch = "no_match"

// Engine extracts case names and decision years. One Engine is constructed
// per process (or per request) and passed by reference; memoization lives
// in an explicit bounded cache owned by the engine, never in package state.
type Engine struct {
	cfg   types.ExtractionConfig
	cache *gocache.Cache
}

// New returns an Engine with zero config fields replaced by defaults.
func New(cfg types.ExtractionConfig) *Engine {
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = 150
	}
	if cfg.VolumeWindow <= 0 {
		cfg.VolumeWindow = 100
	}
	if cfg.PatternWindow <= 0 {
		cfg.PatternWindow = 400
	}
	if cfg.DateWindow <= 0 {
		cfg.DateWindow = 300
	}
	if cfg.MinNameLen <= 0 {
		cfg.MinNameLen = 5
	}
	if cfg.MaxNameLen <= 0 {
		cfg.MaxNameLen = 150
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.CacheSweep <= 0 {
		cfg.CacheSweep = 30 * time.Minute
	}
	return &Engine{
		cfg:   cfg,
		cache: gocache.New(cfg.CacheTTL, cfg.CacheSweep),
	}
}

// candidate is one scored name produced by a strategy.
type candidate struct {
	name   string
	conf   float64
	method string
	raw    []string

	// yearFrom anchors the decision-year search: the citation offset for
	// the windowed strategies, the name match end for document-wide scans
	// (whose name may sit far from the citation, next to its own year).
	yearFrom int
}

// Extract runs the strategy cascade for one citation at a known offset and
// returns a single immutable ExtractionResult. Extraction is a pure
// function of its inputs; repeated calls return identical results.
func (e *Engine) Extract(doc, citation string, start, end int) types.ExtractionResult {
	key := e.cacheKey(doc, citation, start, end)
	if cached, ok := e.cache.Get(key); ok {
		return cached.(types.ExtractionResult)
	}

	span := types.CitationSpan{Text: citation, Start: start, End: end}

	type stage struct {
		strategy types.Strategy
		run      func(doc string, start int) (candidate, bool)
	}
	cascade := []stage{
		{types.StrategyContext, e.contextStrategy},
		{types.StrategyVolume, e.volumeStrategy},
		{types.StrategyPattern, e.patternStrategy},
		{types.StrategyGlobal, e.globalStrategy},
		{types.StrategyFallback, e.fallbackStrategy},
	}

	var result types.ExtractionResult
	var raws []string
	for _, st := range cascade {
		cand, ok := st.run(doc, start)
		raws = append(raws, cand.raw...)
		if !ok {
			continue
		}
		result = types.ExtractionResult{
			Citation:   citation,
			Span:       span,
			CaseName:   cand.name,
			Year:       extractYear(doc, cand.yearFrom, e.cfg.DateWindow),
			Confidence: clamp01(cand.conf),
			Method:     cand.method,
			Strategy:   st.strategy,
			RawMatches: raws,
		}
		e.cache.SetDefault(key, result)
		return result
	}

	result = types.ExtractionResult{
		Citation:   citation,
		Span:       span,
		Method:     methodNoMatch,
		RawMatches: raws,
	}
	e.cache.SetDefault(key, result)
	return result
}

// ExtractBySearch locates the citation by substring search when the caller
// has no offsets, then extracts as usual.
func (e *Engine) ExtractBySearch(doc, citation string) (types.ExtractionResult, error) {
	idx := strings.Index(doc, citation)
	if idx < 0 {
		return types.ExtractionResult{}, fmt.Errorf("locating %q: %w", citation, ErrCitationNotFound)
	}
	return e.Extract(doc, citation, idx, idx+len(citation)), nil
}

func (e *Engine) cacheKey(doc, citation string, start, end int) string {
	h := sha256.New()
	h.Write([]byte(doc))
	return fmt.Sprintf("%x|%s|%d|%d", h.Sum(nil)[:8], citation, start, end)
}

// contextStrategy examines only the window strictly before the citation;
// looking ahead risks capturing the next citation's case name. Candidates
// are scored weight x position x length and the best one wins.
func (e *Engine) contextStrategy(doc string, start int) (candidate, bool) {
	window := backWindow(doc, start, e.cfg.ContextWindow)
	var best candidate
	var raws []string

	for _, np := range namePatterns {
		for _, m := range np.re.FindAllStringIndex(window, -1) {
			raw := window[m[0]:m[1]]
			raws = append(raws, raw)
			name := cleanName(raw)
			if !validateName(name, e.cfg.MinNameLen, e.cfg.MaxNameLen) {
				continue
			}
			gap := len(window) - m[1]
			conf := np.weight * positionScore(gap) * lengthScore(name)
			if conf > best.conf {
				best = candidate{name: name, conf: conf, method: "context:" + np.id, yearFrom: start}
			}
		}
	}
	best.raw = raws
	return best, best.name != ""
}

// volumeStrategy searches immediately before the citation's leading volume
// number with a tighter window, boosting confidence 10-30% the closer the
// match ends to the volume number.
func (e *Engine) volumeStrategy(doc string, start int) (candidate, bool) {
	window := backWindow(doc, start, e.cfg.VolumeWindow)
	if window == "" {
		return candidate{}, false
	}
	var best candidate
	var raws []string

	for _, np := range namePatterns {
		for _, m := range np.re.FindAllStringIndex(window, -1) {
			raw := window[m[0]:m[1]]
			raws = append(raws, raw)
			name := cleanName(raw)
			if !validateName(name, e.cfg.MinNameLen, e.cfg.MaxNameLen) {
				continue
			}
			gap := len(window) - m[1]
			closeness := 1.0 - float64(gap)/float64(len(window))
			boost := 1.1 + 0.2*closeness
			conf := np.weight * lengthScore(name) * boost
			if conf > best.conf {
				best = candidate{name: name, conf: conf, method: "volume:" + np.id, yearFrom: start}
			}
		}
	}
	best.raw = raws
	return best, best.name != ""
}

// patternStrategy widens the backward window and picks, among all validated
// matches, the one whose end sits closest to the citation.
func (e *Engine) patternStrategy(doc string, start int) (candidate, bool) {
	window := backWindow(doc, start, e.cfg.PatternWindow)
	var best candidate
	bestGap := -1
	var raws []string

	for _, np := range namePatterns {
		for _, m := range np.re.FindAllStringIndex(window, -1) {
			raw := window[m[0]:m[1]]
			raws = append(raws, raw)
			name := cleanName(raw)
			if !validateName(name, e.cfg.MinNameLen, e.cfg.MaxNameLen) {
				continue
			}
			gap := len(window) - m[1]
			if bestGap < 0 || gap < bestGap {
				bestGap = gap
				best = candidate{
					name:     name,
					conf:     np.weight * lengthScore(name),
					method:   "pattern:" + np.id,
					yearFrom: start,
				}
			}
		}
	}
	best.raw = raws
	return best, best.name != ""
}

// globalStrategy searches the entire document with only the
// high-confidence rules, taking the first validated match. Confidence is
// discounted 10% for this broad, less-targeted search.
func (e *Engine) globalStrategy(doc string, _ int) (candidate, bool) {
	return e.documentScan(doc, func(w float64) bool { return w >= globalWeightFloor }, "global", 0.9)
}

// fallbackStrategy applies the remaining low-confidence rules anywhere in
// the document, discounted 20%.
func (e *Engine) fallbackStrategy(doc string, _ int) (candidate, bool) {
	return e.documentScan(doc, func(w float64) bool { return w < globalWeightFloor }, "fallback", 0.8)
}

func (e *Engine) documentScan(doc string, use func(weight float64) bool, label string, discount float64) (candidate, bool) {
	var raws []string
	for _, np := range namePatterns {
		if !use(np.weight) {
			continue
		}
		for _, m := range np.re.FindAllStringIndex(doc, -1) {
			raw := doc[m[0]:m[1]]
			raws = append(raws, raw)
			name := cleanName(raw)
			if !validateName(name, e.cfg.MinNameLen, e.cfg.MaxNameLen) {
				continue
			}
			return candidate{
				name:     name,
				conf:     np.weight * discount,
				method:   label + ":" + np.id,
				raw:      raws,
				yearFrom: m[1],
			}, true
		}
	}
	return candidate{raw: raws}, false
}

// backWindow returns up to n characters of doc strictly before start.
func backWindow(doc string, start, n int) string {
	if start <= 0 || len(doc) == 0 {
		return ""
	}
	if start > len(doc) {
		start = len(doc)
	}
	from := start - n
	if from < 0 {
		from = 0
	}
	return doc[from:start]
}

// positionScore rewards matches ending 5-20 characters before the citation.
// Closer suggests the match bled into the citation; farther suggests it
// belongs to a different case.
func positionScore(gap int) float64 {
	switch {
	case gap >= 5 && gap <= 20:
		return 1.0
	case gap < 5:
		return 0.8
	case gap <= 50:
		return 0.85
	case gap <= 100:
		return 0.7
	default:
		return 0.55
	}
}

// lengthScore penalizes very short and very long names.
func lengthScore(name string) float64 {
	switch n := len(name); {
	case n < 10:
		return 0.7
	case n > 100:
		return 0.6
	default:
		return 1.0
	}
}

func clamp01(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0 {
		return 0
	}
	return v
}
