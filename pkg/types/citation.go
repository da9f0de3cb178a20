// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the briefcite pipeline:
// located citation spans, extraction results, authorities-table entries,
// parallel-citation clusters, and the reconciled records the engine emits.
package types

// Strategy identifies which extraction strategy produced a case name.
// Per prd002-casename R1.2. Strategies are tried in cascade order; the
// first one yielding a validated name wins.
type Strategy string

const (
	StrategyContext  Strategy = "context"
	StrategyVolume   Strategy = "volume"
	StrategyPattern  Strategy = "pattern"
	StrategyGlobal   Strategy = "global"
	StrategyFallback Strategy = "fallback"
)

// CitationSpan is one citation located in the document text. Offsets index
// into the original document, never a normalized copy, so downstream
// context windows are well-defined. Immutable once located.
// Per prd001-location R1.1, R1.3.
type CitationSpan struct {
	// Text is the citation exactly as it appears in the document.
	Text string `json:"text" yaml:"text"`

	// Start and End are byte offsets of Text within the original document.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// PatternID names the reporter pattern that matched (e.g. "wn2d", "p3d").
	PatternID string `json:"pattern_id" yaml:"pattern_id"`
}

// PairHint marks two located spans that appeared comma-joined inside one
// composite parallel-citation match. It is a clustering hint only, never an
// extraction unit. Per prd001-location R2.2.
type PairHint struct {
	// First and Second are indexes into the located span slice.
	First  int `json:"first" yaml:"first"`
	Second int `json:"second" yaml:"second"`
}

// ExtractionResult is the case name and decision year recovered for one
// citation, with the strategy and confidence that produced them. It is
// created once per CitationSpan and never mutated; later stages wrap it
// rather than editing it. Per prd002-casename R2.1-R2.4.
type ExtractionResult struct {
	// Citation is the citation string the extraction was run for.
	Citation string `json:"citation" yaml:"citation"`

	// Span records where the citation sits in the document.
	Span CitationSpan `json:"span" yaml:"span"`

	// CaseName is the extracted case name, empty when no strategy produced
	// a validated name.
	CaseName string `json:"case_name" yaml:"case_name"`

	// Year is the four-digit decision year, empty when none was found.
	Year string `json:"year" yaml:"year"`

	// Confidence is in [0,1]; 0.0 for a no_match result.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Method is a human-readable label for the rule that matched
	// (e.g. "context:state_v", "no_match").
	Method string `json:"method" yaml:"method"`

	// Strategy is the cascade stage that produced the name. Empty for
	// no_match results.
	Strategy Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`

	// RawMatches preserves the uncleaned candidate strings considered,
	// for audit.
	RawMatches []string `json:"raw_matches,omitempty" yaml:"raw_matches,omitempty"`
}
