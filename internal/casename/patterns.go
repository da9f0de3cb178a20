// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package casename

import "regexp"

// Case-name pattern building blocks. Legal abbreviations like U.S., Sec'y,
// Dep't, and Gov't are listed as atomic tokens so a match never truncates
// mid-abbreviation, and corporate suffixes are first-class party tokens.
const (
	capWord = `[A-Z][A-Za-z'’.\-]*`
	abbrTok = `(?:U\.S\.|Sec'y|Dep't|Gov't|Ass'n|Int'l|Nat'l|Comm'n|Comm'r|Bd\.|Dist\.|Cnty\.)`
	corpTok = `(?:LLC|L\.L\.C\.|Inc\.|Corp\.|Co\.|Ltd\.|L\.P\.|P\.S\.|N\.A\.|P\.C\.)`
	lowTok  = `(?:of|the|and|for|ex rel\.|&|de|la|van|von)`

	partyTok = `(?:` + abbrTok + `|` + corpTok + `|` + capWord + `|` + lowTok + `)`
	party    = partyTok + `(?:,?\s` + partyTok + `){0,12}`

	versus = `\s+(?:v\.|vs\.|versus)\s+`
)

// namePattern is one row of the extraction rule table: an identifier, the
// compiled pattern, and a base confidence weight. The table replaces
// per-format extraction functions with a single ordered, data-driven list.
type namePattern struct {
	id     string
	re     *regexp.Regexp
	weight float64
}

// namePatterns is the prioritized rule table. High-weight rules
// (weight >= 0.8) are the only ones the global strategy is allowed to use;
// the fallback strategy uses the rest.
var namePatterns = []namePattern{
	{"united_states_v", regexp.MustCompile(`\bUnited States` + versus + party), 0.95},
	{"state_v", regexp.MustCompile(`\bState(?:\s+of\s+[A-Z][a-z]+)?` + versus + party), 0.92},
	{"in_re", regexp.MustCompile(`\bIn re\s+` + party), 0.9},
	{"matter_of", regexp.MustCompile(`\b(?:In the\s+)?Matter of\s+` + party), 0.88},
	{"ex_parte", regexp.MustCompile(`\bEx parte\s+` + party), 0.88},
	{"estate_of", regexp.MustCompile(`\bEstate of\s+` + party + `(?:` + versus + party + `)?`), 0.85},
	{"party_v_party", regexp.MustCompile(`\b` + party + versus + party), 0.85},
	{"loose_v", regexp.MustCompile(`[A-Z][^,.;\n]{2,80}?` + versus + `[A-Z][^,.;\n]{1,80}`), 0.6},
	{"loose_in_re", regexp.MustCompile(`\bIn re\s+[A-Z][^,.;\n]{2,60}`), 0.55},
}

// globalWeightFloor separates the high-confidence rules used by the global
// strategy from the loose rules reserved for the fallback strategy.
const globalWeightFloor = 0.8
