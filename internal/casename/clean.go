// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package casename

import (
	"regexp"
	"strings"
	"unicode"
)

// signalRe strips leading citation signal words ("See", "E.g.,", "Accord",
// "Citing") that a backward-looking pattern tends to over-capture. Applied
// repeatedly because signals stack ("See, e.g.,").
var signalRe = regexp.MustCompile(`^(?i:see(?:,)?(?:\s+also)?|e\.g\.|accord|citing|cf\.|but\s+see|compare|quoting|contra)[,:]?\s+`)

// trailYearRe removes a trailing parenthetical year fragment, with or
// without a closing parenthesis.
var trailYearRe = regexp.MustCompile(`\s*\(\d{0,4}\)?\s*$`)

// trailFragRe trims one trailing citation fragment: a bare volume or page
// number, a reporter abbreviation, or a pincite marker. Applied repeatedly
// until the name stabilizes, so "Smith, 200 Wn.2d" reduces to "Smith".
var trailFragRe = regexp.MustCompile(`(?i)[,;\s]+(?:\d{1,5}|at|wn\.(?:\s?(?:2d|app\.))?|wash\.(?:\s?(?:2d|app\.))?|p\.(?:2d|3d)?|f\.(?:2d|3d|4th|supp\.)?|supp\.(?:\s?(?:2d|3d))?|u\.s\.|s\.\s?ct\.|l\.\s?ed\.(?:\s?2d)?)\.?$`)

// proceduralTokens are legal-procedural words that signal the candidate
// captured surrounding prose rather than a case name. Two or more
// occurrences reject the candidate as contamination.
var proceduralTokens = []string{
	"accepted", "certification", "standing", "de novo", "remanded",
	"certiorari", "rehearing", "granted", "denied", "review",
}

// nameMarkers is the set of substrings at least one of which every valid
// case name must contain.
var nameMarkers = []string{" v. ", " vs. ", " versus ", "In re ", "Estate of ", "Matter of ", "Ex parte "}

// cleanName strips leading signal words and trailing citation fragments
// from a raw pattern match.
func cleanName(raw string) string {
	name := strings.TrimSpace(raw)

	for {
		stripped := signalRe.ReplaceAllString(name, "")
		if stripped == name {
			break
		}
		name = stripped
	}

	name = trailYearRe.ReplaceAllString(name, "")
	for {
		trimmed := trailFragRe.ReplaceAllString(name, "")
		trimmed = strings.TrimRight(trimmed, ",; ")
		if trimmed == name {
			break
		}
		name = trimmed
	}

	return strings.TrimSpace(name)
}

// validateName reports whether a cleaned candidate is acceptable as a case
// name under the engine's length bounds. Rejections: out-of-bounds length,
// two or more procedural tokens (contamination), a lowercase first word
// (mid-phrase truncation, e.g. "agit Indian Tribe"), or no versus-style
// marker at all.
func validateName(name string, minLen, maxLen int) bool {
	if len(name) < minLen || len(name) > maxLen {
		return false
	}

	lower := strings.ToLower(name)
	procedural := 0
	for _, tok := range proceduralTokens {
		procedural += strings.Count(lower, tok)
	}
	if procedural >= 2 {
		return false
	}

	first, _ := firstRune(name)
	if unicode.IsLower(first) {
		return false
	}

	for _, marker := range nameMarkers {
		if strings.Contains(name, marker) || strings.HasPrefix(name, strings.TrimLeft(marker, " ")) {
			return true
		}
	}
	return false
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
