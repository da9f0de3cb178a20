// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package casename

import (
	"regexp"
	"strconv"
)

var (
	// parenYearRe matches a parenthetical year, possibly with a court
	// prefix, e.g. "(2022)" or "(9th Cir. 2020)".
	parenYearRe = regexp.MustCompile(`\((?:[^()\d]{0,25})?(\d{4})\)`)

	// bareYearRe matches a standalone 4-digit year.
	bareYearRe = regexp.MustCompile(`\b(\d{4})\b`)
)

// yearInRange reports whether a 4-digit string is a plausible decision year.
func yearInRange(year string) bool {
	n, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	return n >= 1900 && n <= 2030
}

// extractYear searches a bounded window of text following the citation for
// a decision year: a parenthetical year first, then a bare in-range year.
// Returns empty when neither is present — a valid outcome, not an error.
func extractYear(doc string, from, window int) string {
	if from < 0 {
		from = 0
	}
	if from > len(doc) {
		return ""
	}
	to := from + window
	if to > len(doc) {
		to = len(doc)
	}
	region := doc[from:to]

	for _, m := range parenYearRe.FindAllStringSubmatch(region, -1) {
		if yearInRange(m[1]) {
			return m[1]
		}
	}
	for _, m := range bareYearRe.FindAllStringSubmatch(region, -1) {
		if yearInRange(m[1]) {
			return m[1]
		}
	}
	return ""
}
