// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ToAEntry is one row parsed from a brief's Table of Authorities. Citations
// listed on the same row are parallel by construction. Per prd003-authorities
// R1.2, R3.1-R3.4.
type ToAEntry struct {
	// CaseName is the case name as printed in the table.
	CaseName string `json:"case_name" yaml:"case_name"`

	// Citations are the citation strings on the row, deduplicated, capped
	// at 10 to bound pathological repetition.
	Citations []string `json:"citations" yaml:"citations"`

	// Years are the plausible decision years (1900-2030) found on the row,
	// capped at 3.
	Years []string `json:"years" yaml:"years"`

	// PageNumbers are the brief page references trailing the entry.
	PageNumbers []string `json:"page_numbers,omitempty" yaml:"page_numbers,omitempty"`

	// Confidence reflects which entry pattern matched: 0.9 for a structured
	// pattern, 0.5 for the loose fallback.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// SourceLine preserves the raw table row for audit.
	SourceLine string `json:"source_line" yaml:"source_line"`
}
