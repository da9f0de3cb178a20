// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Cluster groups citations that refer to the same underlying case (true
// parallel citations). The cluster owns the agreed case name and year; each
// member keeps its own extraction result for audit. Clusters are recomputed
// per document and never persist across runs. Per prd004-clustering R1-R4.
type Cluster struct {
	// ID is a stable identifier derived from the member citations.
	ID string `json:"id" yaml:"id"`

	// CaseName is the canonical name propagated across members: the first
	// member's extracted name, or the first non-empty member name.
	CaseName string `json:"case_name" yaml:"case_name"`

	// Year is the canonical year: the last member's extracted year, or the
	// last non-empty member year.
	Year string `json:"year" yaml:"year"`

	// Members are the extraction results grouped into this cluster, in
	// document order.
	Members []ExtractionResult `json:"members" yaml:"members"`

	// Verified is true when at least one member was independently verified;
	// the remaining members are then true by parallel.
	Verified bool `json:"verified" yaml:"verified"`

	// Confidence is the mean member confidence.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Rule names the grouping rule that formed the cluster
	// (e.g. "name_year", "name", "proximity").
	Rule string `json:"rule" yaml:"rule"`
}

// VerificationResult is externally produced verification data for one
// citation. The engine consumes these records; it never performs lookups
// itself. Per prd005-reconciliation R4.1.
type VerificationResult struct {
	Verified      bool    `json:"verified" yaml:"verified"`
	CanonicalName string  `json:"canonical_name,omitempty" yaml:"canonical_name,omitempty"`
	CanonicalDate string  `json:"canonical_date,omitempty" yaml:"canonical_date,omitempty"`
	URL           string  `json:"url,omitempty" yaml:"url,omitempty"`
	Confidence    float64 `json:"confidence" yaml:"confidence"`
	Source        string  `json:"source" yaml:"source"`
}

// ReconciledCitation is the externally visible unit: one located citation
// plus its resolved case name, year, and provenance after merging ToA ground
// truth, cluster propagation, extraction, and verification.
// Per prd005-reconciliation R1-R3.
type ReconciledCitation struct {
	Citation string `json:"citation" yaml:"citation"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`

	// CaseName and Year resolve to "N/A" / "" when nothing qualified.
	CaseName string `json:"case_name" yaml:"case_name"`
	Year     string `json:"year" yaml:"year"`

	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Method is the extraction method label carried from the winning source.
	Method string `json:"method" yaml:"method"`

	// Source names the winning priority tier: "toa", "cluster",
	// "extraction", "verification", or "none".
	Source string `json:"source" yaml:"source"`

	// ClusterID is empty for citations not assigned to any cluster.
	ClusterID string `json:"cluster_id,omitempty" yaml:"cluster_id,omitempty"`

	// IsParallel is true when the citation belongs to a multi-member cluster.
	IsParallel bool `json:"is_parallel" yaml:"is_parallel"`

	// Verified is true when verification data confirmed the citation,
	// directly or by parallel.
	Verified bool `json:"verified" yaml:"verified"`

	// URL is the verification source URL when available.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Analysis is the full per-document output record: the reconciled citations
// plus the supporting ToA entries and clusters. Written as YAML by the CLI
// and ingested by the store. Per prd006-persistence R1.1.
type Analysis struct {
	// DocumentID identifies the source document (file stem for the CLI).
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Citations are ordered by document position.
	Citations []ReconciledCitation `json:"citations" yaml:"citations"`

	// ToA holds the parsed Table of Authorities, empty when none was found.
	ToA []ToAEntry `json:"toa,omitempty" yaml:"toa,omitempty"`

	// Clusters holds the parallel-citation clusters, singletons excluded.
	Clusters []Cluster `json:"clusters,omitempty" yaml:"clusters,omitempty"`

	// SkippedCitations lists caller-supplied known citations that were not
	// found in the document text. A bad known citation never discards the
	// rest of the analysis.
	SkippedCitations []string `json:"skipped_citations,omitempty" yaml:"skipped_citations,omitempty"`
}
