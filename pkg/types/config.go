// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExtractionConfig holds tunables for the case-name and date extractor.
// The numeric bounds are defaults with approximate intent, not guaranteed
// constants; all are overridable from the config file.
// Per prd002-casename R5.1-R5.4.
type ExtractionConfig struct {
	// ContextWindow is how far before the citation the context strategy
	// looks (default 150 characters). Never after: looking ahead risks
	// capturing the next citation's case name.
	ContextWindow int `json:"context_window" yaml:"context_window"`

	// VolumeWindow is the backward window for the volume strategy
	// (default 100).
	VolumeWindow int `json:"volume_window" yaml:"volume_window"`

	// PatternWindow is the widened backward window for the pattern
	// strategy (default 400).
	PatternWindow int `json:"pattern_window" yaml:"pattern_window"`

	// DateWindow is how far after the case name the year search extends
	// (default 300).
	DateWindow int `json:"date_window" yaml:"date_window"`

	// MinNameLen and MaxNameLen bound accepted case names (defaults 5, 150).
	MinNameLen int `json:"min_name_len" yaml:"min_name_len"`
	MaxNameLen int `json:"max_name_len" yaml:"max_name_len"`

	// CacheTTL and CacheSweep control the engine's memoization cache
	// (defaults 10m, 30m). Entries expire by TTL; the sweep interval is
	// the janitor period that evicts expired entries.
	CacheTTL   time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	CacheSweep time.Duration `json:"cache_sweep" yaml:"cache_sweep"`
}

// ToAConfig holds bounds for the Table of Authorities parser. Every
// regex-bearing step runs under a wall-clock deadline so pathological input
// degrades to partial results instead of hanging.
// Per prd003-authorities R2.1-R2.4, R5.1-R5.3.
type ToAConfig struct {
	// HeaderWindow is how deep into the document the section header search
	// goes (default 50000 characters).
	HeaderWindow int `json:"header_window" yaml:"header_window"`

	// SectionLookahead bounds the search for the section-ending heading
	// (default 20000); MaxSectionLen caps the section when no ending
	// heading is found (default 30000).
	SectionLookahead int `json:"section_lookahead" yaml:"section_lookahead"`
	MaxSectionLen    int `json:"max_section_len" yaml:"max_section_len"`

	// MaxChunkLen and MaxChunks bound the chunking step (defaults 5000, 200).
	MaxChunkLen int `json:"max_chunk_len" yaml:"max_chunk_len"`
	MaxChunks   int `json:"max_chunks" yaml:"max_chunks"`

	// MaxCitationsPerEntry and MaxYearsPerEntry cap repetition within one
	// entry (defaults 10, 3).
	MaxCitationsPerEntry int `json:"max_citations_per_entry" yaml:"max_citations_per_entry"`
	MaxYearsPerEntry     int `json:"max_years_per_entry" yaml:"max_years_per_entry"`

	// SectionTimeout, ParseTimeout, and ChunkTimeout are the wall-clock
	// budgets for section detection, the full parse, and each chunk
	// (defaults 30s, 120s, 5s).
	SectionTimeout time.Duration `json:"section_timeout" yaml:"section_timeout"`
	ParseTimeout   time.Duration `json:"parse_timeout" yaml:"parse_timeout"`
	ChunkTimeout   time.Duration `json:"chunk_timeout" yaml:"chunk_timeout"`
}

// ClusterConfig holds tunables for parallel-citation clustering.
// Per prd004-clustering R2.3, R4.1.
type ClusterConfig struct {
	// ProximityGap is the maximum character gap between adjacent citations
	// for the proximity rule (default 100).
	ProximityGap int `json:"proximity_gap" yaml:"proximity_gap"`

	// MinJaccard is the average pairwise name-similarity floor below which
	// a cluster is split back into singletons (default 0.7).
	MinJaccard float64 `json:"min_jaccard" yaml:"min_jaccard"`
}

// StoreConfig holds settings for the analysis store.
// Per prd006-persistence R1.2, R3.2.
type StoreConfig struct {
	// DataDir is the base directory for the store (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	ToA        ToAConfig        `json:"toa" yaml:"toa"`
	Cluster    ClusterConfig    `json:"cluster" yaml:"cluster"`
	Store      StoreConfig      `json:"store" yaml:"store"`

	// Workers bounds batch-mode concurrency (default 4).
	Workers int `json:"workers" yaml:"workers"`
}
