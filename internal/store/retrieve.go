// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/briefcite/internal/reconcile"
	"github.com/meshintel/briefcite/pkg/types"
)

// QueryOptions holds parameters for citation index queries (R3).
type QueryOptions struct {
	// Name is the FTS5 full-text search string over case names (R3.1).
	Name string

	// Citation filters by citation in any spelling variant; matching is on
	// the normalized form (R3.3).
	Citation string

	// DocumentID filters by source document (R3.4).
	DocumentID string

	// Source filters by the winning reconciliation tier (R3.5).
	Source string

	// VerifiedOnly keeps only verified citations (R3.6).
	VerifiedOnly bool

	// MaxResults limits result count. Zero uses store default (R3.2).
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Name == "" && q.Citation == "" && q.DocumentID == "" &&
		q.Source == "" && !q.VerifiedOnly
}

// Match is one indexed citation with its source document (R3.7).
type Match struct {
	DocumentID string `json:"document_id" yaml:"document_id"`
	types.ReconciledCitation
}

// Retrieve queries the citation index with optional full-text search over
// case names and structured filters (R3). Results are ranked by relevance
// for full-text queries or sorted by document and position otherwise.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Match, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Name != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT c.document_id, c.citation, c.start_offset, c.end_offset,
				c.case_name, c.year, c.confidence, c.method, c.source,
				c.cluster_id, c.is_parallel, c.verified, c.url, citations_fts.rank
			FROM citations_fts
			JOIN citations c ON c.rowid = citations_fts.rowid
			WHERE citations_fts MATCH ?`)
		args = append(args, opts.Name)
	} else {
		qb.WriteString(
			`SELECT c.document_id, c.citation, c.start_offset, c.end_offset,
				c.case_name, c.year, c.confidence, c.method, c.source,
				c.cluster_id, c.is_parallel, c.verified, c.url, 0 AS rank
			FROM citations c
			WHERE 1=1`)
	}

	if opts.Citation != "" {
		qb.WriteString(` AND c.citation_key = ?`)
		args = append(args, reconcile.Normalize(opts.Citation))
	}

	if opts.DocumentID != "" {
		qb.WriteString(` AND c.document_id = ?`)
		args = append(args, opts.DocumentID)
	}

	if opts.Source != "" {
		qb.WriteString(` AND c.source = ?`)
		args = append(args, opts.Source)
	}

	if opts.VerifiedOnly {
		qb.WriteString(` AND c.verified = 1`)
	}

	if useFTS {
		qb.WriteString(` ORDER BY citations_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY c.document_id, c.start_offset`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying citation index: %w", err)
	}
	defer rows.Close()

	var results []Match
	for rows.Next() {
		var (
			m    Match
			rank float64
		)
		if err := rows.Scan(
			&m.DocumentID, &m.Citation, &m.Start, &m.End,
			&m.CaseName, &m.Year, &m.Confidence, &m.Method, &m.Source,
			&m.ClusterID, &m.IsParallel, &m.Verified, &m.URL, &rank,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, m)
	}

	return results, rows.Err()
}

const exportLimit = 100000

// ExportYAML writes the citation index to dataDir/index/export.yaml (R3.8).
// It supports the same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	path := filepath.Join(s.dataDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
