// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists per-document citation analyses and builds a
// searchable index over resolved case names.
// Implements: prd006-persistence (R1-R3).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/briefcite/internal/reconcile"
	"github.com/meshintel/briefcite/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "briefcite.db"
)

// Store manages the analysis index SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the analysis database at dataDir/index/briefcite.db.
// It creates the schema if it does not exist (R1.2, R1.3).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			citation_count INTEGER,
			toa_count INTEGER,
			cluster_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT NOT NULL REFERENCES documents(id),
			citation TEXT NOT NULL,
			citation_key TEXT NOT NULL,
			start_offset INTEGER,
			end_offset INTEGER,
			case_name TEXT,
			year TEXT,
			confidence REAL,
			method TEXT,
			source TEXT,
			cluster_id TEXT,
			is_parallel INTEGER,
			verified INTEGER,
			url TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_document_id ON citations(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_key ON citations(citation_key)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_cluster_id ON citations(cluster_id)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			document_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='citations_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE citations_fts USING fts5(case_name, citation, content=citations, content_rowid=rowid)`,
			`CREATE TRIGGER citations_ai AFTER INSERT ON citations BEGIN
				INSERT INTO citations_fts(rowid, case_name, citation) VALUES (new.rowid, new.case_name, new.citation);
			END`,
			`CREATE TRIGGER citations_ad AFTER DELETE ON citations BEGIN
				INSERT INTO citations_fts(citations_fts, rowid, case_name, citation) VALUES('delete', old.rowid, old.case_name, old.citation);
			END`,
			`CREATE TRIGGER citations_au AFTER UPDATE ON citations BEGIN
				INSERT INTO citations_fts(citations_fts, rowid, case_name, citation) VALUES('delete', old.rowid, old.case_name, old.citation);
				INSERT INTO citations_fts(rowid, case_name, citation) VALUES (new.rowid, new.case_name, new.citation);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an analysis indexing run (R2.4).
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of documents processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads analysis YAML files from analysesDir and populates the
// database. It detects new, changed, and unchanged files for incremental
// updates (R2.1-R2.4).
func (s *Store) Ingest(ctx context.Context, analysesDir string, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(analysesDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading analyses directory %s: %w", analysesDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		docID := strings.TrimSuffix(entry.Name(), ".yaml")
		filePath := filepath.Join(analysesDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		// Check whether the file has changed since last indexing (R2.1, R2.3).
		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE document_id = ?`, docID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", docID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		var analysis types.Analysis
		if err := yaml.Unmarshal(data, &analysis); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", docID, err)
			summary.Failed++
			continue
		}
		if analysis.DocumentID == "" {
			analysis.DocumentID = docID
		}

		if err := s.ingestDocument(ctx, docID, &analysis, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d citations)\n", docID, len(analysis.Citations))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d citations)\n", docID, len(analysis.Citations))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestDocument(ctx context.Context, docID string, analysis *types.Analysis, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove old citations if updating (R2.2).
	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE document_id = ?`, docID); err != nil {
			return fmt.Errorf("deleting old citations: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, citation_count, toa_count, cluster_count)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			citation_count=excluded.citation_count, toa_count=excluded.toa_count,
			cluster_count=excluded.cluster_count`,
		docID, len(analysis.Citations), len(analysis.ToA), len(analysis.Clusters),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (document_id, citation, citation_key, start_offset, end_offset,
			case_name, year, confidence, method, source, cluster_id, is_parallel, verified, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range analysis.Citations {
		_, err := stmt.ExecContext(ctx,
			docID, c.Citation, reconcile.Normalize(c.Citation), c.Start, c.End,
			c.CaseName, c.Year, c.Confidence, c.Method, c.Source,
			c.ClusterID, c.IsParallel, c.Verified, c.URL,
		)
		if err != nil {
			return fmt.Errorf("inserting citation %s: %w", c.Citation, err)
		}
	}

	// Update ingest status (R2.1).
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (document_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		docID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}
