// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the full per-document analysis: locate citations,
// parse the Table of Authorities, extract case names and years, cluster
// parallel citations, and reconcile everything into the final record.
// Implements: prd001-location R1; prd005-reconciliation R1.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/briefcite/internal/casename"
	"github.com/meshintel/briefcite/internal/cluster"
	"github.com/meshintel/briefcite/internal/locate"
	"github.com/meshintel/briefcite/internal/reconcile"
	"github.com/meshintel/briefcite/internal/toa"
	"github.com/meshintel/briefcite/internal/verify"
	"github.com/meshintel/briefcite/pkg/types"
)

// Request is one document analysis request. KnownCitations are citations the
// caller already knows appear in the document (for example from an external
// extractor); they are located by substring search and analyzed alongside
// the pattern-located ones.
type Request struct {
	DocumentID     string
	Text           string
	KnownCitations []string
}

// Analyzer owns the pipeline stages. One Analyzer is constructed per process
// and is safe for concurrent Analyze calls.
type Analyzer struct {
	cfg        types.PipelineConfig
	engine     *casename.Engine
	toaParser  *toa.Parser
	clusterer  *cluster.Clusterer
	reconciler *reconcile.Reconciler
}

// NewAnalyzer wires the stages from one config. A nil provider disables
// verification.
func NewAnalyzer(cfg types.PipelineConfig, provider verify.Provider) *Analyzer {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Analyzer{
		cfg:        cfg,
		engine:     casename.New(cfg.Extraction),
		toaParser:  toa.NewParser(cfg.ToA),
		clusterer:  cluster.New(cfg.Cluster),
		reconciler: reconcile.New(provider),
	}
}

// Analyze runs the full pipeline over one document. A document with no
// citations yields an Analysis with empty Citations, never an error.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*types.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	located := locate.Locate(req.Text)

	results := make([]types.ExtractionResult, 0, len(located.Spans)+len(req.KnownCitations))
	seen := make(map[string]bool, len(located.Spans))
	for _, span := range located.Spans {
		results = append(results, a.engine.Extract(req.Text, span.Text, span.Start, span.End))
		// Carry the locator's pattern id through to the clusterer.
		results[len(results)-1].Span.PatternID = span.PatternID
		seen[reconcile.Normalize(span.Text)] = true
	}

	// A known citation absent from the text is recorded and skipped; it
	// never discards the extractions already produced for the located ones.
	var skipped []string
	for _, citation := range req.KnownCitations {
		if seen[reconcile.Normalize(citation)] {
			continue
		}
		r, err := a.engine.ExtractBySearch(req.Text, citation)
		if err != nil {
			skipped = append(skipped, citation)
			continue
		}
		seen[reconcile.Normalize(citation)] = true
		results = append(results, r)
	}

	toaEntries := a.toaParser.Parse(ctx, req.Text)
	clustered := a.clusterer.Cluster(req.Text, results, located.Pairs)
	reconciled := a.reconciler.Reconcile(results, clustered.Clusters, toaEntries)

	return &types.Analysis{
		DocumentID:       req.DocumentID,
		Citations:        reconciled,
		ToA:              toaEntries,
		Clusters:         clustered.Clusters,
		SkippedCitations: skipped,
	}, nil
}

// BatchSummary holds counts from a batch analysis run.
type BatchSummary struct {
	Analyzed int
	Failed   int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Analyzed + s.Failed
}

// AnalyzeAll analyzes every input file concurrently, bounded by the
// configured worker count, and writes one [stem].yaml analysis per document
// into outDir. A failure on one document is reported and counted but never
// stops the batch.
func (a *Analyzer) AnalyzeAll(ctx context.Context, paths []string, outDir string, w io.Writer) (BatchSummary, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	var mu sync.Mutex
	var summary BatchSummary

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			id := docID(path)

			analysis, err := a.analyzeFile(ctx, path, id)
			if err == nil {
				err = writeAnalysis(filepath.Join(outDir, id+".yaml"), analysis)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(w, "failed   %s: %v\n", id, err)
				summary.Failed++
				return nil
			}
			fmt.Fprintf(w, "analyzed %s (%d citations)\n", id, len(analysis.Citations))
			summary.Analyzed++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\nanalyzed: %d, failed: %d\n", summary.Analyzed, summary.Failed)
	return summary, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, path, id string) (*types.Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return a.Analyze(ctx, Request{DocumentID: id, Text: string(data)})
}

func writeAnalysis(path string, analysis *types.Analysis) error {
	data, err := yaml.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing analysis: %w", err)
	}
	return nil
}

// docID is the file stem used as the document identifier.
func docID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
