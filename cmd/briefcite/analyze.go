// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/briefcite/internal/pipeline"
	"github.com/meshintel/briefcite/internal/verify"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [documents...]",
	Short: "Run the full citation pipeline over brief text files",
	Long: `Analyze locates every citation in each document, extracts case names
and decision years, parses the Table of Authorities, clusters parallel
citations, and reconciles the stages into one record per citation.

A single document prints its analysis to stdout; multiple documents are
processed concurrently and written as [stem].yaml files under --out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}

	provider, err := verificationProvider(cmd)
	if err != nil {
		return err
	}
	analyzer := pipeline.NewAnalyzer(cfg, provider)

	outDir, _ := cmd.Flags().GetString("out")
	if len(args) > 1 || outDir != "" {
		if outDir == "" {
			outDir = "analyses"
		}
		summary, err := analyzer.AnalyzeAll(context.Background(), args, outDir, os.Stdout)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d document(s) failed analysis", summary.Failed)
		}
		return nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	known, _ := cmd.Flags().GetStringArray("known")
	analysis, err := analyzer.Analyze(context.Background(), pipeline.Request{
		DocumentID:     docStem(args[0]),
		Text:           string(data),
		KnownCitations: known,
	})
	if err != nil {
		return err
	}
	for _, c := range analysis.SkippedCitations {
		fmt.Fprintf(os.Stderr, "warning: known citation %q not found in document\n", c)
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		out, err := yaml.Marshal(analysis)
		if err != nil {
			return fmt.Errorf("encoding analysis: %w", err)
		}
		os.Stdout.Write(out)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// docStem is the file name without directory or extension, used as the
// document identifier.
func docStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// verificationProvider loads the optional verification records file.
func verificationProvider(cmd *cobra.Command) (verify.Provider, error) {
	path, _ := cmd.Flags().GetString("verifications")
	if path == "" {
		return nil, nil
	}
	return verify.LoadFile(path)
}

func init() {
	analyzeCmd.Flags().String("out", "", "output directory for batch analyses (default: analyses)")
	analyzeCmd.Flags().String("format", "yaml", "single-document output format: yaml or json")
	analyzeCmd.Flags().String("verifications", "", "YAML file of externally produced verification records")
	analyzeCmd.Flags().StringArray("known", nil, "citation known to appear in the document (repeatable; single document only)")
	analyzeCmd.Flags().Int("workers", 0, "concurrent documents in batch mode (0 = default)")

	rootCmd.AddCommand(analyzeCmd)
}
