// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/briefcite/internal/store"
	"github.com/meshintel/briefcite/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the citation index (ingest, query, export)",
	Long: `Store manages a local SQLite index built from completed analyses. Use
subcommands to ingest analysis files, query citations across documents,
or export the index.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest analysis files into the citation index",
	Long: `Ingest reads analysis YAML files from the analyses directory and indexes
them into a SQLite database with FTS5 search over case names. Unchanged
documents are skipped on subsequent runs.`,
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	analysesDir, _ := cmd.Flags().GetString("analyses-dir")
	summary, err := s.Ingest(context.Background(), analysesDir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query [case name]",
	Short: "Query the citation index with full-text search and filters",
	Long: `Query searches indexed citations using FTS5 full-text search over case
names, structured filters (citation, document, source, verified), or a
combination of both. Citation filters match any spelling variant.`,
	RunE: runStoreQuery,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a case name, --citation, --document, --source, or --verified")
	}

	results, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []store.Match, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-18s  %-44s  %-6s  %-12s  %-16s  %s\n",
		"Rank", "Citation", "Case Name", "Year", "Source", "Document", "Verified")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 116))

	for i, m := range results {
		name := m.CaseName
		if len(name) > 44 {
			name = name[:41] + "..."
		}
		doc := m.DocumentID
		if len(doc) > 16 {
			doc = doc[:13] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-18s  %-44s  %-6s  %-12s  %-16s  %t\n",
			i+1, m.Citation, name, m.Year, m.Source, doc, m.Verified)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the citation index to YAML",
	Long: `Export writes the full citation index (or a filtered subset) to
[data-dir]/index/export.yaml. Supports the same filter flags as query
for partial exports.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ExportYAML(context.Background(), queryOptsFromFlags(cmd, args)); err != nil {
		return err
	}
	dataDir, _ := cmd.Flags().GetString("data-dir")
	fmt.Printf("Exported to %s/index/export.yaml\n", dataDir)
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return store.NewStore(types.StoreConfig{
		DataDir:    dataDir,
		MaxResults: maxResults,
	})
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	name, _ := cmd.Flags().GetString("name")
	if name == "" && len(args) > 0 {
		name = strings.Join(args, " ")
	}

	citation, _ := cmd.Flags().GetString("citation")
	document, _ := cmd.Flags().GetString("document")
	source, _ := cmd.Flags().GetString("source")
	verified, _ := cmd.Flags().GetBool("verified")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Name:         name,
		Citation:     citation,
		DocumentID:   document,
		Source:       source,
		VerifiedOnly: verified,
		MaxResults:   limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("data-dir", "data", "base directory for the citation index (contains index/)")
	storeCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Ingest flags.
	storeIngestCmd.Flags().String("analyses-dir", "analyses", "directory of analysis YAML files to ingest")

	// Query flags.
	storeQueryCmd.Flags().String("name", "", "full-text search over case names")
	storeQueryCmd.Flags().String("citation", "", "filter by citation (any spelling variant)")
	storeQueryCmd.Flags().String("document", "", "filter by document ID")
	storeQueryCmd.Flags().String("source", "", "filter by reconciliation source: toa, cluster, extraction, verification, none")
	storeQueryCmd.Flags().Bool("verified", false, "keep only verified citations")
	storeQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	storeExportCmd.Flags().String("name", "", "full-text search filter for partial export")
	storeExportCmd.Flags().String("citation", "", "filter by citation for partial export")
	storeExportCmd.Flags().String("document", "", "filter by document ID for partial export")
	storeExportCmd.Flags().String("source", "", "filter by source for partial export")
	storeExportCmd.Flags().Bool("verified", false, "export only verified citations")
	storeExportCmd.Flags().Int("limit", 0, "maximum citations to export (0 = all)")

	// Wire subcommands.
	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
