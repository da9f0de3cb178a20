// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/briefcite/internal/toa"
)

var toaCmd = &cobra.Command{
	Use:   "toa [document]",
	Short: "Parse only the Table of Authorities from a brief",
	Long: `Toa detects and parses the document's Table of Authorities section,
printing the extracted entries (case name, citations, years, and brief
page references) as YAML. A document without a detectable table prints
an empty list.`,
	Args: cobra.ExactArgs(1),
	RunE: runToA,
}

func runToA(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	entries := toa.NewParser(cfg.ToA).Parse(context.Background(), string(data))

	out, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	os.Stdout.Write(out)
	fmt.Fprintf(os.Stderr, "%d entries\n", len(entries))
	return nil
}

func init() {
	rootCmd.AddCommand(toaCmd)
}
