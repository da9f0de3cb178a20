// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the briefcite CLI.
// Implements: prd001-location, prd002-casename, prd003-authorities,
//             prd004-clustering, prd005-reconciliation, prd006-persistence
//             (CLI surface).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/briefcite/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the briefcite CLI.
var rootCmd = &cobra.Command{
	Use:   "briefcite",
	Short: "Citation extraction and resolution for legal briefs",
	Long: `briefcite extracts legal citations from brief text, recovers each
citation's case name and decision year, parses the Table of Authorities,
groups parallel citations, and reconciles everything into one record per
citation.

Each stage is available as a subcommand: analyze runs the full pipeline,
toa parses only the Table of Authorities, and store indexes and queries
completed analyses.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./briefcite.yaml or ~/.config/briefcite/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("briefcite")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "briefcite"))
		}
	}

	viper.SetEnvPrefix("BRIEFCITE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig decodes the loaded config file into stage settings. Missing
// keys keep their zero values; the stage constructors apply defaults.
func pipelineConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return types.PipelineConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
