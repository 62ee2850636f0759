// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-analyst CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-analyst/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the paper-analyst CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-analyst",
	Short: "Retrieve scholarly papers and query them with an AI model",
	Long: `paper-analyst retrieves papers from the arXiv catalog, stores normalized
metadata and PDF payloads locally, and answers questions against a bounded
text context extracted from the stored documents.

Use "ingest" to fetch papers into the store, "analyze" to ask a question
over one or more stored PDFs, and "store" to inspect or export metadata.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-analyst.yaml or ~/.config/paper-analyst/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-analyst")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-analyst"))
		}
	}

	viper.SetEnvPrefix("PAPER_ANALYST")
	viper.AutomaticEnv()

	viper.SetDefault("storage.storage_root", "papers")
	viper.SetDefault("storage.store_location", filepath.Join("papers", "research_papers.db"))
	viper.SetDefault("completion.model", "claude-sonnet-4-5-20250929")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
