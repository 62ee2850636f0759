package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-analyst/internal/analyze"
	"github.com/pdiddy/paper-analyst/internal/completion"
	"github.com/pdiddy/paper-analyst/internal/extract"
	"github.com/pdiddy/paper-analyst/internal/secrets"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Ask a question over one or more stored PDFs",
	Long: `Analyze extracts a bounded text context from the named PDF files, in the
order given, and sends it with the query to the completion backend. Bare
filenames are resolved against the storage root. Unreadable files are
skipped with a warning.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("files", "", "comma-separated PDF file names (required)")
	analyzeCmd.Flags().String("query", "", "question to ask (required)")
	analyzeCmd.Flags().Int("max-chars", 0, "context cap per document (default 1280)")
	analyzeCmd.Flags().String("model", "", "completion model identifier")
	analyzeCmd.Flags().String("api-key", "", "completion API key (default: .secrets/anthropic-api-key)")
	analyzeCmd.Flags().String("storage-root", "", "directory holding downloaded PDFs")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	fileList, _ := cmd.Flags().GetString("files")
	userQuery, _ := cmd.Flags().GetString("query")
	if fileList == "" || userQuery == "" {
		return fmt.Errorf("provide both --files and --query")
	}

	var files []string
	for _, f := range strings.Split(fileList, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}

	maxChars, _ := cmd.Flags().GetInt("max-chars")
	if maxChars <= 0 {
		maxChars = extract.DefaultMaxChars
	}
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("completion.model")
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	apiKey = secrets.Get(loadedSecrets, "anthropic-api-key", apiKey)
	if apiKey == "" {
		return fmt.Errorf("no API key: pass --api-key or create .secrets/anthropic-api-key")
	}

	storageRoot, _ := cmd.Flags().GetString("storage-root")
	if storageRoot == "" {
		storageRoot = viper.GetString("storage.storage_root")
	}

	cfg := types.PipelineConfig{
		Storage: types.StorageConfig{StorageRoot: storageRoot},
		Extract: types.ExtractConfig{MaxContextChars: maxChars},
		Completion: types.CompletionConfig{
			Model:  model,
			APIKey: apiKey,
		},
	}

	backend := &completion.ClaudeBackend{
		Config: cfg.Completion,
		Client: &http.Client{Timeout: 120 * time.Second},
	}

	reply, err := analyze.Run(cmd.Context(), backend, files, userQuery, cfg, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}
