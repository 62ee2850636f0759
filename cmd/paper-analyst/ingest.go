package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-analyst/internal/catalog"
	"github.com/pdiddy/paper-analyst/internal/ingest"
	"github.com/pdiddy/paper-analyst/internal/store"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "paper-analyst/0.1"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch papers from the arXiv catalog into the local store",
	Long: `Ingest queries the arXiv export API for papers matching a search keyword,
filters them by a submission-date floor, downloads their PDFs, and upserts
metadata into the local store. A failed PDF download keeps the metadata
with an empty file path and does not abort the batch.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("query", "", "search keyword (required)")
	ingestCmd.Flags().Int("max-results", 10, "number of papers to request")
	ingestCmd.Flags().Int("start-year", 2019, "keep papers published on or after Jan 1 of this year")
	ingestCmd.Flags().String("storage-root", "", "directory for downloaded PDFs")
	ingestCmd.Flags().String("store", "", "SQLite database path for paper metadata")
	ingestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(ingestCmd)
}

func storageConfig(cmd *cobra.Command) types.StorageConfig {
	storageRoot, _ := cmd.Flags().GetString("storage-root")
	if storageRoot == "" {
		storageRoot = viper.GetString("storage.storage_root")
	}
	storeLocation, _ := cmd.Flags().GetString("store")
	if storeLocation == "" {
		storeLocation = viper.GetString("storage.store_location")
	}
	return types.StorageConfig{
		StorageRoot:   storageRoot,
		StoreLocation: storeLocation,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		return fmt.Errorf("provide a search keyword with --query")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	startYear, _ := cmd.Flags().GetInt("start-year")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	httpCfg := types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent}
	client := &http.Client{Timeout: timeout}

	st, err := store.New(storageConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	pipeline := &ingest.Pipeline{
		Catalog: &catalog.Client{Client: client, Config: types.CatalogConfig{HTTPConfig: httpCfg}},
		Fetcher: &ingest.Fetcher{Client: client, Config: httpCfg},
		Store:   st,
		Storage: storageConfig(cmd),
	}

	fmt.Fprintf(os.Stdout, "Fetching papers related to %q from %d onwards...\n", query, startYear)

	result, err := pipeline.Run(cmd.Context(), query, maxResults, startYear, os.Stdout)
	if err != nil {
		return err
	}

	for _, outcome := range result.Outcomes {
		printOutcome(outcome)
	}
	if result.HasFailures() {
		fmt.Fprintf(os.Stderr, "warning: %d paper(s) stored without a PDF\n", result.FetchFailed)
	}
	return nil
}

func printOutcome(outcome types.IngestionOutcome) {
	p := outcome.Paper
	fmt.Printf("\n%s\n", p.Title)
	fmt.Printf("  ID:       %s\n", p.PaperID)
	fmt.Printf("  Authors:  %s\n", joinAuthors(p.Authors))
	fmt.Printf("  Journal:  %s\n", p.Journal)
	if p.DOI != "" {
		fmt.Printf("  DOI:      %s\n", p.DOI)
	}
	fmt.Printf("  Date:     %s\n", p.SubmissionDate.Format("2006-01-02"))
	if outcome.Fetched {
		fmt.Printf("  PDF:      %s\n", p.PDFFilePath)
	} else {
		fmt.Printf("  PDF:      (not downloaded)\n")
	}
}

func joinAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	default:
		return authors[0] + " et al."
	}
}
