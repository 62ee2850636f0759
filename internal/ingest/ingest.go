// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest downloads paper payloads and records metadata,
// tolerating per-item failures.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

// Catalog is the slice of the catalog client the pipeline needs.
// Satisfied by *catalog.Client; tests supply a stub.
type Catalog interface {
	Search(ctx context.Context, query string, maxResults, startYear int, w io.Writer) ([]types.PaperMetadata, error)
}

// Store is the slice of the document store the pipeline needs.
type Store interface {
	Upsert(ctx context.Context, paper types.PaperMetadata) error
}

// PDFURL rewrites an entry's abstract-page link into its document form
// by replacing the first "abs" path element with "pdf".
func PDFURL(sourceURL string) string {
	return strings.Replace(sourceURL, "abs", "pdf", 1)
}

// PayloadFilename derives the on-disk name for a paper's PDF: the paper
// ID with "." replaced by "_", extension ".pdf".
func PayloadFilename(paperID string) string {
	return strings.ReplaceAll(paperID, ".", "_") + ".pdf"
}

// Fetcher downloads PDF payloads.
type Fetcher struct {
	Client *http.Client
	Config types.HTTPConfig
}

// Fetch downloads pdfURL to destPath. It returns true on success and
// false on any transport or non-success-status failure; a failed fetch
// is recoverable and never aborts the batch, so no error is returned
// for it. The body is written to a temp file and renamed into place so
// a partial download never lands at destPath.
func (f *Fetcher) Fetch(ctx context.Context, pdfURL, destPath string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", f.Config.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".ingest-*.tmp")
	if err != nil {
		return false
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		return false
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return false
	}
	return true
}

// BatchResult holds the outcome of one ingestion run.
type BatchResult struct {
	Fetched     int
	FetchFailed int
	Outcomes    []types.IngestionOutcome
}

// Total returns the number of catalog entries processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.FetchFailed
}

// HasFailures reports whether any payload fetch failed.
func (r BatchResult) HasFailures() bool {
	return r.FetchFailed > 0
}

// Pipeline orchestrates catalog search, payload fetch, and metadata
// upsert for a batch of requested results.
type Pipeline struct {
	Catalog Catalog
	Fetcher *Fetcher
	Store   Store
	Storage types.StorageConfig
}

// Run queries the catalog and, for each returned record, attempts the
// payload fetch and upserts the metadata regardless of fetch outcome.
// A failed fetch leaves PDFFilePath empty and surfaces a warning on w;
// each upsert is independent and durable as soon as written, with no
// rollback across items. A catalog failure aborts the whole batch.
func (p *Pipeline) Run(ctx context.Context, query string, maxResults, startYear int, w io.Writer) (BatchResult, error) {
	papers, err := p.Catalog.Search(ctx, query, maxResults, startYear, w)
	if err != nil {
		return BatchResult{}, fmt.Errorf("catalog search: %w", err)
	}

	if err := os.MkdirAll(p.Storage.StorageRoot, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating storage root: %w", err)
	}

	var result BatchResult
	for _, paper := range papers {
		destPath := filepath.Join(p.Storage.StorageRoot, PayloadFilename(paper.PaperID))
		pdfURL := PDFURL(paper.SourceURL)

		outcome := types.IngestionOutcome{Fetched: true}
		if p.Fetcher.Fetch(ctx, pdfURL, destPath) {
			paper.PDFFilePath = destPath
			result.Fetched++
		} else {
			paper.PDFFilePath = ""
			outcome.Fetched = false
			outcome.FetchError = fmt.Sprintf("payload fetch failed: %s", pdfURL)
			result.FetchFailed++
			fmt.Fprintf(w, "warning: failed to download PDF for %s\n", paper.PaperID)
		}
		outcome.Paper = paper

		if err := p.Store.Upsert(ctx, paper); err != nil {
			return result, fmt.Errorf("storing %s: %w", paper.PaperID, err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	fmt.Fprintf(w, "\nBatch summary: %d fetched, %d failed (total: %d)\n",
		result.Fetched, result.FetchFailed, result.Total())
	return result, nil
}
