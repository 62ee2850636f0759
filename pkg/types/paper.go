// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model and stage configuration shared
// across the paper-analyst pipeline.
package types

import "time"

// JournalUnknown is the sentinel stored when a catalog entry carries no
// journal reference.
const JournalUnknown = "N/A"

// PaperMetadata holds the normalized metadata for one catalog entry.
// It is the only durable entity: one row per distinct paper ID in the
// research_papers table.
type PaperMetadata struct {
	// PaperID is the trailing path segment of the entry's canonical URL
	// (e.g. "2301.07041v1"). Primary key.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in feed order. Persisted as a
	// single comma-delimited string.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Journal is the journal reference, or JournalUnknown when the
	// catalog entry has none.
	Journal string `json:"journal" yaml:"journal"`

	// DOI is the digital object identifier. Empty when absent; stored
	// as SQL NULL.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// SubmissionDate is the publication date with the time-of-day
	// component discarded.
	SubmissionDate time.Time `json:"submission_date" yaml:"submission_date"`

	// PDFFilePath is the local path of the downloaded payload. Empty
	// string means metadata-only: the fetch failed or was never
	// attempted, and the extractor must not read it.
	PDFFilePath string `json:"pdf_file_path" yaml:"pdf_file_path"`

	// SourceURL is the entry's abstract-page link, used to derive the
	// PDF URL. Not persisted.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// IngestionOutcome records the result of processing one catalog entry.
// Transient: it surfaces through the batch report only.
type IngestionOutcome struct {
	Paper PaperMetadata `json:"paper" yaml:"paper"`

	// Fetched reports whether the PDF payload download succeeded.
	Fetched bool `json:"fetched" yaml:"fetched"`

	// FetchError describes the payload failure when Fetched is false.
	FetchError string `json:"fetch_error,omitempty" yaml:"fetch_error,omitempty"`
}
