package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-analyst/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for catalog queries.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the number of entries requested from the catalog
	// when the caller does not specify a count (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// StorageConfig locates the document store and the payload directory.
// Passed explicitly at construction so tests can inject temporary paths.
type StorageConfig struct {
	// StorageRoot is the directory where downloaded PDFs are written.
	StorageRoot string `json:"storage_root" yaml:"storage_root"`

	// StoreLocation is the SQLite database path for paper metadata.
	StoreLocation string `json:"store_location" yaml:"store_location"`
}

// ExtractConfig holds settings for document text extraction.
type ExtractConfig struct {
	// MaxContextChars caps the extracted context per document
	// (default 1280).
	MaxContextChars int `json:"max_context_chars" yaml:"max_context_chars"`
}

// CompletionConfig holds settings for the completion backend.
type CompletionConfig struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the generated continuation length (default 500).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries caps retries for rate-limited calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Extract    ExtractConfig    `json:"extract" yaml:"extract"`
	Completion CompletionConfig `json:"completion" yaml:"completion"`
}
