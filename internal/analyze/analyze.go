// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze builds a document context and queries the completion
// backend.
package analyze

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/paper-analyst/internal/completion"
	"github.com/pdiddy/paper-analyst/internal/extract"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// Run extracts a bounded context from the given documents, assembles
// the query prompt, and returns the backend's reply. Bare filenames are
// resolved against the storage root; absolute or relative paths are
// used as given. Unreadable documents are skipped with a warning on w.
func Run(ctx context.Context, backend completion.Backend, documents []string, userQuery string, cfg types.PipelineConfig, w io.Writer) (string, error) {
	if len(documents) == 0 {
		return "", fmt.Errorf("provide at least one document")
	}
	if userQuery == "" {
		return "", fmt.Errorf("provide a query")
	}

	paths := make([]string, len(documents))
	for i, doc := range documents {
		paths[i] = resolve(doc, cfg.Storage.StorageRoot)
	}

	fmt.Fprintf(w, "Analyzing %d file(s)...\n", len(paths))

	docContext := extract.BuildContext(paths, cfg.Extract.MaxContextChars, w)
	messages := completion.AssemblePrompt(docContext, userQuery)

	reply, err := backend.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	return reply, nil
}

// resolve joins a bare filename onto the storage root. Paths that
// already carry a directory component pass through unchanged.
func resolve(doc, storageRoot string) string {
	if storageRoot == "" || filepath.Base(doc) != doc {
		return doc
	}
	return filepath.Join(storageRoot, doc)
}
