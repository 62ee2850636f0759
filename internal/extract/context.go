// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
)

// extractText extracts one document. Declared as a var so tests can
// substitute a stub.
var extractText = Text

// BuildContext extracts each document and concatenates the results in
// the order given, with no separator between documents. An unreadable
// document is skipped with a warning on w rather than aborting the
// whole context, matching ingestion's partial-failure policy. The
// returned string is request-scoped and never persisted.
func BuildContext(documents []string, maxChars int, w io.Writer) string {
	var context string
	for _, doc := range documents {
		text, err := extractText(doc, maxChars)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", doc, err)
			continue
		}
		context += text
	}
	return context
}
