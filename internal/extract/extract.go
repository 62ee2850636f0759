// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract converts stored PDF documents into a bounded, cleaned
// text window suitable as model input.
package extract

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxChars is the context cap applied when the caller does not
// specify one.
const DefaultMaxChars = 1280

// referencesMarker is the raw-text sequence that signals the start of
// the bibliography: the section heading immediately followed by the
// first citation on the next line. Detection runs on raw page text,
// before cleaning strips the citation marker.
const referencesMarker = "REFERENCES\n[1]"

// endOfContent is the sentinel appended to the accumulated text when
// the bibliography is detected and further pages are dropped.
const endOfContent = " [EOP]"

// ErrUnreadable indicates a document that cannot be opened or parsed.
var ErrUnreadable = errors.New("document unreadable")

var (
	// citeRe matches bracketed numeric citation markers like [1], [12].
	citeRe = regexp.MustCompile(`\[\d+\]`)

	// spaceRe matches whitespace runs for collapsing.
	spaceRe = regexp.MustCompile(`\s+`)
)

// cleanPage strips citation markers from one page of raw text and
// collapses whitespace runs to single spaces. The returned flag reports
// whether the page contains the bibliography start; when it does, the
// end-of-content sentinel is already appended to the cleaned text.
func cleanPage(raw string) (string, bool) {
	last := strings.Contains(raw, referencesMarker)
	if last {
		raw += endOfContent
	}
	raw = citeRe.ReplaceAllString(raw, "")
	return spaceRe.ReplaceAllString(raw, " "), last
}

// accumulate walks raw page texts in document order, cleaning each and
// appending it to the context window. Processing stops after the page
// that starts the bibliography, or as soon as the accumulated length
// exceeds maxChars, in which case the result is truncated to exactly
// maxChars. The cap takes precedence over the bibliography marker.
func accumulate(pages []string, maxChars int) string {
	var text string
	for _, raw := range pages {
		cleaned, last := cleanPage(raw)
		text += cleaned

		if runes := []rune(text); len(runes) > maxChars {
			return string(runes[:maxChars])
		}
		if last {
			break
		}
	}
	return text
}

// Text extracts the bounded context window from the PDF at path. A
// maxChars of zero or less applies DefaultMaxChars. A document that
// cannot be opened or parsed yields an error wrapping ErrUnreadable;
// pages whose text layer cannot be read are skipped.
func Text(path string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, ErrUnreadable)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, ErrUnreadable)
	}

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, ErrUnreadable)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		raw, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, raw)
	}

	return accumulate(pages, maxChars), nil
}
