// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog queries the arXiv export API and normalizes entries
// into paper metadata records.
package catalog

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/paper-analyst/internal/httputil"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ErrCatalogUnavailable indicates a non-success response from the
// catalog. The whole batch is aborted when it occurs.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Client queries the arXiv catalog.
type Client struct {
	Client *http.Client
	Config types.CatalogConfig
}

// Search issues a single paginated request starting at offset 0 for
// maxResults entries and returns the parsed metadata. Only entries
// published on or after January 1 of startYear are retained; entries
// below the floor are silently dropped. Malformed entries are skipped
// with a warning to w and do not abort the batch.
func (c *Client) Search(ctx context.Context, query string, maxResults, startYear int, w io.Writer) ([]types.PaperMetadata, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty catalog query")
	}

	if maxResults <= 0 {
		maxResults = c.Config.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d",
		arxivAPIBase, url.QueryEscape(query), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d: %w", resp.StatusCode, ErrCatalogUnavailable)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	floor := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)

	var papers []types.PaperMetadata
	for _, entry := range feed.Entries {
		paper, err := parseEntry(entry)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping malformed entry: %v\n", err)
			continue
		}
		if paper.SubmissionDate.Before(floor) {
			continue
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

// parseEntry normalizes one Atom entry. The paper ID is the trailing
// path segment of the entry's canonical URL; journal and DOI default to
// sentinel values when absent.
func parseEntry(entry arxivEntry) (types.PaperMetadata, error) {
	id := trailingSegment(entry.ID)
	if id == "" {
		return types.PaperMetadata{}, fmt.Errorf("entry has no usable id (%q)", entry.ID)
	}

	date, err := parsePublished(entry.Published)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("entry %s: %w", id, err)
	}

	paper := types.PaperMetadata{
		PaperID:        id,
		Title:          strings.TrimSpace(entry.Title),
		Abstract:       strings.TrimSpace(entry.Summary),
		Journal:        types.JournalUnknown,
		DOI:            strings.TrimSpace(entry.DOI),
		SubmissionDate: date,
	}

	if s := strings.TrimSpace(entry.Source); s != "" {
		paper.Journal = s
	}
	for _, a := range entry.Authors {
		paper.Authors = append(paper.Authors, strings.TrimSpace(a.Name))
	}
	if len(entry.Links) > 0 {
		paper.SourceURL = entry.Links[0].Href
	}
	return paper, nil
}

// parsePublished parses the publication timestamp, discarding the
// time-of-day component. Accepts both full RFC 3339 stamps and bare
// dates.
func parsePublished(published string) (time.Time, error) {
	datePart := published
	if idx := strings.IndexByte(published, 'T'); idx >= 0 {
		datePart = published[:idx]
	}
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable published date %q", published)
	}
	return t, nil
}

// trailingSegment returns the last path segment of an entry URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041v1").
func trailingSegment(idURL string) string {
	idURL = strings.TrimSpace(idURL)
	if idx := strings.LastIndexByte(idURL, '/'); idx >= 0 {
		idURL = idURL[idx+1:]
	}
	return idURL
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Source    string        `xml:"source"`
	DOI       string        `xml:"http://arxiv.org/schemas/atom doi"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
}
