// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar fetches bibliometric figures for a single author from a
// public Google Scholar profile page and persists them as a whole-file JSON
// snapshot. The fetch is best-effort: any failure leaves the previous
// snapshot untouched and the pipeline continues with last-known-good data.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/lcad/sitegen/internal/fsutil"
	"github.com/lcad/sitegen/internal/httputil"
	"github.com/lcad/sitegen/pkg/types"
)

// profileBase is the Google Scholar citations endpoint. Declared as a var
// so tests can substitute an httptest server.
var profileBase = "https://scholar.google.com/citations"

const defaultTopN = 5

// Fetcher retrieves author metrics from a Scholar profile page.
type Fetcher struct {
	Client *http.Client

	// Now supplies the snapshot timestamp; tests pin it. Nil means time.Now.
	Now func() time.Time
}

// Fetch downloads and parses the profile page for cfg.AuthorID. It returns
// an error on any network, HTTP, or parse failure; it never touches the
// snapshot file.
func (f *Fetcher) Fetch(ctx context.Context, cfg types.ScholarConfig) (*types.MetricsRecord, error) {
	if cfg.AuthorID == "" {
		return nil, fmt.Errorf("no Scholar author ID configured")
	}

	params := url.Values{
		"user":     {cfg.AuthorID},
		"hl":       {"en"},
		"pagesize": {"100"},
	}
	reqURL := profileBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Scholar profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Scholar profile returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing profile page: %w", err)
	}

	record, err := parseProfile(doc, cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	record.LastUpdated = now().UTC().Truncate(time.Second)
	return record, nil
}

// Refresh fetches fresh metrics and atomically replaces the snapshot at
// cfg.MetricsFile. On fetch failure it falls back to the existing snapshot,
// printing a warning, so downstream generation keeps working. The fresh
// return value reports whether the snapshot was actually updated. Refresh
// fails only when the fetch fails and no previous snapshot exists.
func (f *Fetcher) Refresh(ctx context.Context, cfg types.ScholarConfig, w io.Writer) (record *types.MetricsRecord, fresh bool, err error) {
	record, fetchErr := f.Fetch(ctx, cfg)
	if fetchErr == nil {
		if err := save(record, cfg.MetricsFile); err != nil {
			return nil, false, err
		}
		fmt.Fprintf(w, "metrics updated: %d citations, h-index %d, i10-index %d\n",
			record.Metrics.Citations, record.Metrics.HIndex, record.Metrics.I10Index)
		return record, true, nil
	}

	fmt.Fprintf(w, "warning: metrics fetch failed: %v\n", fetchErr)

	existing, loadErr := Load(cfg.MetricsFile)
	if loadErr != nil {
		return nil, false, fmt.Errorf("fetch failed and no usable snapshot at %s: %w", cfg.MetricsFile, loadErr)
	}
	fmt.Fprintf(w, "keeping previous metrics from %s\n", existing.LastUpdated.Format("2006-01-02"))
	return existing, false, nil
}

// Load reads a metrics snapshot from disk.
func Load(path string) (*types.MetricsRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metrics snapshot: %w", err)
	}
	var record types.MetricsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing metrics snapshot %s: %w", path, err)
	}
	return &record, nil
}

func save(record *types.MetricsRecord, path string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metrics snapshot: %w", err)
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// parseProfile extracts the metrics record from the profile DOM. The
// element identifiers below are the scrape contract with Scholar's profile
// layout; a missing stats table means the layout changed or the request
// was served a block page, and the whole fetch is rejected.
func parseProfile(doc *goquery.Document, cfg types.ScholarConfig) (*types.MetricsRecord, error) {
	stats := doc.Find("#gsc_rsb_st")
	if stats.Length() == 0 {
		return nil, fmt.Errorf("metrics table #gsc_rsb_st not found (blocked or profile layout changed)")
	}

	// First column of each stats row is the "All" figure: citations,
	// h-index, i10-index in that order.
	var figures []int
	stats.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td.gsc_rsb_std").First()
		if cell.Length() == 0 {
			return
		}
		figures = append(figures, parseCount(cell.Text()))
	})
	if len(figures) < 3 {
		return nil, fmt.Errorf("metrics table has %d figures, want 3", len(figures))
	}

	record := &types.MetricsRecord{
		Author: types.AuthorInfo{
			Name:        strings.TrimSpace(doc.Find("#gsc_prf_in").Text()),
			Affiliation: strings.TrimSpace(doc.Find(".gsc_prf_il").First().Text()),
			ScholarID:   cfg.AuthorID,
		},
		Metrics: types.CitationMetrics{
			Citations: figures[0],
			HIndex:    figures[1],
			I10Index:  figures[2],
		},
	}

	doc.Find("#gsc_a_b tr.gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("td.gsc_a_t a.gsc_a_at")
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		pub := types.PublicationSummary{
			Title:     title,
			Citations: parseCount(row.Find("td.gsc_a_c a").First().Text()),
			Year:      parseCount(row.Find("td.gsc_a_y span").First().Text()),
		}
		if href, ok := link.Attr("href"); ok && href != "" {
			pub.URL = resolveProfileURL(href)
		}

		// The two gray lines under the title are the author line and the venue.
		gray := row.Find("td.gsc_a_t div.gs_gray")
		if gray.Length() > 0 {
			pub.Authors = strings.TrimSpace(gray.Eq(0).Text())
		}
		if gray.Length() > 1 {
			pub.Venue = strings.TrimSpace(gray.Eq(1).Text())
		}

		record.TopPublications = append(record.TopPublications, pub)
	})

	record.TopPublications = rankPublications(record.TopPublications, cfg.TopN)
	return record, nil
}

// rankPublications sorts by citation count descending and keeps the top n.
// Ties break by title so repeated fetches are deterministic.
func rankPublications(pubs []types.PublicationSummary, n int) []types.PublicationSummary {
	if n <= 0 {
		n = defaultTopN
	}
	if n > types.MaxTopPublications {
		n = types.MaxTopPublications
	}

	sort.SliceStable(pubs, func(i, j int) bool {
		if pubs[i].Citations != pubs[j].Citations {
			return pubs[i].Citations > pubs[j].Citations
		}
		return strings.ToLower(pubs[i].Title) < strings.ToLower(pubs[j].Title)
	})

	if len(pubs) > n {
		pubs = pubs[:n]
	}
	return pubs
}

// parseCount converts a figure like "8,300" or "45" to an int. Missing or
// non-numeric text (an empty citation cell, an asterisk) yields 0.
func parseCount(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimSuffix(s, "*")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// resolveProfileURL makes profile-relative publication links absolute.
func resolveProfileURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(profileBase)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
