// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MaxTopPublications caps the ranked publication list in a metrics snapshot.
const MaxTopPublications = 10

// AuthorInfo identifies the author whose profile is tracked.
type AuthorInfo struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
	ScholarID   string `json:"scholar_id"`
}

// CitationMetrics holds the aggregate bibliometric figures for an author.
type CitationMetrics struct {
	// Citations is the total citation count across all publications.
	Citations int `json:"citations"`

	// HIndex is the author's h-index.
	HIndex int `json:"h_index"`

	// I10Index is the number of publications with at least ten citations.
	I10Index int `json:"i10_index"`
}

// PublicationSummary is one entry of the ranked most-cited publication list.
type PublicationSummary struct {
	Title string `json:"title"`

	// Authors is the author line as published on the profile (e.g.
	// "AF De Souza, C Badue, ...").
	Authors string `json:"authors"`

	Venue string `json:"venue,omitempty"`
	Year  int    `json:"year,omitempty"`

	// Citations is the citation count for this publication.
	Citations int `json:"citations"`

	// URL links to the publication's citation page.
	URL string `json:"url,omitempty"`
}

// MetricsRecord is the scholar_metrics.json document. It is replaced
// wholesale on every successful fetch; a failed fetch leaves the previous
// snapshot on disk untouched.
type MetricsRecord struct {
	// LastUpdated is the UTC time of the fetch that produced this snapshot.
	LastUpdated time.Time `json:"last_updated"`

	Author  AuthorInfo      `json:"author"`
	Metrics CitationMetrics `json:"metrics"`

	// TopPublications is ordered by citation count descending and holds at
	// most MaxTopPublications entries.
	TopPublications []PublicationSummary `json:"top_publications"`
}
