// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lcad/sitegen/pkg/types"
)

// Home-page injection zones. These element IDs are the contract between
// the generator and the hand-authored index.html: the generator rewrites
// only these elements and leaves everything around them alone. Renaming
// one in the template breaks generation, so their absence is a hard error
// rather than a silent no-op.
var homeInjectionPoints = []string{
	"#citations-count",
	"#h-index",
	"#i10-index",
	"#publications-list",
	"#metrics-updated",
}

// HomePage updates the metrics widget of the hand-authored home page with
// figures from the metrics snapshot. The stamp shown next to the widget is
// the snapshot's fetch time, so regenerating from an unchanged snapshot is
// byte-stable.
func (r *Renderer) HomePage(in []byte, metrics *types.MetricsRecord) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("parsing home page: %w", err)
	}

	for _, sel := range homeInjectionPoints {
		if doc.Find(sel).Length() == 0 {
			return nil, fmt.Errorf("injection point %s not found in home page", sel)
		}
	}

	setFigure(doc, "#citations-count", metrics.Metrics.Citations)
	setFigure(doc, "#h-index", metrics.Metrics.HIndex)
	setFigure(doc, "#i10-index", metrics.Metrics.I10Index)

	doc.Find("#metrics-updated").SetText(
		"Last updated: " + metrics.LastUpdated.Format("January 2006"))

	cards, err := r.homeCards(metrics.TopPublications)
	if err != nil {
		return nil, err
	}
	doc.Find("#publications-list").SetHtml("\n" + cards)

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("serializing home page: %w", err)
	}
	return []byte(out), nil
}

// setFigure rewrites both the machine-readable data-value attribute and the
// displayed, thousands-separated figure.
func setFigure(doc *goquery.Document, sel string, n int) {
	el := doc.Find(sel)
	el.SetAttr("data-value", strconv.Itoa(n))
	el.SetText(formatCount(n))
}

// homeCard is the view model for one top-publication card on the home page.
type homeCard struct {
	Title          string
	URL            string
	Authors        string
	VenueLine      string
	CitationsLabel string
}

func (r *Renderer) homeCards(pubs []types.PublicationSummary) (string, error) {
	cards := make([]homeCard, len(pubs))
	for i, p := range pubs {
		card := homeCard{
			Title:          p.Title,
			URL:            p.URL,
			Authors:        p.Authors,
			VenueLine:      p.Venue,
			CitationsLabel: formatCount(p.Citations) + " citations",
		}
		if card.URL == "" {
			card.URL = "#"
		}
		if p.Year > 0 {
			if card.VenueLine != "" {
				card.VenueLine += ", "
			}
			card.VenueLine += strconv.Itoa(p.Year)
		}
		cards[i] = card
	}

	var buf strings.Builder
	if err := pageTemplates.ExecuteTemplate(&buf, "homecards.html.tmpl", cards); err != nil {
		return "", fmt.Errorf("rendering publication cards: %w", err)
	}
	return buf.String(), nil
}
