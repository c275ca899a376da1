// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/lcad/sitegen/internal/teaching"
	"github.com/lcad/sitegen/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// maxAuthorsShown caps the author line on publication cards.
const maxAuthorsShown = 10

// pubCard is the view model for one publication entry.
type pubCard struct {
	Year    int
	Title   string
	URL     string
	Authors string
	Venue   string

	// Color keys the year badge to the publication category.
	Color string
}

// pubsView backs the publications listing page.
type pubsView struct {
	Stamp            string
	Articles         []pubCard
	ConferencePapers []pubCard
	Books            []pubCard
	BookChapters     []pubCard
}

// PublicationsPage renders the complete publications listing grouped by
// category with per-category filters.
func (r *Renderer) PublicationsPage(data *types.LattesData) ([]byte, error) {
	view := pubsView{Stamp: r.updateStamp()}

	for _, a := range data.Articles {
		venue := a.Journal
		if a.Volume != "" {
			venue += ", Vol. " + a.Volume
		}
		if pages := strings.Trim(a.Pages, "-"); pages != "" {
			venue += ", pp. " + pages
		}
		view.Articles = append(view.Articles, newPubCard(a.PublicationBase, venue, "blue"))
	}

	for _, p := range data.ConferencePapers {
		venue := p.Event
		if venue == "" {
			venue = p.EventEN
		}
		if p.City != "" {
			venue += ", " + p.City
		}
		if p.Country != "" && p.Country != p.City {
			venue += ", " + p.Country
		}
		view.ConferencePapers = append(view.ConferencePapers, newPubCard(p.PublicationBase, venue, "green"))
	}

	for _, b := range data.Books {
		venue := ""
		if b.Publisher != "" {
			venue = "Publisher: " + b.Publisher
		}
		view.Books = append(view.Books, newPubCard(b.PublicationBase, venue, "purple"))
	}

	for _, c := range data.BookChapters {
		venue := "In: " + c.BookTitle
		if c.Publisher != "" {
			venue += " (" + c.Publisher + ")"
		}
		view.BookChapters = append(view.BookChapters, newPubCard(c.PublicationBase, venue, "orange"))
	}

	return execPage("publications.html.tmpl", view)
}

func newPubCard(base types.PublicationBase, venue, color string) pubCard {
	title := base.Title
	if title == "" {
		title = base.TitleEN
	}
	return pubCard{
		Year:    base.Year,
		Title:   title,
		URL:     doiURL(base.DOI),
		Authors: formatAuthors(base.Authors),
		Venue:   venue,
		Color:   color,
	}
}

// projCard is the view model for one project entry.
type projCard struct {
	Index int

	// Title is the curated English name when available, otherwise the
	// source-language name.
	Title string

	// Original carries the source-language name when Title is a translation.
	Original string

	// TranslationPending marks projects without a curated translation.
	TranslationPending bool

	Ongoing    bool
	StatusText string
	Period     string
	Funding    string

	// Description prefers the curated English text over the CV original.
	Description string
}

// projsView backs the projects listing page.
type projsView struct {
	Stamp     string
	Ongoing   []projCard
	Completed []projCard
	Total     int
}

// ProjectsPage renders the research projects listing, filterable by status,
// with an expand/collapse description per project. Translations must have
// been applied to the projects before calling.
func (r *Renderer) ProjectsPage(projects []types.Project) ([]byte, error) {
	view := projsView{Stamp: r.updateStamp(), Total: len(projects)}

	for i, p := range projects {
		card := projCard{
			Index:              i,
			Title:              p.Name,
			TranslationPending: p.NameEN == "",
			Ongoing:            p.Status == types.ProjectOngoing,
			StatusText:         "Completed",
			Period:             formatPeriod(p.YearStart, p.YearEnd),
			Funding:            r.formatFunding(p.Funding),
			Description:        p.Description,
		}
		if p.NameEN != "" {
			card.Title = p.NameEN
			if p.NameEN != p.Name {
				card.Original = p.Name
			}
		}
		if p.DescriptionEN != "" {
			card.Description = p.DescriptionEN
		}
		if card.Ongoing {
			card.StatusText = "Ongoing"
			view.Ongoing = append(view.Ongoing, card)
		} else {
			view.Completed = append(view.Completed, card)
		}
	}

	return execPage("projects.html.tmpl", view)
}

// teachingView backs the teaching page.
type teachingView struct {
	Stamp string
	Years []teachingYear
	Total int
}

type teachingYear struct {
	Year    int
	Courses []teaching.Course
}

// TeachingPage renders the course history grouped by year, newest first.
func (r *Renderer) TeachingPage(courses []teaching.Course) ([]byte, error) {
	view := teachingView{Stamp: r.updateStamp(), Total: len(courses)}
	years, grouped := teaching.ByYear(courses)
	for _, y := range years {
		view.Years = append(view.Years, teachingYear{Year: y, Courses: grouped[y]})
	}
	return execPage("teaching.html.tmpl", view)
}

func execPage(name string, view any) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, view); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// formatAuthors joins the author list for display, truncating long lists.
func formatAuthors(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	shown := authors
	if len(shown) > maxAuthorsShown {
		shown = shown[:maxAuthorsShown]
	}
	line := strings.Join(shown, ", ")
	if len(authors) > maxAuthorsShown {
		line += " et al."
	}
	return line
}

// formatPeriod renders "2023 - present" for ongoing projects.
func formatPeriod(start, end int) string {
	from := strconv.Itoa(start)
	if start == 0 {
		from = "?"
	}
	if end == 0 {
		return from + " - present"
	}
	return from + " - " + strconv.Itoa(end)
}

// formatFunding joins aliased agency names, or "N/A" when unfunded.
func (r *Renderer) formatFunding(agencies []string) string {
	var labels []string
	for _, a := range agencies {
		if label := r.Table.FundingLabel(a); label != "" {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return "N/A"
	}
	return strings.Join(labels, ", ")
}

// doiURL turns a bare DOI into a resolvable link; empty in, empty out.
func doiURL(doi string) string {
	if doi == "" {
		return ""
	}
	if strings.HasPrefix(doi, "http://") || strings.HasPrefix(doi, "https://") {
		return doi
	}
	return "https://doi.org/" + doi
}
