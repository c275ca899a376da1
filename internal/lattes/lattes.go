// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lattes parses a Lattes CV XML export (CNPq's curriculum registry)
// into the normalized lattes_data.json document. Parsing tolerates bad
// records: an entry missing its title is skipped with a logged reason, and
// only a structurally broken document aborts the stage. The export is
// authoritative, so the output document is replaced in full on every run.
package lattes

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/lcad/sitegen/internal/fsutil"
	"github.com/lcad/sitegen/pkg/types"
)

// ParseStats summarizes one parse run.
type ParseStats struct {
	Articles         int
	ConferencePapers int
	Books            int
	BookChapters     int
	Projects         int

	// Skipped counts records dropped for a missing title or as duplicates.
	Skipped int
}

// ParseFile parses the CV export at path. Skip notices go to w.
func ParseFile(path string, w io.Writer) (*types.LattesData, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("opening CV export: %w", err)
	}
	defer f.Close()
	return Parse(f, w)
}

// Parse decodes a Lattes XML document from r. It walks the element stream
// and decodes each publication or project element wherever it appears in
// the tree, mirroring how the registry nests categories.
func Parse(r io.Reader, w io.Writer) (*types.LattesData, ParseStats, error) {
	data := &types.LattesData{
		Articles:         []types.Article{},
		ConferencePapers: []types.ConferencePaper{},
		Books:            []types.Book{},
		BookChapters:     []types.BookChapter{},
		Projects:         []types.Project{},
	}
	var stats ParseStats
	seen := make(map[string]bool) // dedup key → already imported

	dec := xml.NewDecoder(r)
	// Lattes exports declare ISO-8859-1; accented Portuguese text must be
	// transcoded to UTF-8 or the decoder rejects the document.
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "iso-8859-1", "iso8859-1", "latin1":
			return charmap.ISO8859_1.NewDecoder().Reader(input), nil
		case "windows-1252":
			return charmap.Windows1252.NewDecoder().Reader(input), nil
		}
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}

	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("malformed CV document: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			if start.Name.Local != "CURRICULO-VITAE" {
				return nil, stats, fmt.Errorf("unexpected root element %q, want CURRICULO-VITAE", start.Name.Local)
			}
			sawRoot = true
			continue
		}

		switch start.Name.Local {
		case "ARTIGO-PUBLICADO":
			var el xmlArticle
			if err := dec.DecodeElement(&el, &start); err != nil {
				return nil, stats, fmt.Errorf("decoding journal article: %w", err)
			}
			rec, ok := el.toRecord()
			if !ok {
				stats.Skipped++
				fmt.Fprintf(w, "skipping journal article: missing title\n")
				continue
			}
			if dup(seen, "article", rec.Title, rec.Year, w) {
				stats.Skipped++
				continue
			}
			data.Articles = append(data.Articles, rec)

		case "TRABALHO-EM-EVENTOS":
			var el xmlConferencePaper
			if err := dec.DecodeElement(&el, &start); err != nil {
				return nil, stats, fmt.Errorf("decoding conference paper: %w", err)
			}
			rec, ok := el.toRecord()
			if !ok {
				stats.Skipped++
				fmt.Fprintf(w, "skipping conference paper: missing title\n")
				continue
			}
			if dup(seen, "conference", rec.Title, rec.Year, w) {
				stats.Skipped++
				continue
			}
			data.ConferencePapers = append(data.ConferencePapers, rec)

		case "LIVRO-PUBLICADO-OU-ORGANIZADO":
			var el xmlBook
			if err := dec.DecodeElement(&el, &start); err != nil {
				return nil, stats, fmt.Errorf("decoding book: %w", err)
			}
			rec, ok := el.toRecord()
			if !ok {
				stats.Skipped++
				fmt.Fprintf(w, "skipping book: missing title\n")
				continue
			}
			if dup(seen, "book", rec.Title, rec.Year, w) {
				stats.Skipped++
				continue
			}
			data.Books = append(data.Books, rec)

		case "CAPITULO-DE-LIVRO-PUBLICADO":
			var el xmlBookChapter
			if err := dec.DecodeElement(&el, &start); err != nil {
				return nil, stats, fmt.Errorf("decoding book chapter: %w", err)
			}
			rec, ok := el.toRecord()
			if !ok {
				stats.Skipped++
				fmt.Fprintf(w, "skipping book chapter: missing title\n")
				continue
			}
			if dup(seen, "chapter", rec.Title, rec.Year, w) {
				stats.Skipped++
				continue
			}
			data.BookChapters = append(data.BookChapters, rec)

		case "PROJETO-DE-PESQUISA":
			var el xmlProject
			if err := dec.DecodeElement(&el, &start); err != nil {
				return nil, stats, fmt.Errorf("decoding project: %w", err)
			}
			rec, ok := el.toRecord()
			if !ok {
				stats.Skipped++
				fmt.Fprintf(w, "skipping project: missing name\n")
				continue
			}
			data.Projects = append(data.Projects, rec)
		}
	}

	if !sawRoot {
		return nil, stats, fmt.Errorf("malformed CV document: no CURRICULO-VITAE root element")
	}

	sortData(data)
	stats.Articles = len(data.Articles)
	stats.ConferencePapers = len(data.ConferencePapers)
	stats.Books = len(data.Books)
	stats.BookChapters = len(data.BookChapters)
	stats.Projects = len(data.Projects)
	return data, stats, nil
}

// WriteData atomically replaces the lattes_data.json document at path.
func WriteData(data *types.LattesData, path string) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding Lattes data: %w", err)
	}
	return fsutil.WriteFileAtomic(path, append(out, '\n'), 0o644)
}

// LoadData reads a previously written lattes_data.json document.
func LoadData(path string) (*types.LattesData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading Lattes data: %w", err)
	}
	var data types.LattesData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing Lattes data %s: %w", path, err)
	}
	return &data, nil
}

// dup reports whether an equivalent record was already imported and logs
// the drop. Repeated imports of the same export list some productions in
// more than one section, so equality is keyed on (category, title, year).
func dup(seen map[string]bool, category, title string, year int, w io.Writer) bool {
	key := fmt.Sprintf("%s|%s|%d", category, normalizeTitle(title), year)
	if seen[key] {
		fmt.Fprintf(w, "skipping duplicate %s: %q (%d)\n", category, title, year)
		return true
	}
	seen[key] = true
	return false
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// sortData orders every category newest first, breaking year ties by
// case-insensitive title so repeated runs are byte-stable.
func sortData(data *types.LattesData) {
	byYearTitle := func(yi, yj int, ti, tj string) bool {
		if yi != yj {
			return yi > yj
		}
		return strings.ToLower(ti) < strings.ToLower(tj)
	}

	sort.SliceStable(data.Articles, func(i, j int) bool {
		return byYearTitle(data.Articles[i].Year, data.Articles[j].Year, data.Articles[i].Title, data.Articles[j].Title)
	})
	sort.SliceStable(data.ConferencePapers, func(i, j int) bool {
		return byYearTitle(data.ConferencePapers[i].Year, data.ConferencePapers[j].Year, data.ConferencePapers[i].Title, data.ConferencePapers[j].Title)
	})
	sort.SliceStable(data.Books, func(i, j int) bool {
		return byYearTitle(data.Books[i].Year, data.Books[j].Year, data.Books[i].Title, data.Books[j].Title)
	})
	sort.SliceStable(data.BookChapters, func(i, j int) bool {
		return byYearTitle(data.BookChapters[i].Year, data.BookChapters[j].Year, data.BookChapters[i].Title, data.BookChapters[j].Title)
	})
	sort.SliceStable(data.Projects, func(i, j int) bool {
		return byYearTitle(data.Projects[i].YearStart, data.Projects[j].YearStart, data.Projects[i].Name, data.Projects[j].Name)
	})
}

func parseYear(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// pageRange joins first and last page as "first-last", dropping empty ends.
func pageRange(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	switch {
	case first == "" && last == "":
		return ""
	case last == "":
		return first
	case first == "":
		return last
	default:
		return first + "-" + last
	}
}
