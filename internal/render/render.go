// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render generates the site's derived HTML from the persisted JSON
// documents: the home-page metrics widget, the publications listing, the
// projects listing, and the teaching page. Rendering is deterministic (same
// inputs produce the same bytes apart from the embedded update stamp) and
// all-or-nothing: inputs are loaded and validated first, every artifact is
// rendered in memory, and only then are files replaced atomically.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lcad/sitegen/internal/fsutil"
	"github.com/lcad/sitegen/internal/lattes"
	"github.com/lcad/sitegen/internal/scholar"
	"github.com/lcad/sitegen/internal/teaching"
	"github.com/lcad/sitegen/internal/translate"
	"github.com/lcad/sitegen/pkg/types"
)

// Generated page filenames, written into RenderConfig.SiteDir.
const (
	HomeFile         = "index.html"
	PublicationsFile = "publications.html"
	ProjectsFile     = "projects.html"
	TeachingFile     = "teaching.html"
)

// Renderer produces the derived HTML artifacts.
type Renderer struct {
	// Table supplies project translations and funding-agency aliases.
	Table *translate.Table

	// Now supplies the "Last updated" stamp; tests pin it. Nil means time.Now.
	Now func() time.Time
}

// New returns a Renderer using the given translation table.
func New(table *translate.Table) *Renderer {
	if table == nil {
		table = &translate.Table{}
	}
	return &Renderer{Table: table}
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// updateStamp is the human-readable "Last updated" form ("March 2026").
func (r *Renderer) updateStamp() string {
	return r.now().Format("January 2006")
}

// numberPrinter formats figures with thousands separators ("8,300").
var numberPrinter = message.NewPrinter(language.English)

func formatCount(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

// GenerateAll regenerates every derived page under cfg.SiteDir. A missing
// or malformed input document, or a home page without its injection zones,
// fails the whole stage before anything is written.
func GenerateAll(cfg types.RenderConfig, w io.Writer) error {
	metrics, err := scholar.Load(cfg.MetricsFile)
	if err != nil {
		return err
	}
	if err := validateMetrics(metrics); err != nil {
		return fmt.Errorf("metrics snapshot %s: %w", cfg.MetricsFile, err)
	}

	data, err := lattes.LoadData(cfg.DataFile)
	if err != nil {
		return err
	}

	table, err := translate.LoadTable(cfg.TranslationsFile)
	if err != nil {
		return err
	}

	r := New(table)
	data.Projects = table.ApplyAll(data.Projects)
	if pending := table.Missing(data.Projects); len(pending) > 0 {
		fmt.Fprintf(w, "warning: %d project(s) without a curated translation\n", len(pending))
	}

	homePath := filepath.Join(cfg.SiteDir, HomeFile)
	homeIn, err := os.ReadFile(homePath)
	if err != nil {
		return fmt.Errorf("reading home page template: %w", err)
	}

	// Render everything before writing anything.
	outputs := make(map[string][]byte)

	outputs[homePath], err = r.HomePage(homeIn, metrics)
	if err != nil {
		return fmt.Errorf("home page: %w", err)
	}
	outputs[filepath.Join(cfg.SiteDir, PublicationsFile)], err = r.PublicationsPage(data)
	if err != nil {
		return fmt.Errorf("publications page: %w", err)
	}
	outputs[filepath.Join(cfg.SiteDir, ProjectsFile)], err = r.ProjectsPage(data.Projects)
	if err != nil {
		return fmt.Errorf("projects page: %w", err)
	}

	if cfg.TeachingFile != "" {
		courses, err := teaching.LoadCSV(cfg.TeachingFile, w)
		if err != nil {
			return err
		}
		outputs[filepath.Join(cfg.SiteDir, TeachingFile)], err = r.TeachingPage(courses)
		if err != nil {
			return fmt.Errorf("teaching page: %w", err)
		}
	}

	paths := make([]string, 0, len(outputs))
	for path := range outputs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := fsutil.WriteFileAtomic(path, outputs[path], 0o644); err != nil {
			return err
		}
		fmt.Fprintf(w, "generated %s\n", path)
	}
	return nil
}

// validateMetrics enforces the snapshot's shape: non-negative figures and a
// ranked top-publication list of at most MaxTopPublications entries.
func validateMetrics(m *types.MetricsRecord) error {
	if m.Metrics.Citations < 0 || m.Metrics.HIndex < 0 || m.Metrics.I10Index < 0 {
		return fmt.Errorf("negative citation figure")
	}
	if len(m.TopPublications) > types.MaxTopPublications {
		return fmt.Errorf("%d top publications, max %d", len(m.TopPublications), types.MaxTopPublications)
	}
	for i := 1; i < len(m.TopPublications); i++ {
		if m.TopPublications[i].Citations > m.TopPublications[i-1].Citations {
			return fmt.Errorf("top publications not ordered by citation count")
		}
	}
	return nil
}
