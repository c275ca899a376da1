// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate applies the hand-curated Portuguese-to-English project
// translation table during page generation. The table is maintained by a
// human; a project without an entry passes through untranslated and the
// renderer shows a "translation pending" affordance. Applying the table is
// pure and idempotent.
package translate

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/lcad/sitegen/pkg/types"
)

// Translation is the curated English rendition of one project.
type Translation struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Table maps source-language project names (exact string keys) to curated
// translations, plus display aliases for funding agency names.
type Table struct {
	// Projects keys are the project names exactly as they appear in the CV.
	Projects map[string]Translation `yaml:"projects"`

	// FundingAliases maps long institutional names to short display forms
	// (e.g. "Fundação de Amparo à Pesquisa do Espírito Santo" → "FAPES").
	FundingAliases map[string]string `yaml:"funding_aliases"`
}

// LoadTable reads the translation YAML at path. A missing file is not an
// error: curation starts empty and entries are added as projects appear.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("reading translation table: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing translation table %s: %w", path, err)
	}
	return &table, nil
}

// Apply returns a copy of project with NameEN and DescriptionEN populated
// from the table when an entry exists for the project's source-language
// name. Without an entry the project passes through unchanged. Apply never
// mutates its inputs and applying it twice equals applying it once.
func (t *Table) Apply(project types.Project) types.Project {
	entry, ok := t.Projects[project.Name]
	if !ok {
		return project
	}
	if entry.Name != "" {
		project.NameEN = entry.Name
	}
	if entry.Description != "" {
		project.DescriptionEN = entry.Description
	}
	return project
}

// ApplyAll applies the table to every project, returning a new slice.
func (t *Table) ApplyAll(projects []types.Project) []types.Project {
	out := make([]types.Project, len(projects))
	for i, p := range projects {
		out[i] = t.Apply(p)
	}
	return out
}

// FundingLabel returns the display alias for a funding agency name, or the
// original name when no alias is curated.
func (t *Table) FundingLabel(agency string) string {
	if alias, ok := t.FundingAliases[agency]; ok && alias != "" {
		return alias
	}
	return agency
}

// Missing returns the source-language names of projects that have no
// translation entry, in input order. The curation workflow uses this to
// list what still needs a human translation.
func (t *Table) Missing(projects []types.Project) []string {
	var names []string
	for _, p := range projects {
		if _, ok := t.Projects[p.Name]; !ok {
			names = append(names, p.Name)
		}
	}
	return names
}
