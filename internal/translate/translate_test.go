// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcad/sitegen/pkg/types"
)

func testTable() *Table {
	return &Table{
		Projects: map[string]Translation{
			"Inteligencias Computacionais Autonomas": {
				Name:        "Autonomous Computational Intelligences",
				Description: "Science and technology for powerful autonomous systems.",
			},
		},
		FundingAliases: map[string]string{
			"Fundação de Amparo à Pesquisa do Espírito Santo": "FAPES",
		},
	}
}

func TestApply_PopulatesMappedProject(t *testing.T) {
	table := testTable()
	in := types.Project{Name: "Inteligencias Computacionais Autonomas", Description: "Ciência e tecnologia."}

	out := table.Apply(in)
	assert.Equal(t, "Autonomous Computational Intelligences", out.NameEN)
	assert.Equal(t, "Science and technology for powerful autonomous systems.", out.DescriptionEN)
	// Source-language fields are untouched.
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Description, out.Description)
}

func TestApply_UnmappedProjectPassesThrough(t *testing.T) {
	table := testTable()
	in := types.Project{Name: "Projeto sem traducao", Description: "Descrição original."}

	out := table.Apply(in)
	assert.Empty(t, out.NameEN)
	assert.Empty(t, out.DescriptionEN)
	assert.Equal(t, in, out)
}

func TestApply_DoesNotMutateInputs(t *testing.T) {
	table := testTable()
	in := types.Project{Name: "Inteligencias Computacionais Autonomas"}

	_ = table.Apply(in)
	assert.Empty(t, in.NameEN)
	assert.Len(t, table.Projects, 1)
	assert.Equal(t, "Autonomous Computational Intelligences",
		table.Projects["Inteligencias Computacionais Autonomas"].Name)
}

func TestApply_Idempotent(t *testing.T) {
	table := testTable()
	in := types.Project{Name: "Inteligencias Computacionais Autonomas"}

	once := table.Apply(in)
	twice := table.Apply(once)
	assert.Equal(t, once, twice)
}

func TestApplyAll(t *testing.T) {
	table := testTable()
	projects := []types.Project{
		{Name: "Inteligencias Computacionais Autonomas"},
		{Name: "Projeto sem traducao"},
	}

	out := table.ApplyAll(projects)
	require.Len(t, out, 2)
	assert.NotEmpty(t, out[0].NameEN)
	assert.Empty(t, out[1].NameEN)
}

func TestFundingLabel(t *testing.T) {
	table := testTable()
	assert.Equal(t, "FAPES", table.FundingLabel("Fundação de Amparo à Pesquisa do Espírito Santo"))
	assert.Equal(t, "Petrobras", table.FundingLabel("Petrobras"))
}

func TestMissing(t *testing.T) {
	table := testTable()
	projects := []types.Project{
		{Name: "Inteligencias Computacionais Autonomas"},
		{Name: "Projeto novo A"},
		{Name: "Projeto novo B"},
	}
	assert.Equal(t, []string{"Projeto novo A", "Projeto novo B"}, table.Missing(projects))
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "translations.yaml")
	content := `projects:
  "Projeto de teste":
    name: "Test project"
    description: "A project used in tests."
funding_aliases:
  "Conselho Nacional de Desenvolvimento Científico e Tecnológico": CNPq
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "Test project", table.Projects["Projeto de teste"].Name)
	assert.Equal(t, "CNPq", table.FundingLabel("Conselho Nacional de Desenvolvimento Científico e Tecnológico"))
}

func TestLoadTable_MissingFileIsEmptyTable(t *testing.T) {
	table, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, table.Projects)
	out := table.Apply(types.Project{Name: "Qualquer"})
	assert.Empty(t, out.NameEN)
}

func TestLoadTable_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects: [not: a: map"), 0o644))
	_, err := LoadTable(path)
	require.Error(t, err)
}
