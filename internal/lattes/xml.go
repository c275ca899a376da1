// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lattes

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lcad/sitegen/pkg/types"
)

// Lattes XML element structures. All values live in attributes; the
// registry keeps authorship order in ORDEM-DE-AUTORIA as a string.

type xmlAuthor struct {
	Name  string `xml:"NOME-COMPLETO-DO-AUTOR,attr"`
	Order string `xml:"ORDEM-DE-AUTORIA,attr"`
}

// authorNames sorts by declared authorship order and returns the names.
func authorNames(authors []xmlAuthor) []string {
	sorted := make([]xmlAuthor, len(authors))
	copy(sorted, authors)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, _ := strconv.Atoi(sorted[i].Order)
		oj, _ := strconv.Atoi(sorted[j].Order)
		return oi < oj
	})

	names := make([]string, 0, len(sorted))
	for _, a := range sorted {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

type xmlArticle struct {
	Basics struct {
		Title    string `xml:"TITULO-DO-ARTIGO,attr"`
		TitleEN  string `xml:"TITULO-DO-ARTIGO-INGLES,attr"`
		Year     string `xml:"ANO-DO-ARTIGO,attr"`
		DOI      string `xml:"DOI,attr"`
		Language string `xml:"IDIOMA,attr"`
	} `xml:"DADOS-BASICOS-DO-ARTIGO"`
	Details struct {
		Journal   string `xml:"TITULO-DO-PERIODICO-OU-REVISTA,attr"`
		Volume    string `xml:"VOLUME,attr"`
		Issue     string `xml:"FASCICULO,attr"`
		FirstPage string `xml:"PAGINA-INICIAL,attr"`
		LastPage  string `xml:"PAGINA-FINAL,attr"`
		ISSN      string `xml:"ISSN,attr"`
	} `xml:"DETALHAMENTO-DO-ARTIGO"`
	Authors []xmlAuthor `xml:"AUTORES"`
}

func (el xmlArticle) toRecord() (types.Article, bool) {
	title := strings.TrimSpace(el.Basics.Title)
	if title == "" {
		return types.Article{}, false
	}
	return types.Article{
		PublicationBase: types.PublicationBase{
			Title:    title,
			TitleEN:  strings.TrimSpace(el.Basics.TitleEN),
			Year:     parseYear(el.Basics.Year),
			DOI:      strings.TrimSpace(el.Basics.DOI),
			Language: el.Basics.Language,
			Authors:  authorNames(el.Authors),
		},
		Journal: strings.TrimSpace(el.Details.Journal),
		Volume:  el.Details.Volume,
		Issue:   el.Details.Issue,
		Pages:   pageRange(el.Details.FirstPage, el.Details.LastPage),
		ISSN:    el.Details.ISSN,
	}, true
}

type xmlConferencePaper struct {
	Basics struct {
		Title    string `xml:"TITULO-DO-TRABALHO,attr"`
		TitleEN  string `xml:"TITULO-DO-TRABALHO-INGLES,attr"`
		Year     string `xml:"ANO-DO-TRABALHO,attr"`
		DOI      string `xml:"DOI,attr"`
		Language string `xml:"IDIOMA,attr"`
	} `xml:"DADOS-BASICOS-DO-TRABALHO"`
	Details struct {
		Event       string `xml:"NOME-DO-EVENTO,attr"`
		EventEN     string `xml:"NOME-DO-EVENTO-INGLES,attr"`
		Proceedings string `xml:"TITULO-DOS-ANAIS-OU-PROCEEDINGS,attr"`
		FirstPage   string `xml:"PAGINA-INICIAL,attr"`
		LastPage    string `xml:"PAGINA-FINAL,attr"`
		City        string `xml:"CIDADE-DO-EVENTO,attr"`
		Country     string `xml:"PAIS-DO-EVENTO,attr"`
	} `xml:"DETALHAMENTO-DO-TRABALHO"`
	Authors []xmlAuthor `xml:"AUTORES"`
}

func (el xmlConferencePaper) toRecord() (types.ConferencePaper, bool) {
	title := strings.TrimSpace(el.Basics.Title)
	if title == "" {
		return types.ConferencePaper{}, false
	}
	return types.ConferencePaper{
		PublicationBase: types.PublicationBase{
			Title:    title,
			TitleEN:  strings.TrimSpace(el.Basics.TitleEN),
			Year:     parseYear(el.Basics.Year),
			DOI:      strings.TrimSpace(el.Basics.DOI),
			Language: el.Basics.Language,
			Authors:  authorNames(el.Authors),
		},
		Event:       strings.TrimSpace(el.Details.Event),
		EventEN:     strings.TrimSpace(el.Details.EventEN),
		Proceedings: strings.TrimSpace(el.Details.Proceedings),
		Pages:       pageRange(el.Details.FirstPage, el.Details.LastPage),
		City:        el.Details.City,
		Country:     el.Details.Country,
	}, true
}

type xmlBook struct {
	Basics struct {
		Title   string `xml:"TITULO-DO-LIVRO,attr"`
		TitleEN string `xml:"TITULO-DO-LIVRO-INGLES,attr"`
		Year    string `xml:"ANO,attr"`
		DOI     string `xml:"DOI,attr"`
	} `xml:"DADOS-BASICOS-DO-LIVRO"`
	Details struct {
		Publisher string `xml:"NOME-DA-EDITORA,attr"`
		ISBN      string `xml:"ISBN,attr"`
		Pages     string `xml:"NUMERO-DE-PAGINAS,attr"`
	} `xml:"DETALHAMENTO-DO-LIVRO"`
	Authors []xmlAuthor `xml:"AUTORES"`
}

func (el xmlBook) toRecord() (types.Book, bool) {
	title := strings.TrimSpace(el.Basics.Title)
	if title == "" {
		return types.Book{}, false
	}
	return types.Book{
		PublicationBase: types.PublicationBase{
			Title:   title,
			TitleEN: strings.TrimSpace(el.Basics.TitleEN),
			Year:    parseYear(el.Basics.Year),
			DOI:     strings.TrimSpace(el.Basics.DOI),
			Authors: authorNames(el.Authors),
		},
		Publisher: strings.TrimSpace(el.Details.Publisher),
		ISBN:      el.Details.ISBN,
		Pages:     strings.TrimSpace(el.Details.Pages),
	}, true
}

type xmlBookChapter struct {
	Basics struct {
		Title   string `xml:"TITULO-DO-CAPITULO-DO-LIVRO,attr"`
		TitleEN string `xml:"TITULO-DO-CAPITULO-DO-LIVRO-INGLES,attr"`
		Year    string `xml:"ANO,attr"`
		DOI     string `xml:"DOI,attr"`
	} `xml:"DADOS-BASICOS-DO-CAPITULO"`
	Details struct {
		BookTitle string `xml:"TITULO-DO-LIVRO,attr"`
		Publisher string `xml:"NOME-DA-EDITORA,attr"`
		ISBN      string `xml:"ISBN,attr"`
		FirstPage string `xml:"PAGINA-INICIAL,attr"`
		LastPage  string `xml:"PAGINA-FINAL,attr"`
	} `xml:"DETALHAMENTO-DO-CAPITULO"`
	Authors []xmlAuthor `xml:"AUTORES"`
}

func (el xmlBookChapter) toRecord() (types.BookChapter, bool) {
	title := strings.TrimSpace(el.Basics.Title)
	if title == "" {
		return types.BookChapter{}, false
	}
	return types.BookChapter{
		PublicationBase: types.PublicationBase{
			Title:   title,
			TitleEN: strings.TrimSpace(el.Basics.TitleEN),
			Year:    parseYear(el.Basics.Year),
			DOI:     strings.TrimSpace(el.Basics.DOI),
			Authors: authorNames(el.Authors),
		},
		BookTitle: strings.TrimSpace(el.Details.BookTitle),
		Publisher: strings.TrimSpace(el.Details.Publisher),
		ISBN:      el.Details.ISBN,
		Pages:     pageRange(el.Details.FirstPage, el.Details.LastPage),
	}, true
}

type xmlProject struct {
	Name        string `xml:"NOME-DO-PROJETO,attr"`
	YearStart   string `xml:"ANO-INICIO,attr"`
	YearEnd     string `xml:"ANO-FIM,attr"`
	Situation   string `xml:"SITUACAO,attr"`
	Nature      string `xml:"NATUREZA,attr"`
	Description string `xml:"DESCRICAO-DO-PROJETO,attr"`

	Members []struct {
		Name string `xml:"NOME-COMPLETO,attr"`
		Lead string `xml:"FLAG-RESPONSAVEL,attr"`
	} `xml:"EQUIPE-DO-PROJETO>INTEGRANTES-DO-PROJETO"`

	Funders []struct {
		Agency string `xml:"NOME-INSTITUICAO,attr"`
	} `xml:"FINANCIADORES-DO-PROJETO>FINANCIADOR-DO-PROJETO"`
}

// lattesOngoing is the SITUACAO value for projects still in progress.
const lattesOngoing = "EM_ANDAMENTO"

func (el xmlProject) toRecord() (types.Project, bool) {
	name := strings.TrimSpace(el.Name)
	if name == "" {
		return types.Project{}, false
	}

	status := types.ProjectCompleted
	if el.Situation == lattesOngoing {
		status = types.ProjectOngoing
	}

	rec := types.Project{
		Name:        name,
		YearStart:   parseYear(el.YearStart),
		YearEnd:     parseYear(el.YearEnd),
		Status:      status,
		Nature:      el.Nature,
		Description: strings.TrimSpace(el.Description),
	}

	for _, m := range el.Members {
		memberName := strings.TrimSpace(m.Name)
		if memberName == "" {
			continue
		}
		rec.Members = append(rec.Members, types.ProjectMember{
			Name: memberName,
			Lead: m.Lead == "SIM",
		})
	}

	seen := make(map[string]bool)
	for _, f := range el.Funders {
		agency := strings.TrimSpace(f.Agency)
		if agency == "" || seen[agency] {
			continue
		}
		seen[agency] = true
		rec.Funding = append(rec.Funding, agency)
	}

	return rec, true
}
