// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PublicationBase holds the fields shared by every publication category in
// a Lattes CV export.
type PublicationBase struct {
	Title   string `json:"title"`
	TitleEN string `json:"title_en,omitempty"`

	// Year is the publication year, or 0 when the export omits it.
	Year int `json:"year"`

	DOI      string `json:"doi,omitempty"`
	Language string `json:"language,omitempty"`

	// Authors lists full author names in declared authorship order.
	Authors []string `json:"authors"`
}

// Article is a journal article record.
type Article struct {
	PublicationBase

	Journal string `json:"journal"`
	Volume  string `json:"volume,omitempty"`
	Issue   string `json:"issue,omitempty"`
	Pages   string `json:"pages,omitempty"`
	ISSN    string `json:"issn,omitempty"`
}

// ConferencePaper is a paper published in event proceedings.
type ConferencePaper struct {
	PublicationBase

	Event       string `json:"event"`
	EventEN     string `json:"event_en,omitempty"`
	Proceedings string `json:"proceedings,omitempty"`
	Pages       string `json:"pages,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
}

// Book is a published or organized book record.
type Book struct {
	PublicationBase

	Publisher string `json:"publisher"`
	ISBN      string `json:"isbn,omitempty"`
	Pages     string `json:"pages,omitempty"`
}

// BookChapter is a chapter in an edited book.
type BookChapter struct {
	PublicationBase

	BookTitle string `json:"book_title"`
	Publisher string `json:"publisher,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
	Pages     string `json:"pages,omitempty"`
}

// ProjectStatus is the normalized lifecycle state of a research project.
type ProjectStatus string

const (
	ProjectOngoing   ProjectStatus = "ongoing"
	ProjectCompleted ProjectStatus = "completed"
)

// ProjectMember is one participant of a research project.
type ProjectMember struct {
	Name string `json:"name"`

	// Lead reports whether this member is the project's responsible
	// researcher.
	Lead bool `json:"lead,omitempty"`
}

// Project is a research project record. The English name and description
// come from the curated translation table, not from the CV export, and are
// absent until a translation is added.
type Project struct {
	// Name is the project name in the source language (Portuguese).
	Name   string `json:"name"`
	NameEN string `json:"name_en,omitempty"`

	YearStart int `json:"year_start"`

	// YearEnd is 0 for ongoing projects.
	YearEnd int `json:"year_end,omitempty"`

	Status ProjectStatus `json:"status"`
	Nature string        `json:"nature,omitempty"`

	Description   string `json:"description,omitempty"`
	DescriptionEN string `json:"description_en,omitempty"`

	// Funding lists the funding agency names as declared in the CV.
	Funding []string `json:"funding,omitempty"`

	// Members lists the project team in declared order.
	Members []ProjectMember `json:"members,omitempty"`
}

// LattesData is the lattes_data.json document: one key per publication
// category plus the project list. The document is replaced in full on every
// parse; the CV export is authoritative.
type LattesData struct {
	Articles         []Article         `json:"articles"`
	ConferencePapers []ConferencePaper `json:"conference_papers"`
	Books            []Book            `json:"books"`
	BookChapters     []BookChapter     `json:"book_chapters"`
	Projects         []Project         `json:"projects"`
}
