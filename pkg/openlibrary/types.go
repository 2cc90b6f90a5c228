package openlibrary

import (
	"fmt"
	"strings"
)

const coverURLFormat = "https://covers.openlibrary.org/b/olid/%s-M.jpg"

type SearchQuery struct {
	Title  string
	Author string
}

// SearchResponse matches search.json.
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// SearchDoc is a single work returned by search.json. The catalog returns most
// per-edition data as lists.
type SearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverEditionKey  string   `json:"cover_edition_key"`
	Language         []string `json:"language"`
	ISBN             []string `json:"isbn"`
	EditionKey       []string `json:"edition_key"`
	FirstSentence    []string `json:"first_sentence"`
}

// CoverURL returns the medium cover image for the doc's cover edition, or nil
// if the catalog didn't name one.
func (d *SearchDoc) CoverURL() *string {
	return coverURL(d.CoverEditionKey)
}

// String renders the doc on one line for picking between search results.
func (d *SearchDoc) String() string {
	parts := []string{orNone(d.Title)}
	if len(d.AuthorNames) > 0 {
		parts = append(parts, "by "+strings.Join(d.AuthorNames, ", "))
	}
	if d.FirstPublishYear > 0 {
		parts = append(parts, fmt.Sprintf("(%d)", d.FirstPublishYear))
	}
	parts = append(parts, "ISBN: "+orNone(first(d.ISBN)))
	if lang := first(d.Language); lang != "" {
		parts = append(parts, "["+lang+"]")
	}
	return strings.Join(parts, " ")
}

// Edition matches isbn/{isbn}.json. Older records list authors under "author"
// rather than "authors".
type Edition struct {
	Authors       []AuthorRef `json:"authors"`
	Author        []AuthorRef `json:"author"`
	Title         string      `json:"title"`
	ISBN10        []string    `json:"isbn_10"`
	ISBN13        []string    `json:"isbn_13"`
	PublishDate   string      `json:"publish_date"`
	Pagination    string      `json:"pagination"`
	NumberOfPages int         `json:"number_of_pages"`
	Key           string      `json:"key"`
}

func (e *Edition) AuthorRefs() []AuthorRef {
	if len(e.Authors) > 0 {
		return e.Authors
	}
	return e.Author
}

type AuthorRef struct {
	Key string `json:"key"`
}

// Author matches authors/{key}.json.
type Author struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func coverURL(editionKey string) *string {
	if editionKey == "" {
		return nil
	}
	u := fmt.Sprintf(coverURLFormat, editionKey)
	return &u
}

func first(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
