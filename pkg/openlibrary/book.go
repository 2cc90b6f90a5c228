package openlibrary

import (
	"context"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/shishobooks/bookbuddy/pkg/identifiers"
	"github.com/shishobooks/bookbuddy/pkg/models"
	"golang.org/x/sync/errgroup"
)

var (
	digitRunRegex = regexp.MustCompile(`\d+`)
	yearRegex     = regexp.MustCompile(`\b\d{4}\b`)
)

// AuthorResolver looks up an author record from its catalog key.
type AuthorResolver interface {
	Author(ctx context.Context, key string) (*Author, error)
}

// BookFromSearchDoc converts a search hit into a partial book. The first
// element of each list field is used. A hit without a usable ISBN can't be
// re-imported reliably, so it fails with a missing identifier error.
func BookFromSearchDoc(doc *SearchDoc) (*models.Book, error) {
	id, err := identifiers.Classify(first(doc.ISBN))
	if err != nil || id.Kind == identifiers.KindUnrecognized {
		return nil, errcodes.MissingIdentifier("Search result")
	}

	book := &models.Book{
		Title:         optionalString(doc.Title),
		CoverURL:      doc.CoverURL(),
		FirstSentence: optionalString(first(doc.FirstSentence)),
		Language:      optionalString(first(doc.Language)),
		CatalogKey:    optionalString(doc.Key),
	}
	setIdentifier(book, id)

	if len(doc.AuthorNames) > 0 {
		book.Authors = append(models.AuthorList(nil), doc.AuthorNames...)
	}
	if doc.FirstPublishYear > 0 {
		year := uint32(doc.FirstPublishYear)
		book.PublishYear = &year
	}

	return book, nil
}

// BookFromEdition converts an edition record into a partial book, resolving
// every author reference concurrently. Any failed author lookup fails the
// whole conversion. Unparseable page counts and dates are left unknown.
func BookFromEdition(ctx context.Context, edition *Edition, resolver AuthorResolver) (*models.Book, error) {
	authors, err := resolveAuthors(ctx, edition.AuthorRefs(), resolver)
	if err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:       optionalString(strings.TrimSpace(edition.Title)),
		Authors:     authors,
		ISBN10:      identifiers.ISBN10(first(edition.ISBN10)),
		ISBN13:      identifiers.ISBN13(first(edition.ISBN13)),
		CatalogKey:  optionalString(edition.Key),
		PageCount:   pageCount(edition),
		PublishYear: ParsePublishYear(edition.PublishDate),
	}
	if strings.HasPrefix(edition.Key, "/books/") {
		book.CoverURL = coverURL(path.Base(edition.Key))
	}

	return book, nil
}

func resolveAuthors(ctx context.Context, refs []AuthorRef, resolver AuthorResolver) (models.AuthorList, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	names := make([]string, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			if ref.Key == "" {
				return errcodes.SourceUnavailable(sourceName, errors.New("author reference has no key"))
			}
			author, err := resolver.Author(ctx, ref.Key)
			if err != nil {
				return err
			}
			if strings.TrimSpace(author.Name) == "" {
				return errcodes.SourceUnavailable(sourceName, errors.Errorf("author %s has no name", ref.Key))
			}
			names[i] = strings.TrimSpace(author.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return names, nil
}

func pageCount(edition *Edition) *uint32 {
	if edition.NumberOfPages > 0 {
		n := uint32(edition.NumberOfPages)
		return &n
	}
	return ParsePagination(edition.Pagination)
}

// ParsePagination reads a page count out of free text such as "320 p." or
// "xii, 320 p.". The whole string is tried as a number first, then the first run
// of digits.
func ParsePagination(s string) *uint32 {
	s = strings.TrimSpace(s)
	if n, ok := parseUint32(s); ok {
		return &n
	}
	if n, ok := parseUint32(digitRunRegex.FindString(s)); ok {
		return &n
	}
	return nil
}

// ParsePublishYear reads a year out of free text such as "1965" or
// "March 3, 2004". The whole string is tried as a number first, then the last
// four-digit word.
func ParsePublishYear(s string) *uint32 {
	s = strings.TrimSpace(s)
	if n, ok := parseUint32(s); ok {
		return &n
	}
	years := yearRegex.FindAllString(s, -1)
	if len(years) == 0 {
		return nil
	}
	if n, ok := parseUint32(years[len(years)-1]); ok {
		return &n
	}
	return nil
}

func parseUint32(s string) (uint32, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint32(n), true
}

func setIdentifier(book *models.Book, id identifiers.Identifier) {
	value := id.Value
	switch id.Kind {
	case identifiers.KindISBN10:
		book.ISBN10 = &value
	case identifiers.KindISBN13:
		book.ISBN13 = &value
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
