package epub

import (
	"strings"

	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/shishobooks/bookbuddy/pkg/htmlutil"
	"github.com/shishobooks/bookbuddy/pkg/identifiers"
	"github.com/shishobooks/bookbuddy/pkg/models"
)

// BookFromMetadata converts EPUB metadata into a partial book. Only creator,
// identifier, language, title and description are read. The identifier is the
// book's only natural key, so an import without a usable ISBN fails.
func BookFromMetadata(md *Metadata) (*models.Book, error) {
	book := &models.Book{}

	values := md.Fields["identifier"]
	if len(values) == 0 {
		return nil, errcodes.MissingIdentifier(sourceName)
	}
	id, ok := firstISBN(values)
	if !ok {
		return nil, errcodes.MalformedIdentifier(values[0])
	}
	switch id.Kind {
	case identifiers.KindISBN10:
		book.ISBN10 = &id.Value
	case identifiers.KindISBN13:
		book.ISBN13 = &id.Value
	}

	if title := md.First("title"); title != "" {
		book.Title = &title
	}
	if language := md.First("language"); language != "" {
		book.Language = &language
	}
	if creators := md.Fields["creator"]; len(creators) > 0 {
		book.Authors = append(models.AuthorList(nil), creators...)
	}
	if description := htmlutil.StripTags(strings.Join(md.Fields["description"], "\n")); description != "" {
		book.Description = &description
	}

	return book, nil
}

// firstISBN returns the first identifier that classifies as an ISBN. EPUBs
// often carry a UUID or vendor id next to (or instead of) the ISBN.
func firstISBN(values []string) (identifiers.Identifier, bool) {
	for _, v := range values {
		id, err := identifiers.Classify(v)
		if err == nil && id.Kind != identifiers.KindUnrecognized {
			return id, true
		}
	}
	return identifiers.Identifier{}, false
}
