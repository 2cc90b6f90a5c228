package editsession

import (
	"strings"

	"github.com/shishobooks/bookbuddy/pkg/errcodes"
)

// Field names a book field that can be edited.
type Field string

const (
	FieldTitle         Field = "title"
	FieldAuthors       Field = "authors"
	FieldCoverPath     Field = "cover_path"
	FieldCoverURL      Field = "cover_url"
	FieldDescription   Field = "description"
	FieldFirstSentence Field = "first_sentence"
	FieldLanguage      Field = "language"
	FieldISBN10        Field = "isbn10"
	FieldISBN13        Field = "isbn13"
	FieldCatalogKey    Field = "catalog_key"
	FieldPublishYear   Field = "publish_year"
	FieldPageCount     Field = "page_count"

	FieldCurrentPage Field = "current_page"
	FieldFinished    Field = "finished"
	FieldDateStarted Field = "date_started"
)

// EditableFields are the fields an edit session offers, in menu order.
var EditableFields = []Field{
	FieldTitle, FieldAuthors, FieldCoverURL, FieldCoverPath, FieldPublishYear, FieldDescription,
	FieldFirstSentence, FieldLanguage, FieldISBN10, FieldISBN13, FieldPageCount, FieldCatalogKey,
}

// ProgressFields track reading progress and are edited separately from the
// book's metadata.
var ProgressFields = []Field{FieldCurrentPage, FieldFinished, FieldDateStarted}

var aliases = map[string]Field{
	"author":          FieldAuthors,
	"coverpath":       FieldCoverPath,
	"coverurl":        FieldCoverURL,
	"firstsentence":   FieldFirstSentence,
	"isbn_10":         FieldISBN10,
	"isbn_13":         FieldISBN13,
	"openlibrary_key": FieldCatalogKey,
	"openlibrarykey":  FieldCatalogKey,
	"key":             FieldCatalogKey,
	"year":            FieldPublishYear,
	"pages":           FieldPageCount,
	"pagination":      FieldPageCount,
	"pagecount":       FieldPageCount,
	"page":            FieldCurrentPage,
	"started":         FieldDateStarted,
}

// ParseField resolves user input such as "ISBN_10", "Page Count" or
// "first sentence" to a field from the given set.
func ParseField(name string, allowed []Field) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	field := Field(key)
	if alias, ok := aliases[key]; ok {
		field = alias
	}
	for _, f := range allowed {
		if f == field {
			return f, nil
		}
	}
	return "", errcodes.UnknownField(name)
}

func menu(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, "\t")
}
