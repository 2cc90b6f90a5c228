package openlibrary

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/shishobooks/bookbuddy/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	mu      sync.Mutex
	authors map[string]string
	fail    map[string]bool
	calls   []string
}

func (r *fakeResolver) Author(_ context.Context, key string) (*Author, error) {
	r.mu.Lock()
	r.calls = append(r.calls, key)
	r.mu.Unlock()

	if r.fail[key] {
		return nil, errcodes.SourceUnavailable(sourceName, errors.New("boom"))
	}
	return &Author{Key: key, Name: r.authors[key]}, nil
}

func TestBookFromSearchDoc(t *testing.T) {
	t.Parallel()

	doc := &SearchDoc{
		Key:              "/works/OL893415W",
		Title:            "Dune",
		AuthorNames:      []string{"Frank Herbert"},
		FirstPublishYear: 1965,
		CoverEditionKey:  "OL26242482M",
		Language:         []string{"eng", "spa"},
		ISBN:             []string{"0441172717", "9780441172719"},
		FirstSentence:    []string{"A beginning is the time for taking the most delicate care.", "Other"},
	}

	book, err := BookFromSearchDoc(doc)
	require.NoError(t, err)
	assert.Equal(t, "Dune", *book.Title)
	assert.Equal(t, models.AuthorList{"Frank Herbert"}, book.Authors)
	assert.Equal(t, uint32(1965), *book.PublishYear)
	assert.Equal(t, "eng", *book.Language)
	assert.Equal(t, "0441172717", *book.ISBN10)
	assert.Nil(t, book.ISBN13)
	assert.Equal(t, "/works/OL893415W", *book.CatalogKey)
	assert.Equal(t, "https://covers.openlibrary.org/b/olid/OL26242482M-M.jpg", *book.CoverURL)
	assert.Equal(t, "A beginning is the time for taking the most delicate care.", *book.FirstSentence)
	assert.Nil(t, book.Description)
	assert.Nil(t, book.PageCount)
	assert.Nil(t, book.CoverPath)
}

func TestBookFromSearchDoc_ISBN13(t *testing.T) {
	t.Parallel()

	book, err := BookFromSearchDoc(&SearchDoc{ISBN: []string{"978-0-441-17271-9"}})
	require.NoError(t, err)
	assert.Nil(t, book.ISBN10)
	assert.Equal(t, "9780441172719", *book.ISBN13)
	assert.Nil(t, book.Title)
	assert.Nil(t, book.CoverURL)
	assert.Nil(t, book.Authors)
	assert.Nil(t, book.PublishYear)
}

func TestBookFromSearchDoc_MissingIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		isbn []string
	}{
		{"nil", nil},
		{"empty", []string{}},
		{"wrong length", []string{"12345"}},
		{"malformed", []string{"12345678AB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			book, err := BookFromSearchDoc(&SearchDoc{Title: "A", ISBN: tt.isbn})
			assert.Nil(t, book)
			require.Error(t, err)
			assert.True(t, errcodes.HasCode(err, errcodes.CodeMissingIdentifier))
		})
	}
}

func TestSearchDoc_String(t *testing.T) {
	t.Parallel()

	doc := &SearchDoc{Title: "Dune", AuthorNames: []string{"Frank Herbert"}, FirstPublishYear: 1965, ISBN: []string{"0441172717"}, Language: []string{"eng"}}
	assert.Equal(t, "Dune by Frank Herbert (1965) ISBN: 0441172717 [eng]", doc.String())
	assert.Equal(t, "None ISBN: None", (&SearchDoc{}).String())
}

func TestBookFromEdition(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{authors: map[string]string{
		"/authors/OL1A": "Terry Pratchett",
		"/authors/OL2A": "Neil Gaiman",
	}}
	edition := &Edition{
		Authors:     []AuthorRef{{Key: "/authors/OL1A"}, {Key: "/authors/OL2A"}},
		Title:       "Good Omens",
		ISBN10:      []string{"0060853980"},
		ISBN13:      []string{"9780060853983"},
		PublishDate: "November 28, 2006",
		Pagination:  "xii, 412 p.",
		Key:         "/books/OL7928060M",
	}

	book, err := BookFromEdition(context.Background(), edition, resolver)
	require.NoError(t, err)
	assert.Equal(t, "Good Omens", *book.Title)
	assert.Equal(t, models.AuthorList{"Terry Pratchett", "Neil Gaiman"}, book.Authors)
	assert.Equal(t, "0060853980", *book.ISBN10)
	assert.Equal(t, "9780060853983", *book.ISBN13)
	assert.Equal(t, uint32(2006), *book.PublishYear)
	assert.Equal(t, uint32(412), *book.PageCount)
	assert.Equal(t, "/books/OL7928060M", *book.CatalogKey)
	assert.Equal(t, "https://covers.openlibrary.org/b/olid/OL7928060M-M.jpg", *book.CoverURL)
	assert.Len(t, resolver.calls, 2)
}

func TestBookFromEdition_LegacyAuthorField(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{authors: map[string]string{"/authors/OL1A": "Anon"}}
	book, err := BookFromEdition(context.Background(), &Edition{Author: []AuthorRef{{Key: "/authors/OL1A"}}, NumberOfPages: 99, Pagination: "120"}, resolver)
	require.NoError(t, err)
	assert.Equal(t, models.AuthorList{"Anon"}, book.Authors)
	assert.Equal(t, uint32(99), *book.PageCount)
}

func TestBookFromEdition_UnparseableFieldsAreUnknown(t *testing.T) {
	t.Parallel()

	edition := &Edition{
		Title:       "Untidy",
		ISBN10:      []string{"9780060853983"},
		ISBN13:      []string{"not an isbn"},
		PublishDate: "Spring",
		Pagination:  "unpaged",
	}

	book, err := BookFromEdition(context.Background(), edition, &fakeResolver{})
	require.NoError(t, err)
	assert.Nil(t, book.ISBN10)
	assert.Nil(t, book.ISBN13)
	assert.Nil(t, book.PublishYear)
	assert.Nil(t, book.PageCount)
	assert.Nil(t, book.Authors)
	assert.Nil(t, book.CoverURL)
}

func TestBookFromEdition_AuthorFailureFailsWhole(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{
		authors: map[string]string{"/authors/OL1A": "Fine"},
		fail:    map[string]bool{"/authors/OL2A": true},
	}
	edition := &Edition{
		Title:   "Half",
		Authors: []AuthorRef{{Key: "/authors/OL1A"}, {Key: "/authors/OL2A"}},
	}

	book, err := BookFromEdition(context.Background(), edition, resolver)
	assert.Nil(t, book)
	require.Error(t, err)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeSourceUnavailable))
}

func TestBookFromEdition_AuthorWithoutName(t *testing.T) {
	t.Parallel()

	_, err := BookFromEdition(context.Background(), &Edition{Authors: []AuthorRef{{Key: "/authors/OL1A"}}}, &fakeResolver{})
	require.Error(t, err)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeSourceUnavailable))

	_, err = BookFromEdition(context.Background(), &Edition{Authors: []AuthorRef{{}}}, &fakeResolver{})
	require.Error(t, err)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeSourceUnavailable))
}

func TestParsePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected *uint32
	}{
		{"320", u32(320)},
		{" 320 ", u32(320)},
		{"320 p.", u32(320)},
		{"xii, 412 p.", u32(412)},
		{"unpaged", nil},
		{"", nil},
		{"0", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParsePagination(tt.in), tt.in)
	}
}

func TestParsePublishYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected *uint32
	}{
		{"1965", u32(1965)},
		{"March 3, 2004", u32(2004)},
		{"1999-2001", u32(2001)},
		{"c1987", nil},
		{"Spring", nil},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParsePublishYear(tt.in), tt.in)
	}
}

func u32(n uint32) *uint32 {
	return &n
}
