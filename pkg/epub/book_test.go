package epub

import (
	"testing"

	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/shishobooks/bookbuddy/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookFromMetadata(t *testing.T) {
	t.Parallel()

	md := &Metadata{Fields: map[string][]string{
		"title":       {"Good Omens", "Alternate"},
		"creator":     {"Terry Pratchett", "Neil Gaiman"},
		"identifier":  {"urn:uuid:0d7f", "urn:isbn:0-06-085398-0"},
		"language":    {"en"},
		"description": {"<p>The world ends <em>Saturday</em>.</p>", "<p>Next Saturday.</p>"},
		"publisher":   {"Ignored"},
	}}

	book, err := BookFromMetadata(md)
	require.NoError(t, err)
	assert.Equal(t, "Good Omens", *book.Title)
	assert.Equal(t, models.AuthorList{"Terry Pratchett", "Neil Gaiman"}, book.Authors)
	assert.Equal(t, "0060853980", *book.ISBN10)
	assert.Nil(t, book.ISBN13)
	assert.Equal(t, "en", *book.Language)
	assert.Equal(t, "The world ends Saturday.\nNext Saturday.", *book.Description)
	assert.Nil(t, book.PageCount)
	assert.Nil(t, book.CoverURL)
}

func TestBookFromMetadata_ISBN13(t *testing.T) {
	t.Parallel()

	book, err := BookFromMetadata(&Metadata{Fields: map[string][]string{"identifier": {"9780441478125"}}})
	require.NoError(t, err)
	assert.Nil(t, book.ISBN10)
	assert.Equal(t, "9780441478125", *book.ISBN13)
	assert.Nil(t, book.Title)
	assert.Nil(t, book.Authors)
	assert.Nil(t, book.Description)
}

func TestBookFromMetadata_MissingIdentifier(t *testing.T) {
	t.Parallel()

	book, err := BookFromMetadata(&Metadata{Fields: map[string][]string{"title": {"No ISBN"}}})
	assert.Nil(t, book)
	require.Error(t, err)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeMissingIdentifier))
}

func TestBookFromMetadata_UnusableIdentifier(t *testing.T) {
	t.Parallel()

	book, err := BookFromMetadata(&Metadata{Fields: map[string][]string{"identifier": {"urn:uuid:0d7f", "B08N5WRWNW"}}})
	assert.Nil(t, book)
	require.Error(t, err)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeMalformedIdentifier))
}
