package editsession

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/shishobooks/bookbuddy/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers prompts from a fixed list of lines.
type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) Prompt(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) YesNo(label string) (bool, error) {
	a, err := p.Prompt(label)
	return a == "y", err
}

func strPtr(s string) *string { return &s }

func TestApply(t *testing.T) {
	t.Parallel()

	book := &models.Book{Title: strPtr("Old"), Description: strPtr("Keep me")}
	s := New(book)

	require.NoError(t, s.Apply("Title", "New Title"))
	require.NoError(t, s.Apply("author", "Terry Pratchett,  Neil Gaiman , "))
	require.NoError(t, s.Apply("Page Count", "412"))
	require.NoError(t, s.Apply("year", "1990"))
	require.NoError(t, s.Apply("ISBN_10", "0-06-085398-0"))
	require.NoError(t, s.Apply("isbn13", "978-0060853983"))
	require.NoError(t, s.Apply("first sentence", "  In the beginning.  "))
	require.NoError(t, s.Apply("CoverURL", "https://covers.openlibrary.org/b/olid/OL1M-M.jpg"))
	require.NoError(t, s.Apply("coverpath", "/tmp/cover.jpg"))
	require.NoError(t, s.Apply("OpenLibrary Key", "/works/OL1W"))
	require.NoError(t, s.Apply("language", "eng"))

	assert.Same(t, book, s.Book())
	assert.Equal(t, "New Title", *book.Title)
	assert.Equal(t, models.AuthorList{"Terry Pratchett", "Neil Gaiman"}, book.Authors)
	assert.Equal(t, uint32(412), *book.PageCount)
	assert.Equal(t, uint32(1990), *book.PublishYear)
	assert.Equal(t, "0060853980", *book.ISBN10)
	assert.Equal(t, "9780060853983", *book.ISBN13)
	assert.Equal(t, "In the beginning.", *book.FirstSentence)
	assert.Equal(t, "https://covers.openlibrary.org/b/olid/OL1M-M.jpg", *book.CoverURL)
	assert.Equal(t, "/tmp/cover.jpg", *book.CoverPath)
	assert.Equal(t, "/works/OL1W", *book.CatalogKey)
	assert.Equal(t, "eng", *book.Language)
	assert.Equal(t, "Keep me", *book.Description)
}

func TestApply_BlankClears(t *testing.T) {
	t.Parallel()

	book := &models.Book{Title: strPtr("Old"), Authors: models.AuthorList{"A"}}
	s := New(book)

	require.NoError(t, s.Apply("title", "   "))
	require.NoError(t, s.Apply("authors", " , "))
	assert.Nil(t, book.Title)
	assert.Nil(t, book.Authors)
}

func TestApply_InvalidValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field string
		value string
	}{
		{"page_count", "three hundred"},
		{"page_count", "-1"},
		{"publish_year", "1990.5"},
		{"isbn10", "12345"},
		{"isbn10", "9780060853983"},
		{"isbn13", "0060853980"},
		{"isbn13", "978006085398X"},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			t.Parallel()
			book := &models.Book{}
			err := New(book).Apply(tt.field, tt.value)
			require.Error(t, err)
			assert.True(t, errcodes.HasCode(err, errcodes.CodeInvalidFieldValue))
			assert.Nil(t, book.PageCount)
			assert.Nil(t, book.ISBN10)
			assert.Nil(t, book.ISBN13)
		})
	}
}

func TestApply_UnknownField(t *testing.T) {
	t.Parallel()

	s := New(&models.Book{})
	for _, name := range []string{"publisher", "", "finished", "current_page"} {
		err := s.Apply(name, "x")
		require.Error(t, err, name)
		assert.True(t, errcodes.HasCode(err, errcodes.CodeUnknownField), name)
	}
}

func TestApplyProgress(t *testing.T) {
	t.Parallel()

	book := &models.Book{}
	s := New(book)

	require.NoError(t, s.ApplyProgress("current page", "120"))
	require.NoError(t, s.ApplyProgress("finished", "n"))
	require.NoError(t, s.ApplyProgress("date_started", "2024-03-09"))
	assert.Equal(t, uint32(120), *book.CurrentPage)
	assert.False(t, *book.Finished)
	assert.Equal(t, uint32(20240309), *book.DateStarted)

	require.NoError(t, s.ApplyProgress("finished", "true"))
	assert.True(t, *book.Finished)

	err := s.ApplyProgress("finished", "sort of")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeInvalidFieldValue))
	err = s.ApplyProgress("date_started", "2024-13-40")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeInvalidFieldValue))
	err = s.ApplyProgress("title", "x")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeUnknownField))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("20231231")
	require.NoError(t, err)
	assert.Equal(t, uint32(20231231), *d)

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	t.Parallel()

	book := &models.Book{Title: strPtr("Old")}
	p := &scriptedPrompter{answers: []string{
		"y", "title", "New",
		"y", "pages", "lots",
		"y", "publisher", "Ace",
		"y", "pages", "300",
		"n",
	}}
	var out bytes.Buffer

	err := New(book).Run(context.Background(), p, &out)
	require.NoError(t, err)
	assert.Equal(t, "New", *book.Title)
	assert.Equal(t, uint32(300), *book.PageCount)
	assert.Contains(t, out.String(), `[error]: edit: Invalid value "lots" for page_count`)
	assert.Contains(t, out.String(), `[error]: edit: Unknown field "publisher"`)
	assert.Empty(t, p.answers)
}

func TestRun_StopsWhenInputEnds(t *testing.T) {
	t.Parallel()

	p := &scriptedPrompter{answers: []string{"y", "title"}}
	err := New(&models.Book{}).Run(context.Background(), p, io.Discard)
	assert.ErrorIs(t, err, io.EOF)
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(&models.Book{}).Run(ctx, &scriptedPrompter{}, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}
