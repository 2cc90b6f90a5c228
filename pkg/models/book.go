package models

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// Book is the canonical record for one book. Every field except the two
// timestamps is optional, and nil always means "unknown".
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Title         *string    `bun:"title" json:"title"`
	Authors       AuthorList `bun:"authors" json:"authors"`
	CoverURL      *string    `bun:"cover_url" json:"cover_url"`
	CoverPath     *string    `bun:"cover_path" json:"cover_path"`
	PageCount     *uint32    `bun:"page_count" json:"page_count"`
	Description   *string    `bun:"description" json:"description"`
	FirstSentence *string    `bun:"first_sentence" json:"first_sentence"`
	Language      *string    `bun:"language" json:"language"`
	ISBN10        *string    `bun:"isbn10" json:"isbn10"`
	ISBN13        *string    `bun:"isbn13" json:"isbn13"`
	CatalogKey    *string    `bun:"catalog_key" json:"catalog_key"`
	PublishYear   *uint32    `bun:"publish_year" json:"publish_year"`
	CurrentPage   *uint32    `bun:"current_page" json:"current_page"`
	Finished      *bool      `bun:"finished" json:"finished"`
	DateStarted   *uint32    `bun:"date_started" json:"date_started"`
	LastModified  Timestamp  `bun:"last_modified,notnull" json:"last_modified"`
	CreatedAt     Timestamp  `bun:"created_at,notnull" json:"created_at"`
}

// HasIdentifier reports whether the book can be addressed by an ISBN.
func (b *Book) HasIdentifier() bool {
	return b.ISBN10 != nil || b.ISBN13 != nil
}

// ISBN returns the preferred identifier for display: ISBN-13, then ISBN-10.
func (b *Book) ISBN() string {
	if b.ISBN13 != nil {
		return *b.ISBN13
	}
	if b.ISBN10 != nil {
		return *b.ISBN10
	}
	return ""
}

// DisplayTitle returns the title, or a placeholder when it's unknown.
func (b *Book) DisplayTitle() string {
	if b.Title == nil {
		return "(untitled)"
	}
	return *b.Title
}

// AuthorList is stored as a JSON array in a single column. An empty list is
// stored as NULL so that "no authors" and "unknown authors" don't diverge.
type AuthorList []string

func (a AuthorList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return string(b), nil
}

func (a *AuthorList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return errors.Errorf("unsupported authors column type %T", src)
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return errors.WithStack(err)
	}
	if len(names) == 0 {
		names = nil
	}
	*a = names
	return nil
}

func (a AuthorList) String() string {
	return strings.Join(a, ", ")
}

// Timestamp is a point in time persisted as unix milliseconds.
type Timestamp int64

// NewTimestamp truncates t to millisecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

func (ts Timestamp) IsZero() bool {
	return ts == 0
}

func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Time().Format(time.DateTime)
}
