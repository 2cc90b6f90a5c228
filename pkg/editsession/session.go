package editsession

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/shishobooks/bookbuddy/pkg/identifiers"
	"github.com/shishobooks/bookbuddy/pkg/models"
)

const dateLayout = "20060102"

// Prompter is the console the session asks questions through.
type Prompter interface {
	Prompt(label string) (string, error)
	YesNo(label string) (bool, error)
}

// Session owns the book being edited until it's handed to the store.
type Session struct {
	book *models.Book
}

func New(book *models.Book) *Session {
	return &Session{book: book}
}

func (s *Session) Book() *models.Book {
	return s.book
}

// Apply sets one metadata field from raw input. Blank input clears the field.
// A value that doesn't parse leaves the book untouched and returns an invalid
// field value error.
func (s *Session) Apply(name, value string) error {
	field, err := ParseField(name, EditableFields)
	if err != nil {
		return err
	}
	return s.set(field, strings.TrimSpace(value))
}

// ApplyProgress sets one reading-progress field from raw input. Dates are
// YYYYMMDD or YYYY-MM-DD.
func (s *Session) ApplyProgress(name, value string) error {
	field, err := ParseField(name, ProgressFields)
	if err != nil {
		return err
	}
	return s.set(field, strings.TrimSpace(value))
}

func (s *Session) set(field Field, value string) error {
	b := s.book
	switch field {
	case FieldTitle:
		b.Title = optional(value)
	case FieldCoverPath:
		b.CoverPath = optional(value)
	case FieldCoverURL:
		b.CoverURL = optional(value)
	case FieldDescription:
		b.Description = optional(value)
	case FieldFirstSentence:
		b.FirstSentence = optional(value)
	case FieldLanguage:
		b.Language = optional(value)
	case FieldCatalogKey:
		b.CatalogKey = optional(value)
	case FieldAuthors:
		b.Authors = splitAuthors(value)
	case FieldISBN10, FieldISBN13:
		return s.setISBN(field, value)
	case FieldPublishYear, FieldPageCount, FieldCurrentPage:
		n, err := parseCount(field, value)
		if err != nil {
			return err
		}
		switch field {
		case FieldPublishYear:
			b.PublishYear = n
		case FieldPageCount:
			b.PageCount = n
		default:
			b.CurrentPage = n
		}
	case FieldFinished:
		finished, err := parseBool(value)
		if err != nil {
			return errcodes.InvalidFieldValue(string(field), value)
		}
		b.Finished = finished
	case FieldDateStarted:
		date, err := ParseDate(value)
		if err != nil {
			return err
		}
		b.DateStarted = date
	default:
		return errcodes.UnknownField(string(field))
	}
	return nil
}

func (s *Session) setISBN(field Field, value string) error {
	if value == "" {
		if field == FieldISBN10 {
			s.book.ISBN10 = nil
		} else {
			s.book.ISBN13 = nil
		}
		return nil
	}

	id, err := identifiers.Classify(value)
	switch {
	case err != nil:
		return errcodes.InvalidFieldValue(string(field), value)
	case field == FieldISBN10 && id.Kind == identifiers.KindISBN10:
		s.book.ISBN10 = &id.Value
	case field == FieldISBN13 && id.Kind == identifiers.KindISBN13:
		s.book.ISBN13 = &id.Value
	default:
		return errcodes.InvalidFieldValue(string(field), value)
	}
	return nil
}

// Run asks for edits until the user says there's nothing left to change. A
// rejected edit is reported to out and asked for again. Run only fails when
// the prompter does.
func (s *Session) Run(ctx context.Context, p Prompter, out io.Writer) error {
	log := logger.FromContext(ctx)
	fieldPrompt := "Choose from the following options:\n" + menu(EditableFields) + "\n"

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		change, err := p.YesNo("Is there anything you'd like to change? y/n: ")
		if err != nil {
			return err
		}
		if !change {
			return nil
		}

		field, err := p.Prompt(fieldPrompt)
		if err != nil {
			return err
		}
		value, err := p.Prompt("Enter the new value (blank to clear): ")
		if err != nil {
			return err
		}

		if err := s.Apply(field, value); err != nil {
			errcodes.Report(ctx, out, "edit", err)
			continue
		}
		log.Debug("field edited", logger.Data{"field": field})
		fmt.Fprintf(out, "Updated %s.\n", strings.TrimSpace(field))
	}
}

// ParseDate reads YYYYMMDD or YYYY-MM-DD and returns it encoded as the
// number YYYYMMDD. Blank input is nil.
func ParseDate(value string) (*uint32, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.ReplaceAll(value, "-", ""))
	if err != nil {
		return nil, errcodes.InvalidFieldValue(string(FieldDateStarted), value)
	}
	n := uint32(t.Year()*10000 + int(t.Month())*100 + t.Day())
	return &n, nil
}

func parseCount(field Field, value string) (*uint32, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil, errcodes.InvalidFieldValue(string(field), value)
	}
	v := uint32(n)
	return &v, nil
}

func parseBool(value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	var b bool
	switch strings.ToLower(value) {
	case "y", "yes":
		b = true
	case "n", "no":
		b = false
	default:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		b = parsed
	}
	return &b, nil
}

func splitAuthors(value string) models.AuthorList {
	var authors models.AuthorList
	for _, a := range strings.Split(value, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
