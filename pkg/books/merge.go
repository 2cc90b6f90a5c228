package books

import (
	"time"

	"github.com/shishobooks/bookbuddy/pkg/models"
)

// MergeBook produces the row to write when incoming is stored on top of
// existing. Every field set in incoming wins and every field incoming leaves
// unset keeps the stored value. Authors are replaced as a whole list. A nil
// existing means incoming is a new row. Neither argument is modified.
func MergeBook(existing, incoming *models.Book, now time.Time) *models.Book {
	ts := models.NewTimestamp(now)

	if existing == nil {
		existing = &models.Book{CreatedAt: ts}
	}

	merged := &models.Book{
		ID:            existing.ID,
		Title:         pick(incoming.Title, existing.Title),
		Authors:       pickAuthors(incoming.Authors, existing.Authors),
		CoverURL:      pick(incoming.CoverURL, existing.CoverURL),
		CoverPath:     pick(incoming.CoverPath, existing.CoverPath),
		PageCount:     pick(incoming.PageCount, existing.PageCount),
		Description:   pick(incoming.Description, existing.Description),
		FirstSentence: pick(incoming.FirstSentence, existing.FirstSentence),
		Language:      pick(incoming.Language, existing.Language),
		ISBN10:        pick(incoming.ISBN10, existing.ISBN10),
		ISBN13:        pick(incoming.ISBN13, existing.ISBN13),
		CatalogKey:    pick(incoming.CatalogKey, existing.CatalogKey),
		PublishYear:   pick(incoming.PublishYear, existing.PublishYear),
		CurrentPage:   pick(incoming.CurrentPage, existing.CurrentPage),
		Finished:      pick(incoming.Finished, existing.Finished),
		DateStarted:   pick(incoming.DateStarted, existing.DateStarted),
		LastModified:  ts,
		CreatedAt:     existing.CreatedAt,
	}
	if merged.CreatedAt.IsZero() {
		merged.CreatedAt = ts
	}

	return merged
}

func pick[T any](incoming, existing *T) *T {
	v := existing
	if incoming != nil {
		v = incoming
	}
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func pickAuthors(incoming, existing models.AuthorList) models.AuthorList {
	src := existing
	if len(incoming) > 0 {
		src = incoming
	}
	if len(src) == 0 {
		return nil
	}
	return append(models.AuthorList(nil), src...)
}
