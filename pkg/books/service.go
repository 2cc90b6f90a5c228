package books

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/bookbuddy/pkg/covers"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/shishobooks/bookbuddy/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID     *int64
	ISBN10 *string
	ISBN13 *string
}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// addressKey returns the column and value a book is addressed by: its ISBN-10,
// else its ISBN-13, else the row id it was read back with. An empty column
// means the book can't be addressed at all.
func addressKey(book *models.Book) (string, interface{}) {
	switch {
	case book.ISBN10 != nil:
		return "isbn10", *book.ISBN10
	case book.ISBN13 != nil:
		return "isbn13", *book.ISBN13
	case book.ID > 0:
		return "id", book.ID
	default:
		return "", nil
	}
}

func findByKey(ctx context.Context, db bun.IDB, column string, value interface{}) (*models.Book, error) {
	book := &models.Book{}
	err := db.
		NewSelect().
		Model(book).
		Where(fmt.Sprintf("b.%s = ?", column), value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	return book, nil
}

// Upsert stores book, merging it into the row that shares its ISBN-10 (or its
// ISBN-13 when it has no ISBN-10). A book with no identifier is always
// inserted as a new row. The written row is returned; book itself isn't
// modified.
func (svc *Service) Upsert(ctx context.Context, book *models.Book) (*models.Book, error) {
	log := logger.FromContext(ctx)
	column, value := addressKey(book)

	var written *models.Book
	var created bool
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var existing *models.Book
		if column != "" {
			var err error
			existing, err = findByKey(ctx, tx, column, value)
			if err != nil {
				return err
			}
		}

		merged := MergeBook(existing, book, svc.now())

		if existing == nil {
			_, err := tx.
				NewInsert().
				Model(merged).
				Returning("id").
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			created = true
		} else {
			_, err := tx.
				NewUpdate().
				Model(merged).
				WherePK().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		written = merged
		return nil
	})
	if err != nil {
		return nil, errcodes.Persistence(err)
	}

	if column == "" {
		log.Warn("stored book without an identifier", logger.Data{"book_id": written.ID})
	}
	log.Info("book stored", logger.Data{"book_id": written.ID, "key": column, "created": created})

	return written, nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	if opts.ID == nil && opts.ISBN10 == nil && opts.ISBN13 == nil {
		return nil, errcodes.NotFound("Book")
	}

	book := &models.Book{}
	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.ISBN10 != nil {
		q = q.Where("b.isbn10 = ?", *opts.ISBN10)
	}
	if opts.ISBN13 != nil {
		q = q.Where("b.isbn13 = ?", *opts.ISBN13)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errcodes.Persistence(errors.WithStack(err))
	}

	return book, nil
}

// ListRecent returns up to limit books, most recently modified first. A limit
// of zero or less returns no books.
func (svc *Service) ListRecent(ctx context.Context, limit int) ([]*models.Book, error) {
	books := []*models.Book{}
	if limit <= 0 {
		return books, nil
	}

	err := svc.db.
		NewSelect().
		Model(&books).
		Order("b.last_modified DESC", "b.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.Persistence(errors.WithStack(err))
	}

	return books, nil
}

// Remove deletes the row book is addressed by (ISBN-10 first, then ISBN-13,
// then row id) along with its cover file. It returns false without an error
// when book has no identifier or no row matches, since callers often act on
// records that have gone stale.
func (svc *Service) Remove(ctx context.Context, book *models.Book) (bool, error) {
	log := logger.FromContext(ctx)
	column, value := addressKey(book)
	if column == "" {
		log.Info("book has no identifier to remove by")
		return false, nil
	}

	var removed *models.Book
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		existing, err := findByKey(ctx, tx, column, value)
		if err != nil || existing == nil {
			return err
		}

		_, err = tx.
			NewDelete().
			Model(existing).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		removed = existing
		return nil
	})
	if err != nil {
		return false, errcodes.Persistence(err)
	}
	if removed == nil {
		log.Info("no matching book to remove", logger.Data{"key": column})
		return false, nil
	}

	coverPath := removed.CoverPath
	if coverPath == nil {
		coverPath = book.CoverPath
	}
	if coverPath != nil {
		if err := covers.Remove(*coverPath); err != nil {
			return true, errcodes.Persistence(errors.Wrapf(err, "failed to remove cover %s", *coverPath))
		}
	}

	log.Info("book removed", logger.Data{"book_id": removed.ID, "key": column})
	return true, nil
}
