package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT,
				authors TEXT,
				cover_url TEXT,
				cover_path TEXT,
				page_count INTEGER,
				description TEXT,
				first_sentence TEXT,
				language TEXT,
				isbn10 TEXT,
				isbn13 TEXT,
				catalog_key TEXT,
				publish_year INTEGER,
				current_page INTEGER,
				finished BOOLEAN,
				date_started INTEGER,
				last_modified INTEGER NOT NULL,
				created_at INTEGER NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// ISBN-10 and ISBN-13 are independent alternate keys. NULLs don't
		// collide, so books missing either one can coexist.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_books_isbn10 ON books (isbn10)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_books_isbn13 ON books (isbn13)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_last_modified ON books (last_modified)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS books")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
