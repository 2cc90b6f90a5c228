package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/bookbuddy/pkg/books"
	"github.com/shishobooks/bookbuddy/pkg/config"
	"github.com/shishobooks/bookbuddy/pkg/covers"
	"github.com/shishobooks/bookbuddy/pkg/editsession"
	"github.com/shishobooks/bookbuddy/pkg/epub"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/shishobooks/bookbuddy/pkg/identifiers"
	"github.com/shishobooks/bookbuddy/pkg/models"
	"github.com/shishobooks/bookbuddy/pkg/openlibrary"
	"github.com/shishobooks/bookbuddy/pkg/prompt"
	"github.com/uptrace/bun"
)

type app struct {
	cfg     *config.Config
	books   *books.Service
	catalog *openlibrary.Client
	covers  *covers.Store
	console *prompt.Console
	out     io.Writer
	tty     bool
}

func newApp(cfg *config.Config, db *bun.DB, in io.Reader, out io.Writer) *app {
	return &app{
		cfg:     cfg,
		books:   books.NewService(db),
		catalog: openlibrary.NewClient(cfg),
		covers:  covers.NewStore(cfg.CoverDirectory),
		console: prompt.NewConsole(in, out),
		out:     out,
		tty:     isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// search asks the catalog for works matching title and author (prompting for
// both when neither is given), lets the user pick one and saves it.
func (a *app) search(ctx context.Context, title, author string) error {
	var err error
	if title == "" && author == "" {
		if title, err = a.console.Prompt("Title: "); err != nil {
			return err
		}
		if author, err = a.console.Prompt("Author: "); err != nil {
			return err
		}
	}

	res, err := a.catalog.Search(ctx, openlibrary.SearchQuery{Title: title, Author: author}, a.cfg.SearchResultLimit)
	if err != nil {
		return err
	}
	if len(res.Docs) == 0 {
		return errcodes.NotFound("Search result")
	}

	for i := range res.Docs {
		fmt.Fprintf(a.out, "%d: %s\n", i, res.Docs[i].String())
	}
	i, err := a.console.Select("Please enter a number: ", len(res.Docs))
	if err != nil {
		return err
	}

	book, err := openlibrary.BookFromSearchDoc(&res.Docs[i])
	if err != nil {
		return err
	}
	return a.review(ctx, book, nil)
}

// lookup fetches the catalog edition for an ISBN and saves it.
func (a *app) lookup(ctx context.Context, isbn string) error {
	id, err := a.askISBN(isbn)
	if err != nil {
		return err
	}

	edition, err := a.catalog.Edition(ctx, id.Value)
	if err != nil {
		return err
	}
	book, err := openlibrary.BookFromEdition(ctx, edition, a.catalog)
	if err != nil {
		return err
	}

	// The edition was found by this ISBN even if its own lists leave it out.
	switch {
	case id.Kind == identifiers.KindISBN10 && book.ISBN10 == nil:
		book.ISBN10 = &id.Value
	case id.Kind == identifiers.KindISBN13 && book.ISBN13 == nil:
		book.ISBN13 = &id.Value
	}

	return a.review(ctx, book, nil)
}

// importEPUB reads a local e-book and saves it.
func (a *app) importEPUB(ctx context.Context, path string) error {
	var err error
	if path == "" {
		if path, err = a.console.Prompt("Enter epub filepath: "); err != nil {
			return err
		}
	}

	md, err := epub.Parse(path)
	if err != nil {
		return err
	}
	book, err := epub.BookFromMetadata(md)
	if err != nil {
		return err
	}
	return a.review(ctx, book, md)
}

// review shows an imported book, lets the user edit it, offers to store its
// cover and then saves it.
func (a *app) review(ctx context.Context, book *models.Book, md *epub.Metadata) error {
	fmt.Fprintln(a.out, renderBook(book, a.tty))

	if err := editsession.New(book).Run(ctx, a.console, a.out); err != nil {
		return err
	}

	if err := a.attachCover(ctx, book, md); err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		// The book is still worth saving without its cover.
		errcodes.Report(ctx, a.out, "cover", err)
	}

	written, err := a.books.Upsert(ctx, book)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s.\n", written.DisplayTitle())
	return nil
}

// attachCover stores the cover from the e-book itself or, failing that,
// downloads the catalog cover. book.CoverPath is only set on success.
func (a *app) attachCover(ctx context.Context, book *models.Book, md *epub.Metadata) error {
	if md != nil && len(md.CoverData) > 0 {
		save, err := a.console.YesNo("Save cover image? y/n: ")
		if err != nil || !save {
			return err
		}
		name := ""
		if book.Title != nil {
			name = *book.Title
		}
		p, err := a.covers.Save(name, md.CoverData)
		if err != nil {
			return err
		}
		book.CoverPath = &p
		return nil
	}

	if book.CoverURL == nil {
		return nil
	}
	download, err := a.console.YesNo("Download image? y/n: ")
	if err != nil || !download {
		return err
	}
	p, err := a.covers.Download(ctx, a.catalog, *book.CoverURL)
	if err != nil {
		return err
	}
	book.CoverPath = &p
	return nil
}

func (a *app) list(ctx context.Context, limit int) error {
	list, err := a.books.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No books saved yet.")
		return nil
	}
	fmt.Fprintln(a.out, renderBooks(list, a.tty))
	return nil
}

// remove lets the user pick one of the most recent books and deletes it.
func (a *app) remove(ctx context.Context) error {
	list, err := a.books.ListRecent(ctx, a.cfg.RemoveListLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No books saved yet.")
		return nil
	}

	fmt.Fprintln(a.out, renderBooks(list, a.tty))
	i, err := a.console.Select("Please enter a number: ", len(list))
	if err != nil {
		return err
	}

	removed, err := a.books.Remove(ctx, list[i])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(a.out, "No matching record.")
		return nil
	}
	fmt.Fprintf(a.out, "Removed %s.\n", list[i].DisplayTitle())
	return nil
}

// progress records the current page, finished flag and start date of a saved
// book. Blank answers keep the stored value.
func (a *app) progress(ctx context.Context, isbn string) error {
	id, err := a.askISBN(isbn)
	if err != nil {
		return err
	}

	opts := books.RetrieveBookOptions{}
	if id.Kind == identifiers.KindISBN10 {
		opts.ISBN10 = &id.Value
	} else {
		opts.ISBN13 = &id.Value
	}
	book, err := a.books.RetrieveBook(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderBook(book, a.tty))

	// Blank answers become nil, which the merge treats as "keep".
	session := editsession.New(book)
	questions := []struct {
		field editsession.Field
		label string
	}{
		{editsession.FieldCurrentPage, "Current page (blank to keep): "},
		{editsession.FieldFinished, "Finished? y/n (blank to keep): "},
		{editsession.FieldDateStarted, "Date started, YYYYMMDD (blank to keep): "},
	}
	for _, q := range questions {
		for {
			answer, err := a.console.Prompt(q.label)
			if err != nil {
				return err
			}
			err = session.ApplyProgress(string(q.field), answer)
			if err == nil {
				break
			}
			errcodes.Report(ctx, a.out, "progress", err)
		}
	}

	written, err := a.books.Upsert(ctx, session.Book())
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("progress recorded", logger.Data{"book_id": written.ID})
	fmt.Fprintf(a.out, "Saved progress for %s.\n", written.DisplayTitle())
	return nil
}

// askISBN classifies isbn, prompting for it first when it's empty.
func (a *app) askISBN(isbn string) (identifiers.Identifier, error) {
	var err error
	if isbn == "" {
		if isbn, err = a.console.Prompt("Enter ISBN: "); err != nil {
			return identifiers.Identifier{}, err
		}
	}

	id, err := identifiers.Classify(isbn)
	if err != nil {
		return identifiers.Identifier{}, err
	}
	if id.Kind == identifiers.KindUnrecognized {
		return identifiers.Identifier{}, errcodes.InvalidFieldValue("isbn", isbn)
	}
	return id, nil
}
