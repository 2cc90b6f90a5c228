package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
)

type menuOption struct {
	key  string
	name string
	run  func(ctx context.Context) error
}

func (a *app) menuOptions() []menuOption {
	return []menuOption{
		{"s", "search", func(ctx context.Context) error { return a.search(ctx, "", "") }},
		{"i", "lookup", func(ctx context.Context) error { return a.lookup(ctx, "") }},
		{"r", "epub", func(ctx context.Context) error { return a.importEPUB(ctx, "") }},
		{"d", "list", func(ctx context.Context) error { return a.list(ctx, a.cfg.ListLimit) }},
		{"rd", "remove", a.remove},
		{"p", "progress", func(ctx context.Context) error { return a.progress(ctx, "") }},
	}
}

const menuText = `
What would you like to do?
  s:  search by title and author
  i:  look up an ISBN
  r:  read an .epub file
  d:  display recent books
  rd: remove a book
  p:  record reading progress
  e:  exit
> `

// runMenu loops over the interactive menu. A failed operation is reported
// and the menu is shown again; it only returns on exit, end of input or
// cancellation.
func (a *app) runMenu(ctx context.Context) error {
	options := a.menuOptions()

	for {
		if ctx.Err() != nil {
			return nil
		}

		choice, err := a.console.Prompt(menuText)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		choice = strings.ToLower(choice)
		if choice == "e" || choice == "exit" {
			return nil
		}

		var opt *menuOption
		for i := range options {
			if options[i].key == choice || options[i].name == choice {
				opt = &options[i]
				break
			}
		}
		if opt == nil {
			fmt.Fprintf(a.out, "[error]: unknown option %q.\n", choice)
			continue
		}

		if err := opt.run(ctx); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			errcodes.Report(ctx, a.out, opt.name, err)
		}
	}
}
