package main

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/shishobooks/bookbuddy/pkg/config"
	"github.com/shishobooks/bookbuddy/pkg/database"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
	"github.com/shishobooks/bookbuddy/pkg/migrations"
	"github.com/shishobooks/bookbuddy/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	log = logger.NewWithLevel(cfg.LogLevel)
	log = log.ID(uuid.NewString()).Root(logger.Data{"version": version.Version})

	ctx, cancel := context.WithCancel(log.WithContext(context.Background()))
	defer cancel()

	cliApp := &cli.App{
		Name:    "bookbuddy",
		Usage:   "track the books you read",
		Version: version.Version,
		Action: func(c *cli.Context) error {
			return withApp(c, cfg, func(ctx context.Context, a *app) error {
				return a.runMenu(ctx)
			})
		},
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "search the catalog by title and author and save a result",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "title to search for"},
					&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "author to search for"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, func(ctx context.Context, a *app) error {
						return a.search(ctx, c.String("title"), c.String("author"))
					})
				},
			},
			{
				Name:      "lookup",
				Usage:     "look an edition up by ISBN and save it",
				ArgsUsage: "[isbn]",
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, func(ctx context.Context, a *app) error {
						return a.lookup(ctx, c.Args().First())
					})
				},
			},
			{
				Name:      "epub",
				Usage:     "read an .epub file and save it",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, func(ctx context.Context, a *app) error {
						return a.importEPUB(ctx, c.Args().First())
					})
				},
			},
			{
				Name:  "list",
				Usage: "list the most recently modified books",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: cfg.ListLimit, Usage: "number of books to show"},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, func(ctx context.Context, a *app) error {
						return a.list(ctx, c.Int("limit"))
					})
				},
			},
			{
				Name:  "remove",
				Usage: "pick a book and remove it along with its cover",
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, func(ctx context.Context, a *app) error {
						return a.remove(ctx)
					})
				},
			},
			{
				Name:      "progress",
				Usage:     "record reading progress for a saved book",
				ArgsUsage: "[isbn]",
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, func(ctx context.Context, a *app) error {
						return a.progress(ctx, c.Args().First())
					})
				},
			},
		},
	}

	graceful := signals.Setup()
	go func() {
		<-graceful
		log.Info("interrupted")
		cancel()
		// Stdin reads can't be cancelled, so leave once cleanup has had a chance
		// to run.
		closeAll()
		os.Exit(130)
	}()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Err(err).Error("bookbuddy failed")
		closeAll()
		os.Exit(1)
	}
}

// withApp sets up a session around fn: it takes the session lock, opens and
// migrates the database and releases everything when fn returns.
func withApp(c *cli.Context, cfg *config.Config, fn func(ctx context.Context, a *app) error) error {
	ctx := c.Context
	log := logger.FromContext(ctx)

	lock, err := database.AcquireLock(database.LockPath(cfg.DatabaseFilePath))
	if err != nil {
		if errors.Is(err, database.ErrLocked) {
			return errors.New("bookbuddy is already running against " + cfg.DatabaseFilePath)
		}
		return err
	}
	registerCloser(func() {
		if err := lock.Release(); err != nil {
			log.Err(err).Error("lock release error")
		}
	})

	db, err := database.New(cfg)
	if err != nil {
		closeAll()
		return errors.Wrap(err, "database error")
	}
	registerCloser(func() {
		if err := db.Close(); err != nil {
			log.Err(err).Error("database close error")
		}
	})

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		closeAll()
		return errors.Wrap(err, "migrations error")
	}

	err = fn(ctx, newApp(cfg, db, os.Stdin, os.Stdout))
	closeAll()
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	op := "bookbuddy"
	if c.Command != nil && c.Command.Name != "" {
		op = c.Command.Name
	}
	errcodes.Report(ctx, os.Stdout, op, err)
	return cli.Exit("", 1)
}
