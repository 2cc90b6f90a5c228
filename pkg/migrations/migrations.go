package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// BringUpToDate creates the migration bookkeeping tables if needed and applies
// every migration that hasn't run yet. There is no rollback path; the schema
// only moves forward.
func BringUpToDate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	log := logger.FromContext(ctx)

	migrator := migrate.NewMigrator(db, Migrations)
	err := migrator.Init(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if group.ID == 0 {
		log.Debug("schema is up to date")
	} else {
		log.Info("migrated schema", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}
	return group, nil
}
