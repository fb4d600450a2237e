package storage

import (
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/yurykabanov/organizer/migrations"
)

// Migrate applies every pending migration to db. Migrations are read from
// migrationsPath (e.g. "file://migrations/") or, when it is empty, from the
// copy embedded into the binary.
func Migrate(db *sqlx.DB, databaseName, migrationsPath string) error {
	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return errors.Wrap(err, "Unable to create instance of migrate")
	}

	var m *migrate.Migrate

	if migrationsPath == "" {
		source, err := iofs.New(migrations.FS, ".")
		if err != nil {
			return errors.Wrap(err, "Unable to read embedded migrations")
		}

		m, err = migrate.NewWithInstance("iofs", source, databaseName, driver)
		if err != nil {
			return errors.Wrap(err, "Unable to read migrations")
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance(migrationsPath, databaseName, driver)
		if err != nil {
			return errors.Wrap(err, "Unable to read migrations")
		}
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "Unable to migrate DB")
	}

	return nil
}
