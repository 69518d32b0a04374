package dbpkg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// migration urls
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/go-petr/pet-split/db"
)

// Direction selects whether migrations are applied or reverted.
type Direction string

// Supported migration directions.
const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate applies the schema migrations in the given direction.
//
// When url is empty the migrations embedded in the binary are used,
// otherwise url is a migrate source url such as file://db/migration.
func Migrate(conn *sql.DB, url string, dir Direction) error {
	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	var m *migrate.Migrate

	if url == "" {
		src, err := iofs.New(db.Migrations, db.MigrationsDir)
		if err != nil {
			return fmt.Errorf("create iofs source: %w", err)
		}

		m, err = migrate.NewWithInstance("iofs", src, "postgres", driver)
		if err != nil {
			return fmt.Errorf("create migrate instance: %w", err)
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance(url, "postgres", driver)
		if err != nil {
			return fmt.Errorf("create migrate instance: %w", err)
		}
	}

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations %s: %w", dir, err)
	}

	return nil
}
