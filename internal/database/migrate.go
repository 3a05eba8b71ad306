package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/iliyamo/postboard/internal/config"
)

// Migrations holds the linear schema history.  Every version has an up and a
// down step and depends only on the version before it.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// NewMigrator returns a migrator over the embedded history.  It opens its own
// connection (with multi-statement support) which is released by m.Close.
func NewMigrator(cfg config.DBConfig) (*migrate.Migrate, error) {
	src, err := iofs.New(Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	mc, err := mysql.ParseDSN(DSN(cfg))
	if err != nil {
		return nil, err
	}
	mc.MultiStatements = true
	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, err
	}
	drv, err := migratemysql.WithInstance(db, &migratemysql.Config{DatabaseName: cfg.Name})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "mysql", drv)
	if err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending migration.  An already current schema is not an error.
func MigrateUp(cfg config.DBConfig) error {
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer CloseMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// CloseMigrator releases both ends of m, reporting the first failure.
func CloseMigrator(m *migrate.Migrate) error {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}
