// Command migrate walks the schema forwards and backwards along the embedded
// migration chain.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/postboard/internal/config"
	"github.com/iliyamo/postboard/internal/database"
	"github.com/iliyamo/postboard/internal/logger"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the postboard schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Flags: []cli.Flag{&cli.IntFlag{Name: "steps", Usage: "apply at most N migrations (0 = all)"}},
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrate) error {
					if n := c.Int("steps"); n > 0 {
						return m.Steps(n)
					}
					return m.Up()
				}),
			},
			{
				Name:  "down",
				Usage: "revert migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "revert N migrations"},
					&cli.BoolFlag{Name: "all", Usage: "revert every migration"},
				},
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrate) error {
					if c.Bool("all") {
						return m.Down()
					}
					n := c.Int("steps")
					if n < 1 {
						return errors.New("--steps must be at least 1")
					}
					return m.Steps(-n)
				}),
			},
			{
				Name:      "goto",
				Usage:     "migrate up or down to a version",
				ArgsUsage: "VERSION",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrate) error {
					v, err := versionArg(c)
					if err != nil {
						return err
					}
					return m.Migrate(v)
				}),
			},
			{
				Name:      "force",
				Usage:     "set the version without running migrations (clears the dirty flag)",
				ArgsUsage: "VERSION",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrate) error {
					v, err := versionArg(c)
					if err != nil {
						return err
					}
					return m.Force(int(v))
				}),
			},
			{
				Name:  "version",
				Usage: "print the current version",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrate) error {
					v, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(c.App.Writer, "no migrations applied")
						return nil
					}
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "version %d (dirty=%t)\n", v, dirty)
					return nil
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error.Fatalln(err)
	}
}

// withMigrator opens a migrator for the configured database, runs fn and
// closes it.  ErrNoChange is reported but not treated as a failure.
func withMigrator(fn func(*cli.Context, *migrate.Migrate) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		m, err := database.NewMigrator(config.LoadDatabase())
		if err != nil {
			return err
		}
		defer database.CloseMigrator(m)

		err = fn(c, m)
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info.Println("no change")
			return nil
		}
		if err == nil {
			logger.Info.Printf("%s: done", c.Command.Name)
		}
		return err
	}
}

func versionArg(c *cli.Context) (uint, error) {
	var v uint
	if c.NArg() != 1 {
		return 0, errors.New("expected exactly one VERSION argument")
	}
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &v); err != nil {
		return 0, fmt.Errorf("invalid version %q", c.Args().First())
	}
	return v, nil
}
