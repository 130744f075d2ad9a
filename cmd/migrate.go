package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"storefront.GO/config"
	productEntity "storefront.GO/model/entity/product"
	"storefront.GO/model/migrations"
)

var migrateCmd = &cobra.Command{
	Use:       "db:migrate [up|down|version]",
	Short:     "Apply or roll back catalog schema migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "up"
		if len(args) == 1 {
			action = args[0]
		}
		out := cmd.OutOrStdout()

		// SQLite is for local runs; the embedded migrations are MySQL DDL.
		if os.Getenv("DB_DRIVER") == "sqlite" {
			if action != "up" {
				return fmt.Errorf("db:migrate %s is not supported with DB_DRIVER=sqlite", action)
			}
			db, err := config.NewDB()
			if err != nil {
				return fmt.Errorf("connect to DB: %w", err)
			}
			if err := db.AutoMigrate(&productEntity.Product{}); err != nil {
				return fmt.Errorf("auto-migrate: %w", err)
			}
			fmt.Fprintln(out, "sqlite schema up to date")
			return nil
		}

		m, err := newMigrator()
		if err != nil {
			return err
		}
		defer m.Close()

		switch action {
		case "up":
			err = m.Up()
		case "down":
			err = m.Steps(-1)
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate %s: %w", action, err)
		}

		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(out, "no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "schema version %d (dirty=%t)\n", version, dirty)
		return nil
	},
}

func newMigrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	db, err := sql.Open("mysql", config.MySQLDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	drv, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql migration driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "mysql", drv)
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
