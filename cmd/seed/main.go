package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/andresuchdata/m2go-inventory/internal/cache"
	"github.com/andresuchdata/m2go-inventory/internal/config"
	"github.com/andresuchdata/m2go-inventory/internal/countimport"
	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/andresuchdata/m2go-inventory/internal/engine"
	"github.com/andresuchdata/m2go-inventory/internal/export"
	"github.com/andresuchdata/m2go-inventory/internal/repository/postgres"
	"github.com/andresuchdata/m2go-inventory/internal/service"
	"github.com/andresuchdata/m2go-inventory/internal/storage"
	"github.com/andresuchdata/m2go-inventory/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

var seedLog = logger.Component("seed")

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	sqlDB, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := sqlDB.PingContext(c.Context); err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db := postgres.Wrap(sqlx.NewDb(sqlDB, "pgx"), config.Load().Database.MaxConcurrentTxns)
	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey{}).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database not initialised")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		seedLog.Debug().Err(err).Msg("no .env file loaded")
	}
	logger.SetLevel(config.Load().App.LogLevel)
	seedLog = logger.Component("seed")

	app := &cli.App{
		Name:  "seed",
		Usage: "Prepare the inventory database and inspect suggestions",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:   "catalog",
				Usage:  "Insert the default catalog when empty and any missing default settings",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runSeedCatalog,
			},
			{
				Name:  "counts",
				Usage: "Import daily count sheets (CSV or XLSX)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Directory containing count sheets",
						Value:   config.Load().App.ImportDir,
						EnvVars: []string{"APP_IMPORT_DIR"},
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of sheets parsed in parallel",
						Value: config.Load().Engine.ImportWorkers,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runImportCounts,
			},
			{
				Name:  "suggest",
				Usage: "Compute and print order suggestions for a cycle",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "cycle",
						Usage: "Order cycle: MONDAY or FRIDAY",
						Value: string(domain.CycleMonday),
					},
					&cli.StringFlag{
						Name:    "rules",
						Usage:   "Engine rules file (YAML/JSON); empty uses the built-in table",
						Value:   config.Load().Engine.RulesPath,
						EnvVars: []string{"ENGINE_RULES_PATH"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runSuggest,
			},
			{
				Name:  "exports",
				Usage: "List order exports archived in object storage",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix",
						Value: config.Load().Storage.ExportPrefix,
					},
				},
				Action: runListExports,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		seedLog.Fatal().Err(err).Msg("seed failed")
	}
}

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	if err := db.Migrate(c.Context); err != nil {
		return err
	}
	seedLog.Info().Msg("schema applied")
	return nil
}

func runSeedCatalog(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	suggestionCache := openSuggestionCache(config.Load())
	catalog := service.NewCatalogService(postgres.NewCatalogRepository(db), suggestionCache)
	if _, err := catalog.SeedIfEmpty(c.Context, defaultCatalog()); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	settings := service.NewSettingsService(postgres.NewSettingsRepository(db), suggestionCache)
	if err := settings.EnsureDefaults(c.Context); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

func runImportCounts(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	counts := service.NewCountService(postgres.NewCountRepository(db), openSuggestionCache(config.Load()))
	summary, err := countimport.NewImporter(counts.Bulk(), c.Int("workers")).ImportDir(c.Context, c.String("dir"))
	if err != nil {
		return err
	}

	for _, f := range summary.Files {
		seedLog.Info().Str("file", f.Path).Int("rows", f.Rows).Msg("sheet imported")
	}
	return nil
}

func openSuggestionCache(cfg *config.Config) cache.SuggestionCache {
	suggestionCache, err := cache.NewSuggestionCache(cfg.Cache)
	if err != nil {
		seedLog.Warn().Err(err).Msg("suggestion cache unavailable, cached results will expire on their own")
		return cache.NewNoopSuggestionCache()
	}
	return suggestionCache
}

func runSuggest(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	cycle, err := domain.ParseOrderCycle(c.String("cycle"))
	if err != nil {
		return err
	}
	rules, err := engine.LoadRules(c.String("rules"))
	if err != nil {
		return err
	}

	cfg := config.Load()
	svc := service.NewSuggestionService(
		postgres.NewCatalogRepository(db),
		postgres.NewCountRepository(db),
		postgres.NewBalanceRepository(db),
		postgres.NewSettingsRepository(db),
		engine.New(rules),
		nil,
		cfg.Engine.MaxLookbackDays,
	)
	svc.SetLocation(cfg.App.Location())

	suggestions, err := svc.Suggest(c.Context, cycle)
	if err != nil {
		return err
	}
	return printSuggestions(os.Stdout, suggestions)
}

func printSuggestions(out io.Writer, suggestions []domain.Suggestion) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tCATEGORY\tSUGGESTED\tFINAL\tUNIT\tRISK\tNOTES")
	for _, s := range suggestions {
		risk := ""
		if s.LoadingRisk {
			risk = "!"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ProductName,
			export.CategoryLabel(s.Category),
			strconv.FormatFloat(s.SuggestedQty, 'f', 2, 64),
			strconv.FormatFloat(s.FinalQty, 'f', -1, 64),
			s.Unit,
			risk,
			s.Notes,
		)
	}
	return w.Flush()
}

func runListExports(c *cli.Context) error {
	cfg := config.Load()
	if !cfg.Storage.Enabled {
		return fmt.Errorf("object storage is disabled; set STORAGE_ENABLED=true")
	}

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	objects, err := client.ListObjects(c.Context, c.String("prefix"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tBYTES")
	for _, o := range objects {
		fmt.Fprintf(w, "%s\t%d\n", o.Key, o.Size)
	}
	return w.Flush()
}
