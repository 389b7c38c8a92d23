// Command planimport loads YAML plan definition files into the database.
//
//	planimport plans/push-pull-legs.yaml plans/deload.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/liftcycle/liftcycle/internal/logging"
	"github.com/liftcycle/liftcycle/internal/planfile"
	"github.com/liftcycle/liftcycle/internal/progression"
	"github.com/liftcycle/liftcycle/internal/sqlite"
)

func run(ctx context.Context, logger *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("planimport", flag.ContinueOnError)
	sqliteURL := flags.String("db", "./liftcycle.sqlite3", "path to the SQLite database")
	transitionHour := flags.Int("transition-hour", 3, "hour of day before which activity counts as the previous day")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("no plan definition files given")
	}

	defs := make([]planfile.Plan, 0, flags.NArg())
	for _, path := range flags.Args() {
		def, err := planfile.ParseFile(path)
		if err != nil {
			return err
		}
		defs = append(defs, def)
	}

	db, err := sqlite.NewDatabase(ctx, *sqliteURL, logger)
	if err != nil {
		return fmt.Errorf("open db %s: %w", *sqliteURL, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", slog.Any("error", closeErr))
		}
	}()

	svc := progression.NewService(db, logger, progression.Config{TransitionHour: *transitionHour})
	plans, err := svc.ImportPlans(ctx, defs)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		fmt.Printf("imported %s (%s, %d days)\n", plan.Name, plan.ID, len(plan.Days))
	}
	return nil
}

func main() {
	ctx := context.Background()
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))
	if err := run(ctx, logger, os.Args[1:]); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "import failed", slog.Any("error", err))
		os.Exit(1)
	}
}
