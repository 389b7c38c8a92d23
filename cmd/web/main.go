package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"time"

	"github.com/liftcycle/liftcycle/internal/envstruct"
	"github.com/liftcycle/liftcycle/internal/logging"
	"github.com/liftcycle/liftcycle/internal/progression"
	"github.com/liftcycle/liftcycle/internal/sqlite"
)

type application struct {
	logger  *slog.Logger
	service *progression.Service
}

type config struct {
	// Addr is the address to listen on. Use localhost:0 to pick a free port.
	Addr string `env:"LIFTCYCLE_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. ":memory:" gives an ephemeral in-memory database.
	SqliteURL string `env:"LIFTCYCLE_SQLITE_URL" envDefault:"./liftcycle.sqlite3"`
	// TransitionHour is the hour of day (0-23) before which activity still counts as the previous day.
	TransitionHour int `env:"LIFTCYCLE_TRANSITION_HOUR" envDefault:"3"`
	// PProfAddr is the optional address to listen on for the pprof server.
	PProfAddr string `env:"LIFTCYCLE_PPROF_ADDR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return fmt.Errorf("populate config: %w", err)
	}
	if cfg.TransitionHour < 0 || cfg.TransitionHour > 23 {
		return fmt.Errorf("transition hour %d out of range 0-23", cfg.TransitionHour)
	}

	if cfg.PProfAddr != "" {
		launchPProfServer(ctx, cfg.PProfAddr, logger)
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return fmt.Errorf("open db %s: %w", cfg.SqliteURL, err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	app := application{
		logger: logger,
		service: progression.NewService(db, logger, progression.Config{
			TransitionHour: cfg.TransitionHour,
		}),
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

// launchPProfServer starts a profiling server on its own address so the
// profiling endpoints never leak onto the public listener.
func launchPProfServer(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server stopped", slog.Any("error", err))
		}
	}()
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", slog.Any("error", err))
		os.Exit(1)
	}
}
