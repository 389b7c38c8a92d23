// Command stress hammers a running server with concurrent reads to check for
// SQLITE_BUSY errors and slow responses under load.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

func run(ctx context.Context, logger *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("stress", flag.ContinueOnError)
	baseURL := flags.String("url", "http://localhost:8080", "base URL of the server")
	workers := flags.Int("workers", 10, "number of concurrent workers")
	requests := flags.Int("requests", 100, "requests per worker")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	paths := []string{"/api/healthy", "/api/plans", "/api/cycles", "/api/exercises"}
	client := &http.Client{Timeout: 10 * time.Second}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for worker := range *workers {
		g.Go(func() error {
			for i := range *requests {
				path := paths[(worker+i)%len(paths)]
				if err := get(ctx, client, *baseURL+path); err != nil {
					return fmt.Errorf("worker %d request %d: %w", worker, i, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := *workers * *requests
	elapsed := time.Since(start)
	logger.LogAttrs(ctx, slog.LevelInfo, "stress run complete",
		slog.Int("requests", total),
		slog.Duration("elapsed", elapsed),
		slog.Float64("rps", float64(total)/elapsed.Seconds()))
	return nil
}

func get(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if _, err = io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("drain body: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return nil
}

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := run(ctx, logger, os.Args[1:]); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "stress run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
