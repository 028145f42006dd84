// Command awesome-lists searches GitHub for repositories tagged with the
// configured topic and writes them as a markdown list.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/awesome-lists/pkg/cache"
	"github.com/Sternrassler/awesome-lists/pkg/client"
	"github.com/Sternrassler/awesome-lists/pkg/config"
	"github.com/Sternrassler/awesome-lists/pkg/harvest"
	"github.com/Sternrassler/awesome-lists/pkg/logging"
	"github.com/Sternrassler/awesome-lists/pkg/metrics"
	"github.com/Sternrassler/awesome-lists/pkg/render"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisPingTimeout = 2 * time.Second

func main() {
	os.Exit(realMain(os.Stderr))
}

func realMain(stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logCfg := cfg.Logging()
	logCfg.Output = stderr
	logging.Setup(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := run(ctx, cfg)
	exportMetrics(cfg.MetricsFile)

	if runErr != nil {
		log.Error().
			Err(runErr).
			Str("error_class", errorClass(runErr)).
			Msg("Run failed")
		fmt.Fprintf(stderr, "error: %v\n", runErr)
		return 1
	}
	return 0
}

// run harvests all pages, renders the document and writes it to the
// configured output. Nothing is written unless every page succeeded.
func run(ctx context.Context, cfg config.Config) error {
	logger := logging.NewLogger("cli")

	clientCfg := cfg.Client()
	if cfg.RedisURL != "" {
		rdb, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("Page cache unavailable - continuing without cache")
		} else {
			defer rdb.Close()
			clientCfg.Cache = cache.NewManager(rdb, cache.DefaultRetention)
			logger.Info().Str("redis", rdb.Options().Addr).Msg("Page cache enabled")
		}
	}

	searchClient, err := client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("create search client: %w", err)
	}
	defer searchClient.Close()

	harvester, err := harvest.New(searchClient, cfg.Harvest())
	if err != nil {
		return fmt.Errorf("create harvester: %w", err)
	}

	items, err := harvester.Harvest(ctx)
	if err != nil {
		return err
	}

	if err := render.WriteFile(cfg.OutputPath, render.Render(items)); err != nil {
		return err
	}

	logger.Info().
		Str("path", cfg.OutputPath).
		Int("items", len(items)).
		Msg("Document written")
	return nil
}

func connectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	return rdb, nil
}

func exportMetrics(path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to export metrics")
	}
}

// errorClass names the failure category for the final log entry. Failures
// outside the harvest pipeline are setup errors.
func errorClass(err error) string {
	if class := harvest.ClassOf(err); class != "" {
		return string(class)
	}
	return "setup"
}
