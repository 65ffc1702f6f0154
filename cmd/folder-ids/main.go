// Command folder-ids collects the share id of every exposed bookmark folder
// and prints them as a JSON array.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/naver-folder-client/internal/app"
	"github.com/Sternrassler/naver-folder-client/internal/config"
	"github.com/Sternrassler/naver-folder-client/pkg/metrics"
	"github.com/Sternrassler/naver-folder-client/pkg/pagination"
	"github.com/Sternrassler/naver-folder-client/pkg/report"
	"github.com/Sternrassler/naver-folder-client/pkg/sink"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	app.SetupLogging(cfg)

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Error().Err(err).Msg("Share id collection failed")
		return 1
	}
	return 0
}

// run collects, prints, then performs the optional publish and metrics push.
// Nothing is printed to out beyond progress lines when collection fails.
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	api, err := app.NewAPI(cfg)
	if err != nil {
		return err
	}

	collector := pagination.NewCollector(api, pagination.Config{
		PageSize: cfg.PageSize,
		Progress: out,
	})

	result, err := collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect share ids: %w", err)
	}

	if err := report.NewPrinter(out).PrintShareIDs(result.ShareIDs); err != nil {
		return fmt.Errorf("print share ids: %w", err)
	}

	if cfg.RedisURL != "" {
		if err := publish(ctx, cfg, result.ShareIDs); err != nil {
			return err
		}
	}

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		// The ids are already out; a failed push only costs observability.
		if err := metrics.Push(pushCtx, metrics.PushConfig{URL: cfg.PushgatewayURL, Job: cfg.MetricsJob}); err != nil {
			log.Warn().Err(err).Msg("Metrics push failed")
		} else {
			log.Info().Str("url", cfg.PushgatewayURL).Msg("Metrics pushed")
		}
	}

	return nil
}

func publish(ctx context.Context, cfg *config.Config, ids []string) error {
	redisClient, err := sink.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if err := sink.NewPublisher(redisClient).Publish(ctx, cfg.RedisKey, ids); err != nil {
		return fmt.Errorf("publish share ids: %w", err)
	}
	return nil
}
