package pagination

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Sternrassler/naver-folder-client/pkg/folders"
	"github.com/Sternrassler/naver-folder-client/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Batch metrics, meant to be pushed once a run finishes.
var (
	pageRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folder_collect_page_requests_total",
		Help: "Total shares page requests, bootstrap requests included",
	})

	totalFolders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folder_collect_total_folders",
		Help: "totalFolderCount reported by the last bootstrap request",
	})

	collectedShareIDs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folder_collect_share_ids",
		Help: "Number of share ids collected by the last successful run",
	})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folder_collect_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run",
	})
)

// Config holds collector configuration.
type Config struct {
	// PageSize is the limit sent with every page request.
	PageSize int

	// Progress receives the human-readable progress lines.
	Progress io.Writer
}

// DefaultConfig returns the fixed page size and discards progress output.
func DefaultConfig() Config {
	return Config{
		PageSize: folders.DefaultPageSize,
		Progress: io.Discard,
	}
}

// PageFetcher fetches single shares pages. *folders.API implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, start, limit int) (*folders.SharesPage, error)
	PageURL(start, limit int) string
}

// Result is the outcome of a complete walk.
type Result struct {
	// ShareIDs holds the collected ids in arrival order. Never nil.
	ShareIDs []string

	// TotalFolderCount is the total reported by the bootstrap response.
	TotalFolderCount int

	// Requests is the number of page requests issued, bootstrap included.
	Requests int

	Duration time.Duration
}

// Collector walks all pages of the shares listing.
type Collector struct {
	fetcher PageFetcher
	config  Config
}

// NewCollector creates a collector, filling unset config fields with defaults.
func NewCollector(fetcher PageFetcher, config Config) *Collector {
	if config.PageSize <= 0 {
		config.PageSize = folders.DefaultPageSize
	}
	if config.Progress == nil {
		config.Progress = io.Discard
	}

	return &Collector{
		fetcher: fetcher,
		config:  config,
	}
}

// Collect runs the walk. Any failed request aborts it.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := logging.NewLogger("collector")
	pageSize := c.config.PageSize

	fmt.Fprintln(c.config.Progress, "첫 페이지 호출 중...")
	first, err := c.fetcher.FetchPage(ctx, 0, pageSize)
	if err != nil {
		return nil, fmt.Errorf("bootstrap request: %w", err)
	}
	requests := 1
	pageRequestsTotal.Inc()

	// The total is fixed here and never re-read.
	total := first.TotalFolderCount
	totalFolders.Set(float64(total))
	fmt.Fprintf(c.config.Progress, "총 폴더 수: %d\n", total)

	logger.Info().
		Int("total", total).
		Int("page_size", pageSize).
		Msg("Starting page walk")

	shareIDs := []string{}
	for offset := 0; offset < total; offset += pageSize {
		fmt.Fprintf(c.config.Progress, "호출: %s\n", c.fetcher.PageURL(offset, pageSize))

		page, err := c.fetcher.FetchPage(ctx, offset, pageSize)
		requests++
		pageRequestsTotal.Inc()
		if err != nil {
			logger.Error().
				Err(err).
				Int("start", offset).
				Int("collected", len(shareIDs)).
				Msg("Page request failed")
			return nil, fmt.Errorf("page request: %w", err)
		}

		ids := page.ShareIDs()
		shareIDs = append(shareIDs, ids...)

		logger.Debug().
			Int("start", offset).
			Int("folders", len(page.Folders)).
			Int("share_ids", len(ids)).
			Msg("Page collected")
	}

	result := &Result{
		ShareIDs:         shareIDs,
		TotalFolderCount: total,
		Requests:         requests,
		Duration:         time.Since(start),
	}

	collectedShareIDs.Set(float64(len(shareIDs)))
	lastSuccess.SetToCurrentTime()

	logger.Info().
		Int("total", total).
		Int("collected", len(shareIDs)).
		Int("requests", requests).
		Dur("duration", result.Duration).
		Msg("Page walk complete")

	return result, nil
}
