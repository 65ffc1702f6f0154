// Package metrics ties together the Prometheus metrics registered by the
// other packages and delivers them to a Pushgateway at the end of a batch run.
//
// Metrics are registered with promauto where they are used:
//
// Client (pkg/client):
//   - folder_api_requests_total{status} (Counter)
//   - folder_api_request_duration_seconds (Histogram)
//   - folder_api_errors_total{class} (Counter): client, server, network, decode
//   - folder_api_retries_total{error_class} (Counter)
//   - folder_api_retry_backoff_seconds{error_class} (Histogram)
//   - folder_api_retry_exhausted_total{error_class} (Counter)
//
// Pacing (pkg/ratelimit):
//   - folder_api_throttles_total (Counter)
//   - folder_api_throttle_seconds (Histogram)
//
// Collection (pkg/pagination):
//   - folder_collect_page_requests_total (Counter)
//   - folder_collect_total_folders (Gauge)
//   - folder_collect_share_ids (Gauge)
//   - folder_collect_last_success_timestamp_seconds (Gauge)
//
// Publishing (pkg/sink):
//   - folder_sink_publish_total{result} (Counter)
//   - folder_sink_published_ids (Gauge)
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the registerer all folder client metrics are registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer pushed to the Pushgateway.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// DefaultJob is the Pushgateway job name used when none is configured.
const DefaultJob = "naver-folder-ids"

// PushConfig describes where to push metrics.
type PushConfig struct {
	// URL of the Pushgateway, e.g. http://pushgateway:9091.
	URL string

	// Job is the job label of the pushed group.
	Job string

	// Instance optionally adds an instance grouping label.
	Instance string
}

// Push replaces the metrics of the configured group on the Pushgateway.
func Push(ctx context.Context, cfg PushConfig) error {
	if cfg.URL == "" {
		return fmt.Errorf("pushgateway url is required")
	}
	job := cfg.Job
	if job == "" {
		job = DefaultJob
	}

	pusher := push.New(cfg.URL, job).Gatherer(Gatherer)
	if cfg.Instance != "" {
		pusher = pusher.Grouping("instance", cfg.Instance)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", cfg.URL, err)
	}
	return nil
}
