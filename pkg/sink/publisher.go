// Package sink publishes collected share ids to Redis so that downstream
// folder crawlers can pick them up.
//
// A publish replaces the list stored at the key:
//
//	<key>            list of share ids in collection order
//	<key>:count      number of ids in the list
//	<key>:updated_at RFC 3339 time of the publish
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/naver-folder-client/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultKey is the list key used when none is configured.
const DefaultKey = "naver:folders:share_ids"

// ErrNotPublished is returned by Load when nothing was published under the key.
var ErrNotPublished = errors.New("share ids not published")

var (
	publishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folder_sink_publish_total",
		Help: "Total share id publishes by result",
	}, []string{"result"})

	publishedIDs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "folder_sink_published_ids",
		Help: "Number of share ids in the last successful publish",
	})
)

// Publisher writes share id lists to Redis.
type Publisher struct {
	redis  *redis.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewPublisher creates a publisher backed by redisClient.
func NewPublisher(redisClient *redis.Client) *Publisher {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Publisher{
		redis:  redisClient,
		logger: logging.NewLogger("sink"),
		now:    time.Now,
	}
}

// Publish atomically replaces the list at key with ids.
func (p *Publisher) Publish(ctx context.Context, key string, ids []string) error {
	if key == "" {
		return fmt.Errorf("sink key is required")
	}

	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	_, err := p.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
		}
		pipe.Set(ctx, key+":count", len(ids), 0)
		pipe.Set(ctx, key+":updated_at", p.now().UTC().Format(time.RFC3339), 0)
		return nil
	})
	if err != nil {
		publishTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("redis publish %s: %w", key, err)
	}

	publishTotal.WithLabelValues("ok").Inc()
	publishedIDs.Set(float64(len(ids)))

	p.logger.Info().
		Str("key", key).
		Int("count", len(ids)).
		Msg("Published share ids")

	return nil
}

// Load returns the ids last published under key.
func (p *Publisher) Load(ctx context.Context, key string) ([]string, error) {
	count, err := p.redis.Get(ctx, key+":count").Int()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotPublished
		}
		return nil, fmt.Errorf("redis get %s:count: %w", key, err)
	}

	ids, err := p.redis.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", key, err)
	}
	if len(ids) != count {
		return nil, fmt.Errorf("redis %s: list has %d ids, count says %d", key, len(ids), count)
	}
	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

// UpdatedAt returns when key was last published.
func (p *Publisher) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	s, err := p.redis.Get(ctx, key+":updated_at").Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, ErrNotPublished
		}
		return time.Time{}, fmt.Errorf("redis get %s:updated_at: %w", key, err)
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s:updated_at: %w", key, err)
	}
	return t, nil
}

// NewRedisClient builds a client from a redis:// URL or a bare host:port.
func NewRedisClient(addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		// Not a URL: treat it as host:port like REDIS_URL=localhost:6379.
		opts = &redis.Options{Addr: addr}
	}
	return redis.NewClient(opts), nil
}
