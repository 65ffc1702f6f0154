// Package app wires configuration into the components shared by the binaries.
package app

import (
	"fmt"
	"os"

	"github.com/Sternrassler/naver-folder-client/internal/config"
	"github.com/Sternrassler/naver-folder-client/pkg/client"
	"github.com/Sternrassler/naver-folder-client/pkg/folders"
	"github.com/Sternrassler/naver-folder-client/pkg/logging"
	"github.com/rs/zerolog"
)

// SetupLogging installs the global logger on stderr.
func SetupLogging(cfg *config.Config) zerolog.Logger {
	return logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
}

// NewClient builds the HTTP client from cfg.
func NewClient(cfg *config.Config) (*client.Client, error) {
	clientCfg := client.DefaultConfig(cfg.UserAgent)
	clientCfg.Timeout = cfg.Timeout
	clientCfg.Retry.MaxAttempts = cfg.MaxAttempts
	clientCfg.RequestsPerSecond = cfg.RequestsPerSecond

	c, err := client.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// NewAPI builds the folder API on top of a client from cfg.
func NewAPI(cfg *config.Config) (*folders.API, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return folders.NewAPI(c, cfg.SharesURL, cfg.BookmarksURL), nil
}
