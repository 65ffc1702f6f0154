// Command folder-bookmarks prints the place ids bookmarked in shared folders.
//
// Usage:
//
//	folder-bookmarks <shareId> [shareId...]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/naver-folder-client/internal/app"
	"github.com/Sternrassler/naver-folder-client/internal/config"
	"github.com/Sternrassler/naver-folder-client/pkg/report"
	"github.com/rs/zerolog/log"
)

const usage = "usage: folder-bookmarks <shareId> [shareId...]"

func main() {
	os.Exit(mainWithExitCode(os.Args[1:]))
}

func mainWithExitCode(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	app.SetupLogging(cfg)

	if err := run(ctx, cfg, args, os.Stdout); err != nil {
		log.Error().Err(err).Msg("Bookmark fetch failed")
		return 1
	}
	return 0
}

// run prints one block per share id and stops at the first failure.
func run(ctx context.Context, cfg *config.Config, shareIDs []string, out io.Writer) error {
	api, err := app.NewAPI(cfg)
	if err != nil {
		return err
	}
	printer := report.NewPrinter(out)

	for _, shareID := range shareIDs {
		fmt.Fprintf(out, "폴더 API 호출: %s\n", api.BookmarksURL(shareID))

		resp, err := api.FetchBookmarks(ctx, shareID)
		if err != nil {
			return err
		}

		log.Debug().
			Str("share_id", shareID).
			Int("bookmarks", len(resp.BookmarkList)).
			Msg("Bookmarks fetched")

		if err := printer.PrintFolderBookmarks(resp); err != nil {
			return fmt.Errorf("print bookmarks of %s: %w", shareID, err)
		}
	}
	return nil
}
