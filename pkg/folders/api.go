package folders

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultPageSize is the limit used for every shares page.
	DefaultPageSize = 20

	// DefaultSharesURL lists the exposed folders of one account. The access
	// token is part of the path.
	DefaultSharesURL = "https://pages.map.naver.com/save-pages/api/maps-bookmark/v3/shares/exposure/GyoWc2IdvsMBKqHt:xR7FZkC75KbE8NFe0CUauL9hfOmHZw"

	// DefaultBookmarksURL is the base under which /{shareId}/bookmarks lives.
	DefaultBookmarksURL = "https://pages.map.naver.com/save-pages/api/maps-bookmark/v3/shares"

	// bookmarkLimit matches the single-request limit the bookmarks endpoint accepts.
	bookmarkLimit = 5000
)

// JSONGetter performs a GET and decodes the JSON body into v.
// *client.Client satisfies it.
type JSONGetter interface {
	GetJSON(ctx context.Context, rawURL string, v any) error
}

// API calls the folder endpoints through a JSONGetter.
type API struct {
	getter       JSONGetter
	sharesURL    string
	bookmarksURL string
}

// NewAPI creates an API. Empty URLs fall back to the defaults.
func NewAPI(getter JSONGetter, sharesURL, bookmarksURL string) *API {
	if sharesURL == "" {
		sharesURL = DefaultSharesURL
	}
	if bookmarksURL == "" {
		bookmarksURL = DefaultBookmarksURL
	}
	return &API{
		getter:       getter,
		sharesURL:    sharesURL,
		bookmarksURL: strings.TrimRight(bookmarksURL, "/"),
	}
}

// PageURL returns the shares URL for the page at offset start.
func (a *API) PageURL(start, limit int) string {
	return fmt.Sprintf("%s?start=%d&limit=%d", a.sharesURL, start, limit)
}

// FetchPage fetches one shares page.
func (a *API) FetchPage(ctx context.Context, start, limit int) (*SharesPage, error) {
	var page SharesPage
	if err := a.getter.GetJSON(ctx, a.PageURL(start, limit), &page); err != nil {
		return nil, fmt.Errorf("fetch shares page (start=%d, limit=%d): %w", start, limit, err)
	}
	return &page, nil
}

// BookmarksURL returns the bookmark listing URL of a shared folder.
func (a *API) BookmarksURL(shareID string) string {
	return fmt.Sprintf("%s/%s/bookmarks?start=0&limit=%d&sort=lastUseTime&createIdNo=false",
		a.bookmarksURL, url.PathEscape(shareID), bookmarkLimit)
}

// FetchBookmarks fetches the metadata and bookmarks of a shared folder.
func (a *API) FetchBookmarks(ctx context.Context, shareID string) (*BookmarksResponse, error) {
	if shareID == "" {
		return nil, fmt.Errorf("share id is required")
	}

	var resp BookmarksResponse
	if err := a.getter.GetJSON(ctx, a.BookmarksURL(shareID), &resp); err != nil {
		return nil, fmt.Errorf("fetch bookmarks of %s: %w", shareID, err)
	}
	return &resp, nil
}
