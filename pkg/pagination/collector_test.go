package pagination

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Sternrassler/naver-folder-client/internal/testutil"
	"github.com/Sternrassler/naver-folder-client/pkg/client"
	"github.com/Sternrassler/naver-folder-client/pkg/folders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves pages from a slice and records every call.
type fakeFetcher struct {
	total   int
	ids     []string
	failAt  int // 1-based call number that fails; 0 never fails
	calls   []int
	limits  []int
	failErr error
}

func (f *fakeFetcher) FetchPage(ctx context.Context, start, limit int) (*folders.SharesPage, error) {
	f.calls = append(f.calls, start)
	f.limits = append(f.limits, limit)
	if f.failAt == len(f.calls) {
		return nil, f.failErr
	}

	page := &folders.SharesPage{TotalFolderCount: f.total}
	for i := start; i < start+limit && i < len(f.ids); i++ {
		page.Folders = append(page.Folders, folders.Folder{ShareID: f.ids[i]})
	}
	return page, nil
}

func (f *fakeFetcher) PageURL(start, limit int) string {
	return fmt.Sprintf("https://example.test/shares?start=%d&limit=%d", start, limit)
}

func ids(prefix string, from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

func TestNewCollector_Defaults(t *testing.T) {
	c := NewCollector(&fakeFetcher{}, Config{})

	assert.Equal(t, folders.DefaultPageSize, c.config.PageSize)
	assert.NotNil(t, c.config.Progress)
}

func TestCollect_ZeroTotal(t *testing.T) {
	fetcher := &fakeFetcher{total: 0, ids: []string{"ignored"}}
	progress := &bytes.Buffer{}

	result, err := NewCollector(fetcher, Config{PageSize: 20, Progress: progress}).Collect(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, result.ShareIDs)
	assert.Empty(t, result.ShareIDs)
	assert.Equal(t, 1, result.Requests)
	assert.Equal(t, []int{0}, fetcher.calls)
	assert.Equal(t, "첫 페이지 호출 중...\n총 폴더 수: 0\n", progress.String())
}

func TestCollect_RequestCount(t *testing.T) {
	tests := []struct {
		total    int
		expected int
	}{
		{1, 2},
		{19, 2},
		{20, 2},
		{21, 3},
		{40, 3},
		{41, 4},
		{100, 6},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("total_%d", tt.total), func(t *testing.T) {
			fetcher := &fakeFetcher{total: tt.total, ids: ids("s", 1, tt.total)}

			result, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.expected, result.Requests)
			assert.Len(t, fetcher.calls, tt.expected)
			assert.Len(t, result.ShareIDs, tt.total)
			for _, limit := range fetcher.limits {
				assert.Equal(t, 20, limit)
			}
		})
	}
}

func TestCollect_BootstrapFoldersNotAppended(t *testing.T) {
	fetcher := &fakeFetcher{total: 25, ids: ids("f", 1, 25)}

	result, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background())
	require.NoError(t, err)

	// start=0 is requested twice but its ids appear once.
	assert.Equal(t, []int{0, 0, 20}, fetcher.calls)
	assert.Equal(t, ids("f", 1, 25), result.ShareIDs)
	assert.Equal(t, 25, result.TotalFolderCount)
}

func TestCollect_TotalFixedFromBootstrap(t *testing.T) {
	// The server claims 40 but only has 25 folders: pages past the end are
	// still requested and simply contribute nothing.
	fetcher := &fakeFetcher{total: 40, ids: ids("f", 1, 25)}

	result, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 20}, fetcher.calls)
	assert.Len(t, result.ShareIDs, 25)
}

func TestCollect_ProgressLines(t *testing.T) {
	fetcher := &fakeFetcher{total: 25, ids: ids("f", 1, 25)}
	progress := &bytes.Buffer{}

	_, err := NewCollector(fetcher, Config{PageSize: 20, Progress: progress}).Collect(context.Background())
	require.NoError(t, err)

	expected := strings.Join([]string{
		"첫 페이지 호출 중...",
		"총 폴더 수: 25",
		"호출: https://example.test/shares?start=0&limit=20",
		"호출: https://example.test/shares?start=20&limit=20",
		"",
	}, "\n")
	assert.Equal(t, expected, progress.String())
}

func TestCollect_FailureAbortsRun(t *testing.T) {
	boom := errors.New("connection reset")

	for _, failAt := range []int{1, 2, 3} {
		t.Run(fmt.Sprintf("fail_call_%d", failAt), func(t *testing.T) {
			fetcher := &fakeFetcher{total: 45, ids: ids("f", 1, 45), failAt: failAt, failErr: boom}

			result, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background())

			assert.Nil(t, result)
			assert.ErrorIs(t, err, boom)
			assert.Len(t, fetcher.calls, failAt)
		})
	}
}

func TestCollect_AgainstMockServer(t *testing.T) {
	mock := testutil.NewMockFolderAPI(ids("f", 1, 25)...)
	defer mock.Close()

	c, err := client.New(client.DefaultConfig("pagination-test/1.0"))
	require.NoError(t, err)
	api := folders.NewAPI(c, mock.SharesURL(), mock.BookmarksURL())

	result, err := NewCollector(api, DefaultConfig()).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ids("f", 1, 25), result.ShareIDs)
	assert.Equal(t, []string{
		testutil.SharesPath + "?start=0&limit=20",
		testutil.SharesPath + "?start=0&limit=20",
		testutil.SharesPath + "?start=20&limit=20",
	}, mock.Requests())
}

func TestCollect_SkipsFoldersWithoutShareID(t *testing.T) {
	mock := testutil.NewMockFolderAPI()
	defer mock.Close()
	mock.SetFolders([]map[string]any{
		{"shareId": "a", "name": "first"},
		{"name": "no id"},
		{"shareId": "", "name": "empty id"},
		{"shareId": nil, "name": "null id"},
		{"shareId": "b", "name": "last"},
	})

	c, err := client.New(client.DefaultConfig("pagination-test/1.0"))
	require.NoError(t, err)
	api := folders.NewAPI(c, mock.SharesURL(), mock.BookmarksURL())

	result, err := NewCollector(api, DefaultConfig()).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, result.ShareIDs)
	assert.Equal(t, 5, result.TotalFolderCount)
}

func TestCollect_MissingTotalAgainstMockServer(t *testing.T) {
	mock := testutil.NewMockFolderAPI("a", "b")
	defer mock.Close()
	mock.OmitTotal()

	c, err := client.New(client.DefaultConfig("pagination-test/1.0"))
	require.NoError(t, err)
	api := folders.NewAPI(c, mock.SharesURL(), mock.BookmarksURL())

	result, err := NewCollector(api, DefaultConfig()).Collect(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.ShareIDs)
	assert.Equal(t, 1, mock.RequestCount())
}

func TestCollect_ServerErrorAgainstMockServer(t *testing.T) {
	mock := testutil.NewMockFolderAPI(ids("f", 1, 30)...)
	defer mock.Close()
	mock.FailAt(3, http.StatusServiceUnavailable)

	c, err := client.New(client.DefaultConfig("pagination-test/1.0"))
	require.NoError(t, err)
	api := folders.NewAPI(c, mock.SharesURL(), mock.BookmarksURL())

	result, err := NewCollector(api, DefaultConfig()).Collect(context.Background())

	assert.Nil(t, result)
	assert.True(t, client.IsStatus(err, http.StatusServiceUnavailable))
	assert.Equal(t, 3, mock.RequestCount())
}
