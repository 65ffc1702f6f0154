package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sternrassler/naver-folder-client/internal/config"
	"github.com/Sternrassler/naver-folder-client/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(mock *testutil.MockFolderAPI) *config.Config {
	return &config.Config{
		SharesURL:    mock.SharesURL(),
		BookmarksURL: mock.BookmarksURL(),
		PageSize:     20,
		UserAgent:    "folder-ids-test/1.0",
		Timeout:      5 * time.Second,
		MaxAttempts:  1,
		LogLevel:     "error",
	}
}

func shareIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("f%d", i))
	}
	return ids
}

func TestRun_EndToEnd(t *testing.T) {
	mock := testutil.NewMockFolderAPI(shareIDs(25)...)
	defer mock.Close()

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), testConfig(mock), out))

	var quoted []string
	for _, id := range shareIDs(25) {
		quoted = append(quoted, `  "`+id+`"`)
	}
	expected := strings.Join([]string{
		"첫 페이지 호출 중...",
		"총 폴더 수: 25",
		"호출: " + mock.SharesURL() + "?start=0&limit=20",
		"호출: " + mock.SharesURL() + "?start=20&limit=20",
		"[",
		strings.Join(quoted, ",\n"),
		"]",
		"총 25개 추출됨",
		"",
	}, "\n")

	assert.Equal(t, expected, out.String())
	assert.Equal(t, 3, mock.RequestCount())
}

func TestRun_EmptyAccount(t *testing.T) {
	mock := testutil.NewMockFolderAPI()
	defer mock.Close()

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), testConfig(mock), out))

	assert.Equal(t, "첫 페이지 호출 중...\n총 폴더 수: 0\n[]\n총 0개 추출됨\n", out.String())
	assert.Equal(t, 1, mock.RequestCount())
}

func TestRun_FailureMidWalkPrintsNoList(t *testing.T) {
	mock := testutil.NewMockFolderAPI(shareIDs(45)...)
	defer mock.Close()
	mock.FailAt(3, http.StatusBadGateway)

	out := &bytes.Buffer{}
	err := run(context.Background(), testConfig(mock), out)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "collect share ids")
	assert.NotContains(t, out.String(), "[")
	assert.NotContains(t, out.String(), "추출됨")
	assert.Equal(t, 3, mock.RequestCount())
}

func TestRun_BootstrapFailure(t *testing.T) {
	mock := testutil.NewMockFolderAPI(shareIDs(5)...)
	defer mock.Close()
	mock.FailAt(1, http.StatusInternalServerError)

	out := &bytes.Buffer{}
	err := run(context.Background(), testConfig(mock), out)
	require.Error(t, err)

	assert.Equal(t, "첫 페이지 호출 중...\n", out.String())
}

func TestRun_PushesMetrics(t *testing.T) {
	mock := testutil.NewMockFolderAPI(shareIDs(3)...)
	defer mock.Close()

	var pushes int32
	var path atomic.Value
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pushes, 1)
		path.Store(r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	cfg := testConfig(mock)
	cfg.PushgatewayURL = gateway.URL
	cfg.MetricsJob = "folder-ids-test"

	require.NoError(t, run(context.Background(), cfg, &bytes.Buffer{}))

	assert.Equal(t, int32(1), atomic.LoadInt32(&pushes))
	assert.Equal(t, "/metrics/job/folder-ids-test", path.Load())
}

func TestRun_PushFailureIsNotFatal(t *testing.T) {
	mock := testutil.NewMockFolderAPI(shareIDs(3)...)
	defer mock.Close()

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer gateway.Close()

	cfg := testConfig(mock)
	cfg.PushgatewayURL = gateway.URL

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), cfg, out))
	assert.Contains(t, out.String(), "총 3개 추출됨")
}

func TestRun_PublishFailure(t *testing.T) {
	mock := testutil.NewMockFolderAPI(shareIDs(2)...)
	defer mock.Close()

	cfg := testConfig(mock)
	// Nothing listens on port 1.
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	cfg.RedisKey = "test:ids"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, cfg, &bytes.Buffer{})
	assert.ErrorContains(t, err, "publish share ids")
}
