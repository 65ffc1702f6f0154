// Package testutil provides a mock folder API server for tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// SharesPath is the path the mock serves the shares listing under.
const SharesPath = "/shares/exposure/test-token"

// MockFolderAPI is a configurable mock of the folder API.
//
// Shares pages are cut from the configured folders using the start/limit
// query parameters; totalFolderCount is the folder count unless overridden
// with SetTotal.
type MockFolderAPI struct {
	server *httptest.Server

	mu        sync.Mutex
	folders   []map[string]any
	total     *int
	omitTotal bool
	failures  map[int]int
	bookmarks map[string]string
	requests  []string
}

// NewMockFolderAPI starts a mock serving one folder per share id.
func NewMockFolderAPI(shareIDs ...string) *MockFolderAPI {
	m := &MockFolderAPI{
		folders:   FoldersWithIDs(shareIDs...),
		failures:  make(map[int]int),
		bookmarks: make(map[string]string),
	}

	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// FoldersWithIDs builds folder objects carrying the given share ids.
func FoldersWithIDs(shareIDs ...string) []map[string]any {
	folders := make([]map[string]any, 0, len(shareIDs))
	for i, id := range shareIDs {
		folders = append(folders, map[string]any{
			"folderId": 1000 + i,
			"shareId":  id,
			"name":     "folder " + id,
		})
	}
	return folders
}

// SharesURL returns the shares listing URL without query parameters.
func (m *MockFolderAPI) SharesURL() string {
	return m.server.URL + SharesPath
}

// BookmarksURL returns the base URL for folder bookmark listings.
func (m *MockFolderAPI) BookmarksURL() string {
	return m.server.URL + "/shares"
}

// Close shuts down the mock server.
func (m *MockFolderAPI) Close() {
	m.server.Close()
}

// SetFolders replaces the served folder objects.
func (m *MockFolderAPI) SetFolders(folders []map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folders = folders
}

// SetTotal overrides the reported totalFolderCount.
func (m *MockFolderAPI) SetTotal(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = &total
}

// OmitTotal drops totalFolderCount from every response.
func (m *MockFolderAPI) OmitTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.omitTotal = true
}

// FailAt makes the n-th request received (1-based) fail with status when it
// targets the shares listing.
func (m *MockFolderAPI) FailAt(request, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[request] = status
}

// SetBookmarks sets the raw JSON body served for a share id's bookmarks.
func (m *MockFolderAPI) SetBookmarks(shareID, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookmarks[shareID] = body
}

// Requests returns the request URIs received so far.
func (m *MockFolderAPI) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// RequestCount returns the number of requests received so far.
func (m *MockFolderAPI) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockFolderAPI) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.URL.RequestURI())
	n := len(m.requests)
	status, fail := m.failures[n]
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json;charset=UTF-8")

	switch {
	case r.URL.Path == SharesPath:
		if fail {
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"error":"injected failure on request %d"}`, n)
			return
		}
		m.serveShares(w, r)
	case strings.HasPrefix(r.URL.Path, "/shares/") && strings.HasSuffix(r.URL.Path, "/bookmarks"):
		shareID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/shares/"), "/bookmarks")
		m.serveBookmarks(w, shareID)
	default:
		http.NotFound(w, r)
	}
}

func (m *MockFolderAPI) serveShares(w http.ResponseWriter, r *http.Request) {
	start, err := strconv.Atoi(r.URL.Query().Get("start"))
	if err != nil || start < 0 {
		http.Error(w, `{"error":"bad start"}`, http.StatusBadRequest)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		http.Error(w, `{"error":"bad limit"}`, http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	folders := m.folders
	total := len(folders)
	if m.total != nil {
		total = *m.total
	}
	omitTotal := m.omitTotal
	m.mu.Unlock()

	page := []map[string]any{}
	if start < len(folders) {
		end := start + limit
		if end > len(folders) {
			end = len(folders)
		}
		page = folders[start:end]
	}

	body := map[string]any{"folders": page}
	if !omitTotal {
		body["totalFolderCount"] = total
	}
	json.NewEncoder(w).Encode(body)
}

func (m *MockFolderAPI) serveBookmarks(w http.ResponseWriter, shareID string) {
	m.mu.Lock()
	body, ok := m.bookmarks[shareID]
	m.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"folder not found"}`))
		return
	}
	w.Write([]byte(body))
}
