package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rubiojr/shakesearch/pkg/querylog"
	"github.com/rubiojr/shakesearch/pkg/search"
)

// fakeIndex serves canned result lists, paginated like the corpus index.
type fakeIndex map[string][]string

func (f fakeIndex) Search(query string, page, pageSize int) []string {
	all := f[query]
	start := page * pageSize
	if start >= len(all) {
		return []string{}
	}
	return all[start:min(start+pageSize, len(all))]
}

func setupTestAPIServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()

	index := fakeIndex{
		"cat": {"cat1", "cat2", "cat3"},
		"dog": {"dog1"},
		"tag": {"<b>bold</b> & more"},
	}
	server := NewServer(search.NewService(index), opts...)

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	ts := httptest.NewServer(Middleware(mux))
	t.Cleanup(ts.Close)
	return ts
}

func getResults(t *testing.T, url string) []string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var results []string
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	return results
}

func TestHandleSearch(t *testing.T) {
	ts := setupTestAPIServer(t)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"first page", "q=cat&page=0&pageSize=2", []string{"cat1", "cat2"}},
		{"second page", "q=cat&page=1&pageSize=2", []string{"cat3"}},
		{"past the end", "q=cat&page=2&pageSize=2", []string{}},
		{"default page size", "q=cat", []string{"cat1", "cat2", "cat3"}},
		{"no matches", "q=horse", []string{}},
		{"markup is passed through", "q=tag", []string{"<b>bold</b> & more"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getResults(t, ts.URL+"/search?"+tt.query)
			if got == nil {
				t.Fatalf("expected a JSON array, got null")
			}
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") || len(got) != len(tt.expected) {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHandleSearchMissingQuery(t *testing.T) {
	ts := setupTestAPIServer(t)

	for _, query := range []string{"", "q=", "page=1"} {
		resp, err := http.Get(ts.URL + "/search?" + query)
		if err != nil {
			t.Fatal(err)
		}
		var body ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%q: status %d, want 400", query, resp.StatusCode)
		}
		if body.Message != "missing search query in URL params" {
			t.Errorf("%q: message %q", query, body.Message)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := setupTestAPIServer(t)

	resp, err := http.Post(ts.URL+"/search?q=cat", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status %d, want 405", resp.StatusCode)
	}
}

func TestHandleHealth(t *testing.T) {
	ts := setupTestAPIServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" || health.Version == "" {
		t.Errorf("unexpected health response %+v", health)
	}
}

func TestCorsHeaders(t *testing.T) {
	ts := setupTestAPIServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/search", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("preflight status %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
}

func TestResponsesAreCompressed(t *testing.T) {
	long := make([]string, 50)
	for i := range long {
		long[i] = strings.Repeat("to be or not to be ", 10)
	}
	server := NewServer(search.NewService(fakeIndex{"be": long}))
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	ts := httptest.NewServer(Middleware(mux))
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/search?q=be&pageSize=50", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", resp.Header.Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	var results []string
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 50 {
		t.Errorf("got %d results, want 50", len(results))
	}
}

func TestHandleStats(t *testing.T) {
	t.Run("without query log", func(t *testing.T) {
		ts := setupTestAPIServer(t)

		resp, err := http.Get(ts.URL + "/api/stats")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		var stats StatsResponse
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			t.Fatal(err)
		}
		if stats.QueryLog || stats.Total != 0 || stats.TopQueries == nil {
			t.Errorf("unexpected stats %+v", stats)
		}
	})

	t.Run("with query log", func(t *testing.T) {
		ql, err := querylog.Open(filepath.Join(t.TempDir(), "queries.db"))
		if err != nil {
			t.Fatal(err)
		}
		defer ql.Close()

		index := fakeIndex{"cat": {"cat1"}}
		server := NewServer(search.NewService(index, search.WithRecorder(ql)), WithQueryLog(ql))
		mux := http.NewServeMux()
		server.RegisterRoutes(mux)
		ts := httptest.NewServer(mux)
		defer ts.Close()

		getResults(t, ts.URL+"/search?q=cat")
		getResults(t, ts.URL+"/search?q=cat&page=1")
		getResults(t, ts.URL+"/search?q=dog")

		resp, err := http.Get(ts.URL + "/api/stats?limit=1")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		var stats StatsResponse
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			t.Fatal(err)
		}
		if !stats.QueryLog || stats.Total != 3 {
			t.Errorf("unexpected stats %+v", stats)
		}
		if len(stats.TopQueries) != 1 || stats.TopQueries[0] != (querylog.QueryCount{Query: "cat", Count: 1}) {
			// cat and dog both have one first-page hit; ties sort by query.
			t.Errorf("unexpected top queries %+v", stats.TopQueries)
		}

		n, _ := ql.Count(context.Background())
		if n != 3 {
			t.Errorf("query log count = %d, want 3", n)
		}
	})
}
