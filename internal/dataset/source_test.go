package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epitrack/rt-cli/internal/fetcher"
)

func testFetcher() fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	})
}

func TestSource_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("2020-03-01,5\n2020-03-02,8\n"))
	}))
	defer srv.Close()

	src := Source{URL: srv.URL + "/cases.csv", Format: FormatCSV, Fetcher: testFetcher()}
	series, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 8, series[1].Cases)
}

func TestSource_LoadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"date":"2020-03-01","cases":5}]`))
	}))
	defer srv.Close()

	src := Source{URL: srv.URL + "/cases.json", Format: FormatJSON, Fetcher: testFetcher()}
	series, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 1)
}

func TestSource_EmptyURL(t *testing.T) {
	src := Source{Fetcher: testFetcher()}
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL is empty")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.csv")
	require.NoError(t, os.WriteFile(path, []byte("2020-03-01,5\n2020-03-02,8\n"), 0o644))

	series, err := LoadFile(path, FormatCSV)
	require.NoError(t, err)
	require.Len(t, series, 2)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"), FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}
