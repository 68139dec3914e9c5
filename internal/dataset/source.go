package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/epitrack/rt-cli/internal/fetcher"
	"github.com/epitrack/rt-cli/internal/model"
)

// Source fetches a remote case series over HTTP.
type Source struct {
	URL     string
	Format  Format
	Fetcher fetcher.Fetcher
}

// Load downloads and parses the configured series.
func (s Source) Load(ctx context.Context) (model.CaseSeries, error) {
	if s.URL == "" {
		return nil, eris.New("dataset: source URL is empty")
	}

	body, err := s.Fetcher.Download(ctx, s.URL)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: fetch %s", s.URL)
	}
	defer body.Close() //nolint:errcheck

	series, err := Parse(body, s.Format)
	if err != nil {
		return nil, err
	}

	zap.L().Info("dataset: series fetched",
		zap.String("url", s.URL),
		zap.Int("days", len(series)),
		zap.String("first", series[0].Date.Format(model.DateLayout)),
		zap.String("last", series[len(series)-1].Date.Format(model.DateLayout)),
	)
	return series, nil
}

// LoadFile parses a local case-series file.
func LoadFile(path string, format Format) (model.CaseSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return Parse(f, format)
}

// DetectFormat guesses the format from a path or URL extension, defaulting
// to CSV.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatCSV
	}
}
