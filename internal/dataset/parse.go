// Package dataset loads daily case-count series from CSV or JSON, either
// from a local file or a remote URL.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/epitrack/rt-cli/internal/model"
)

// Format identifies the wire format of a case-series source.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Parse reads a case series in the given format and validates it.
func Parse(r io.Reader, format Format) (model.CaseSeries, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(r)
	case FormatJSON:
		return ParseJSON(r)
	default:
		return nil, eris.Errorf("dataset: unknown format %q", format)
	}
}

// ParseCSV reads `date,cases` rows. A header row is skipped if the first
// field does not parse as a date.
func ParseCSV(r io.Reader) (model.CaseSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var series model.CaseSeries
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read csv row")
		}
		line++

		if len(record) < 2 {
			return nil, eris.Errorf("dataset: csv line %d: expected date,cases, got %d fields", line, len(record))
		}

		date, err := time.Parse(model.DateLayout, record[0])
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, eris.Wrapf(err, "dataset: csv line %d: parse date %q", line, record[0])
		}

		cases, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: csv line %d: parse case count %q", line, record[1])
		}

		series = append(series, model.CasePoint{Date: date.UTC(), Cases: cases})
	}

	if len(series) == 0 {
		return nil, eris.New("dataset: no case records found")
	}
	if err := series.Validate(); err != nil {
		return nil, eris.Wrap(err, "dataset: csv")
	}
	return series, nil
}

type jsonPoint struct {
	Date  string `json:"date"`
	Cases int    `json:"cases"`
}

// ParseJSON reads a JSON array of {"date": "YYYY-MM-DD", "cases": N}
// objects.
func ParseJSON(r io.Reader) (model.CaseSeries, error) {
	var points []jsonPoint
	if err := json.NewDecoder(r).Decode(&points); err != nil {
		return nil, eris.Wrap(err, "dataset: decode json")
	}
	if len(points) == 0 {
		return nil, eris.New("dataset: no case records found")
	}

	series := make(model.CaseSeries, len(points))
	for i, p := range points {
		date, err := time.Parse(model.DateLayout, p.Date)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: json record %d: parse date %q", i, p.Date)
		}
		series[i] = model.CasePoint{Date: date.UTC(), Cases: p.Cases}
	}

	if err := series.Validate(); err != nil {
		return nil, eris.Wrap(err, "dataset: json")
	}
	return series, nil
}
