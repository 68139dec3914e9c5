package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	csv := `2020-03-01,5
2020-03-02,8
2020-03-03,13
`
	series, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, series, 3)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), series[0].Date)
	assert.Equal(t, 5, series[0].Cases)
	assert.Equal(t, 13, series[2].Cases)
}

func TestParseCSV_HeaderSkipped(t *testing.T) {
	csv := `date,cases
2020-03-01,5
2020-03-02,8
`
	series, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, series, 2)
}

func TestParseCSV_BadDateMidFile(t *testing.T) {
	csv := `2020-03-01,5
not-a-date,8
`
	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse date")
}

func TestParseCSV_BadCount(t *testing.T) {
	csv := `2020-03-01,five`
	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse case count")
}

func TestParseCSV_NegativeCount(t *testing.T) {
	csv := `2020-03-01,5
2020-03-02,-3
`
	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative case count")
}

func TestParseCSV_DateGap(t *testing.T) {
	csv := `2020-03-01,5
2020-03-04,8
`
	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consecutive days")
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no case records")
}

func TestParseJSON(t *testing.T) {
	data := `[
		{"date": "2020-03-01", "cases": 5},
		{"date": "2020-03-02", "cases": 8}
	]`
	series, err := ParseJSON(strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, 8, series[1].Cases)
	assert.Equal(t, time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC), series[1].Date)
}

func TestParseJSON_BadDate(t *testing.T) {
	data := `[{"date": "03/01/2020", "cases": 5}]`
	_, err := ParseJSON(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse date")
}

func TestParseJSON_Empty(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no case records")
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse(strings.NewReader(""), Format("xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("cases.json"))
	assert.Equal(t, FormatJSON, DetectFormat("https://example.org/data.JSON"))
	assert.Equal(t, FormatCSV, DetectFormat("cases.csv"))
	assert.Equal(t, FormatCSV, DetectFormat("https://example.org/timeseries"))
}
