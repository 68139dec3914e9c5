package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epitrack/rt-cli/internal/config"
	"github.com/epitrack/rt-cli/internal/dataset"
	"github.com/epitrack/rt-cli/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		SerialInterval: config.SerialIntervalConfig{
			Mean:          3.96,
			SD:            4.75,
			MaxLag:        18,
			TailTolerance: 0.01,
		},
	}
}

func TestSerialParams_ConfigDefaults(t *testing.T) {
	cfg = testConfig()

	p := serialParams(estimateCmd)
	assert.InDelta(t, 3.96, p.Mean, 1e-9)
	assert.InDelta(t, 4.75, p.SD, 1e-9)
	assert.Equal(t, 18, p.MaxLag)
	assert.InDelta(t, 0.01, p.TailTolerance, 1e-9)
}

func TestSerialParams_FlagOverrides(t *testing.T) {
	cfg = testConfig()

	require.NoError(t, estimateCmd.Flags().Set("mean", "4.7"))
	require.NoError(t, estimateCmd.Flags().Set("max-lag", "21"))
	t.Cleanup(func() {
		estimateCmd.Flags().Lookup("mean").Changed = false
		estimateCmd.Flags().Lookup("max-lag").Changed = false
	})

	p := serialParams(estimateCmd)
	assert.InDelta(t, 4.7, p.Mean, 1e-9)
	assert.Equal(t, 21, p.MaxLag)
	// Unset flags keep configured values.
	assert.InDelta(t, 4.75, p.SD, 1e-9)
}

func TestResolveFormat(t *testing.T) {
	cfg = testConfig()
	estimateFormat = ""
	estimateInput = ""
	estimateURL = ""

	// Config format applies when neither flag names a source.
	cfg.Source.Format = "json"
	assert.Equal(t, dataset.FormatJSON, resolveFormat("series"))

	// A local input falls back to extension detection.
	estimateInput = "cases.csv"
	assert.Equal(t, dataset.FormatCSV, resolveFormat("cases.csv"))

	// An explicit --format wins.
	estimateFormat = "json"
	assert.Equal(t, dataset.FormatJSON, resolveFormat("cases.csv"))

	estimateFormat = ""
	estimateInput = ""
}

func TestWriteEstimates_ToFile(t *testing.T) {
	estimateOutput = filepath.Join(t.TempDir(), "out.json")
	t.Cleanup(func() { estimateOutput = "" })

	estimates := model.EstimateSeries{
		{Date: time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC), R: 1.5},
	}
	require.NoError(t, writeEstimates(estimates))

	data, err := os.ReadFile(estimateOutput)
	require.NoError(t, err)

	var got model.EstimateSeries
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.InDelta(t, 1.5, got[0].R, 1e-9)
}
