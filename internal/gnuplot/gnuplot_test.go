package gnuplot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epitrack/rt-cli/internal/model"
)

func TestBuildScript_Cases(t *testing.T) {
	script, err := buildScript(casesScript, scriptData{
		Terminal: "pngcairo size 1200,600",
		Output:   "plots/cases.png",
		Data:     "/tmp/data",
	})
	require.NoError(t, err)

	assert.Contains(t, script, "set terminal pngcairo size 1200,600")
	assert.Contains(t, script, "set output 'plots/cases.png'")
	assert.Contains(t, script, "plot '/tmp/data' using 1:2 with boxes")
	assert.Contains(t, script, "set timefmt '%Y-%m-%d'")
}

func TestBuildScript_Estimates(t *testing.T) {
	script, err := buildScript(estimatesScript, scriptData{
		Terminal: "svg",
		Output:   "plots/rt.svg",
		Data:     "/tmp/data",
	})
	require.NoError(t, err)

	assert.Contains(t, script, "set output 'plots/rt.svg'")
	// Reliable and unreliable segments are split on the flag column.
	assert.Contains(t, script, "($3 == 0 ? $2 : 1/0)")
	assert.Contains(t, script, "($3 == 1 ? $2 : 1/0)")
	assert.Contains(t, script, "title 'R = 1'")
}

func TestWriteCaseData(t *testing.T) {
	start := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	series := model.CaseSeries{
		{Date: start, Cases: 5},
		{Date: start.AddDate(0, 0, 1), Cases: 12},
	}

	var b strings.Builder
	require.NoError(t, writeCaseData(&b, series))
	assert.Equal(t, "2020-03-01\t5\n2020-03-02\t12\n", b.String())
}

func TestWriteEstimateData(t *testing.T) {
	start := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	estimates := model.EstimateSeries{
		{Date: start, R: 0, Unreliable: true},
		{Date: start.AddDate(0, 0, 1), R: 1.5},
	}

	var b strings.Builder
	require.NoError(t, writeEstimateData(&b, estimates))
	assert.Equal(t, "2020-03-01\t0.000000\t1\n2020-03-02\t1.500000\t0\n", b.String())
}
