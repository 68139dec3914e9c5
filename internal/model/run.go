package model

import "time"

// SerialIntervalParams parameterizes the continuous serial-interval
// distribution and its discretization.
type SerialIntervalParams struct {
	Mean   float64 `json:"mean"`    // days
	SD     float64 `json:"sd"`      // days
	MaxLag int     `json:"max_lag"` // truncation length k, days
	// TailTolerance is the maximum allowed probability mass beyond MaxLag
	// before discretization fails. Zero disables the check.
	TailTolerance float64 `json:"tail_tolerance,omitempty"`
}

// DefaultSerialInterval holds the COVID-19 serial-interval parameters used
// when none are configured (Nishiura et al. 2020).
var DefaultSerialInterval = SerialIntervalParams{
	Mean:          3.96,
	SD:            4.75,
	MaxLag:        18,
	TailTolerance: 0.01,
}

// RunStatus is the lifecycle state of an estimation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunSummary aggregates an estimate series for storage and display.
type RunSummary struct {
	MeanR          float64   `json:"mean_r"`
	PeakR          float64   `json:"peak_r"`
	PeakDate       time.Time `json:"peak_date"`
	ReliablePoints int       `json:"reliable_points"`
	TotalPoints    int       `json:"total_points"`
}

// Run records one estimation run.
type Run struct {
	ID        string               `json:"id"`
	Source    string               `json:"source"` // URL or file path the series came from
	Params    SerialIntervalParams `json:"params"`
	Status    RunStatus            `json:"status"`
	Summary   *RunSummary          `json:"summary,omitempty"`
	Error     string               `json:"error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}
