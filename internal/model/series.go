// Package model defines the data types shared across the estimation pipeline.
package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// DateLayout is the canonical date format for case and estimate series.
const DateLayout = "2006-01-02"

// CasePoint is one day's observed case count.
type CasePoint struct {
	Date  time.Time `json:"date"`
	Cases int       `json:"cases"`
}

// CaseSeries is an ordered daily case-count series, one point per day.
type CaseSeries []CasePoint

// Validate checks that counts are non-negative and dates are strictly
// ascending with exactly one day between consecutive points. The estimator
// assumes contiguity, so gaps are rejected here rather than silently
// producing misaligned lags.
func (s CaseSeries) Validate() error {
	for i, p := range s {
		if p.Cases < 0 {
			return eris.Errorf("model: negative case count %d on %s", p.Cases, p.Date.Format(DateLayout))
		}
		if i == 0 {
			continue
		}
		gap := p.Date.Sub(s[i-1].Date)
		if gap != 24*time.Hour {
			return eris.Errorf("model: dates must be consecutive days, got %s after %s",
				p.Date.Format(DateLayout), s[i-1].Date.Format(DateLayout))
		}
	}
	return nil
}

// Counts returns the case counts as a float vector.
func (s CaseSeries) Counts() []float64 {
	counts := make([]float64, len(s))
	for i, p := range s {
		counts[i] = float64(p.Cases)
	}
	return counts
}

// EstimatePoint is one day's reproductive-number estimate. Unreliable marks
// points within the serial-interval window of either series edge, where the
// truncated look-back or look-forward makes the estimate untrustworthy.
type EstimatePoint struct {
	Date       time.Time `json:"date"`
	R          float64   `json:"r"`
	Unreliable bool      `json:"unreliable"`
}

// EstimateSeries is an ordered daily R_t series aligned to its input
// CaseSeries.
type EstimateSeries []EstimatePoint

// Summarize computes summary statistics over the reliable interior points
// only. Boundary estimates are excluded from the mean and peak.
func (s EstimateSeries) Summarize() RunSummary {
	sum := RunSummary{TotalPoints: len(s)}
	var total float64
	for _, p := range s {
		if p.Unreliable {
			continue
		}
		total += p.R
		sum.ReliablePoints++
		if p.R > sum.PeakR {
			sum.PeakR = p.R
			sum.PeakDate = p.Date
		}
	}
	if sum.ReliablePoints > 0 {
		sum.MeanR = total / float64(sum.ReliablePoints)
	}
	return sum
}
