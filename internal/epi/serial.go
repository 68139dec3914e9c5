// Package epi implements the Wallinga-Teunis time-varying reproductive
// number estimator over a daily case-count series.
package epi

import (
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/epitrack/rt-cli/internal/model"
)

// Discretize converts the continuous normal serial-interval distribution
// into a probability mass function over whole-day lags 1..MaxLag using CDF
// differencing, then renormalizes so the vector sums to one. Lag zero and
// negative lags carry no mass: a case cannot be infected by a case reported
// on the same day or later.
//
// A distribution whose discretized mass is zero, or whose untruncated tail
// beyond MaxLag exceeds TailTolerance, is a configuration error.
func Discretize(p model.SerialIntervalParams) ([]float64, error) {
	if p.MaxLag <= 0 {
		return nil, eris.Errorf("epi: max lag must be positive, got %d", p.MaxLag)
	}
	if p.SD <= 0 {
		return nil, eris.Errorf("epi: standard deviation must be positive, got %g", p.SD)
	}

	dist := distuv.Normal{Mu: p.Mean, Sigma: p.SD}

	w := make([]float64, p.MaxLag)
	var sum float64
	prev := dist.CDF(0)
	for lag := 1; lag <= p.MaxLag; lag++ {
		cur := dist.CDF(float64(lag))
		w[lag-1] = cur - prev
		sum += w[lag-1]
		prev = cur
	}

	if sum <= 0 {
		return nil, eris.Errorf("epi: serial interval (mean %g, sd %g) has no mass within %d days",
			p.Mean, p.SD, p.MaxLag)
	}

	if p.TailTolerance > 0 {
		tail := 1 - dist.CDF(float64(p.MaxLag))
		if tail > p.TailTolerance {
			return nil, eris.Errorf("epi: %.4f of serial-interval mass lies beyond %d days, exceeds tolerance %.4f; increase max lag",
				tail, p.MaxLag, p.TailTolerance)
		}
	}

	for i := range w {
		w[i] /= sum
	}
	return w, nil
}
