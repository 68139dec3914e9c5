package epi

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/epitrack/rt-cli/internal/model"
)

// Estimator computes daily effective reproductive numbers with the
// Wallinga-Teunis method: each day's cases are distributed backward across
// plausible infector days weighted by the serial interval, and each day's
// R_t is the expected number of secondary cases attributed per primary case
// reported that day.
//
// The computation is a pure single-pass batch: discretize the serial
// interval, build the pairwise weight matrix, renormalize rows against the
// case counts, and sum columns.
type Estimator struct {
	Params model.SerialIntervalParams
}

// Estimate produces an R_t series aligned one-to-one with the input dates.
// Estimates within MaxLag days of either edge of the series are flagged
// unreliable: the serial-interval window is truncated there and the values
// should be excluded from any summary.
func (e Estimator) Estimate(series model.CaseSeries) (model.EstimateSeries, error) {
	if len(series) == 0 {
		return nil, eris.New("epi: empty case series")
	}
	if err := series.Validate(); err != nil {
		return nil, eris.Wrap(err, "epi: invalid case series")
	}

	w, err := Discretize(e.Params)
	if err != nil {
		return nil, err
	}

	estimates := estimate(series, w)

	zap.L().Debug("epi: estimation complete",
		zap.Int("days", len(series)),
		zap.Int("max_lag", e.Params.MaxLag),
	)
	return estimates, nil
}

// estimate runs the matrix pipeline with an already-discretized serial
// interval w indexed by lag-1.
func estimate(series model.CaseSeries, w []float64) model.EstimateSeries {
	cases := series.Counts()

	weights := buildWeights(series, w)
	probs := normalizeRows(weights, cases)
	rs := reduce(probs, cases)

	k := len(w)
	out := make(model.EstimateSeries, len(series))
	for t := range series {
		out[t] = model.EstimatePoint{
			Date:       series[t].Date,
			R:          rs[t],
			Unreliable: t < k || t >= len(series)-k,
		}
	}
	return out
}

// buildWeights fills the T×T matrix whose (i,j) entry is the serial-interval
// probability of the lag between day j and day i. Entries with lag <= 0 or
// lag beyond the truncation length stay zero, so the first row is always
// zero: no primary case can precede the first observation.
func buildWeights(series model.CaseSeries, w []float64) *mat.Dense {
	T := len(series)
	m := mat.NewDense(T, T, nil)
	for i := 1; i < T; i++ {
		for j := 0; j < T; j++ {
			lag := daysBetween(series[j].Date, series[i].Date)
			if lag > 0 && lag <= len(w) {
				m.Set(i, j, w[lag-1])
			}
		}
	}
	return m
}

// normalizeRows scales each weight row by its dot product with the case
// counts, yielding for row i the fraction of day i's expected infections
// attributable to each earlier day. Rows with a zero denominator have no
// expected infections and stay zero rather than dividing to NaN.
func normalizeRows(weights *mat.Dense, cases []float64) *mat.Dense {
	T, _ := weights.Dims()

	rowSums := mat.NewVecDense(T, nil)
	rowSums.MulVec(weights, mat.NewVecDense(T, cases))

	probs := mat.NewDense(T, T, nil)
	for i := 0; i < T; i++ {
		denom := rowSums.AtVec(i)
		if denom == 0 {
			continue
		}
		for j := 0; j < T; j++ {
			probs.Set(i, j, weights.At(i, j)/denom)
		}
	}
	return probs
}

// reduce weights each probability row by its day's case count and sums down
// the columns: R_t = sum_i probs[i,t] * cases[i].
func reduce(probs *mat.Dense, cases []float64) []float64 {
	T, _ := probs.Dims()
	r := mat.NewVecDense(T, nil)
	r.MulVec(probs.T(), mat.NewVecDense(T, cases))
	return r.RawVector().Data
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
