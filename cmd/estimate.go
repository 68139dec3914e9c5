package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epitrack/rt-cli/internal/dataset"
	"github.com/epitrack/rt-cli/internal/epi"
	"github.com/epitrack/rt-cli/internal/fetcher"
	"github.com/epitrack/rt-cli/internal/gnuplot"
	"github.com/epitrack/rt-cli/internal/model"
)

var (
	estimateInput   string
	estimateURL     string
	estimateFormat  string
	estimateMean    float64
	estimateSD      float64
	estimateMaxLag  int
	estimatePlot    bool
	estimateOutput  string
	estimateNoStore bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate R_t from a case series",
	Long: `Loads a daily case-count series from a local file or a remote URL,
estimates the time-varying effective reproductive number with the
Wallinga-Teunis method, and stores the run.

Estimates within the serial-interval window of either series edge are
flagged unreliable and excluded from the summary mean.

Examples:
  # Estimate from a local CSV (date,cases rows)
  rt-cli estimate --input cases.csv

  # Fetch from a URL and render charts
  rt-cli estimate --url https://example.org/cases.csv --plot

  # Override serial-interval parameters
  rt-cli estimate --input cases.csv --mean 4.7 --sd 2.9 --max-lag 21`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		series, source, err := loadSeries(ctx)
		if err != nil {
			return eris.Wrap(err, "estimate: load series")
		}
		zap.L().Info("estimate: series loaded",
			zap.String("source", source),
			zap.Int("days", len(series)),
		)

		params := serialParams(cmd)
		estimator := epi.Estimator{Params: params}

		if estimateNoStore {
			estimates, err := estimator.Estimate(series)
			if err != nil {
				return eris.Wrap(err, "estimate")
			}
			return finishRun(series, estimates)
		}

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "estimate: open store")
		}
		defer st.Close() //nolint:errcheck

		run, err := st.CreateRun(ctx, source, params)
		if err != nil {
			return eris.Wrap(err, "estimate: create run")
		}

		estimates, err := estimator.Estimate(series)
		if err != nil {
			if failErr := st.FailRun(ctx, run.ID, err.Error()); failErr != nil {
				zap.L().Error("estimate: record failure", zap.Error(failErr))
			}
			return eris.Wrap(err, "estimate")
		}

		if err := st.SaveEstimates(ctx, run.ID, estimates); err != nil {
			return eris.Wrap(err, "estimate: save estimates")
		}
		summary := estimates.Summarize()
		if err := st.CompleteRun(ctx, run.ID, &summary); err != nil {
			return eris.Wrap(err, "estimate: complete run")
		}

		zap.L().Info("estimate: run complete",
			zap.String("run_id", run.ID),
			zap.Float64("mean_r", summary.MeanR),
			zap.Float64("peak_r", summary.PeakR),
			zap.String("peak_date", summary.PeakDate.Format(model.DateLayout)),
			zap.Int("reliable_points", summary.ReliablePoints),
			zap.Int("total_points", summary.TotalPoints),
		)

		return finishRun(series, estimates)
	},
}

func init() {
	estimateCmd.Flags().StringVar(&estimateInput, "input", "", "path to a local case-series file")
	estimateCmd.Flags().StringVar(&estimateURL, "url", "", "case-series URL (default: source.url from config)")
	estimateCmd.Flags().StringVar(&estimateFormat, "format", "", "series format: csv or json (default: by extension)")
	estimateCmd.Flags().Float64Var(&estimateMean, "mean", 0, "serial-interval mean in days")
	estimateCmd.Flags().Float64Var(&estimateSD, "sd", 0, "serial-interval standard deviation in days")
	estimateCmd.Flags().IntVar(&estimateMaxLag, "max-lag", 0, "serial-interval truncation length in days")
	estimateCmd.Flags().BoolVar(&estimatePlot, "plot", false, "render case and R_t charts with gnuplot")
	estimateCmd.Flags().StringVar(&estimateOutput, "output", "", "write estimates JSON to file (default: stdout)")
	estimateCmd.Flags().BoolVar(&estimateNoStore, "no-store", false, "skip persisting the run")
	rootCmd.AddCommand(estimateCmd)
}

// serialParams starts from the configured serial-interval parameters and
// applies any explicitly set flags.
func serialParams(cmd *cobra.Command) model.SerialIntervalParams {
	p := model.SerialIntervalParams{
		Mean:          cfg.SerialInterval.Mean,
		SD:            cfg.SerialInterval.SD,
		MaxLag:        cfg.SerialInterval.MaxLag,
		TailTolerance: cfg.SerialInterval.TailTolerance,
	}
	if cmd.Flags().Changed("mean") {
		p.Mean = estimateMean
	}
	if cmd.Flags().Changed("sd") {
		p.SD = estimateSD
	}
	if cmd.Flags().Changed("max-lag") {
		p.MaxLag = estimateMaxLag
	}
	return p
}

// loadSeries resolves the case-series source from flags and config and
// loads it. Returns the series and a source label for the run record.
func loadSeries(ctx context.Context) (model.CaseSeries, string, error) {
	if estimateInput != "" {
		series, err := dataset.LoadFile(estimateInput, resolveFormat(estimateInput))
		return series, estimateInput, err
	}

	url := estimateURL
	if url == "" {
		url = cfg.Source.URL
	}
	if url == "" {
		return nil, "", eris.New("no --input file or --url given, and source.url is not configured")
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
	})
	src := dataset.Source{URL: url, Format: resolveFormat(url), Fetcher: f}
	series, err := src.Load(ctx)
	return series, url, err
}

// resolveFormat picks the series format: --format flag, then config, then
// the path extension.
func resolveFormat(path string) dataset.Format {
	if estimateFormat != "" {
		return dataset.Format(estimateFormat)
	}
	if estimateInput == "" && estimateURL == "" && cfg.Source.Format != "" {
		return dataset.Format(cfg.Source.Format)
	}
	return dataset.DetectFormat(path)
}

// finishRun writes the estimates JSON and renders charts if requested.
func finishRun(series model.CaseSeries, estimates model.EstimateSeries) error {
	if err := writeEstimates(estimates); err != nil {
		return err
	}
	if !estimatePlot {
		return nil
	}

	p := gnuplot.Plotter{
		Binary:   cfg.Plot.Binary,
		Terminal: cfg.Plot.Terminal,
		Dir:      cfg.Plot.Dir,
	}
	if _, err := p.PlotCases(series, "cases.png"); err != nil {
		return eris.Wrap(err, "estimate: plot cases")
	}
	if _, err := p.PlotEstimates(estimates, "rt.png"); err != nil {
		return eris.Wrap(err, "estimate: plot estimates")
	}
	return nil
}

// writeEstimates writes the estimate series to the output file or stdout.
func writeEstimates(estimates model.EstimateSeries) error {
	var w *os.File
	if estimateOutput != "" {
		f, err := os.Create(estimateOutput)
		if err != nil {
			return eris.Wrap(err, "estimate: create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	} else {
		w = os.Stdout
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(estimates)
}
