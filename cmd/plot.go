package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epitrack/rt-cli/internal/gnuplot"
)

var plotRunID string

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Re-render the R_t chart for a stored run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "plot: open store")
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, plotRunID)
		if err != nil {
			return eris.Wrapf(err, "plot: get run %s", plotRunID)
		}

		estimates, err := st.GetEstimates(ctx, run.ID)
		if err != nil {
			return eris.Wrap(err, "plot: get estimates")
		}
		if len(estimates) == 0 {
			return eris.Errorf("plot: run %s has no stored estimates", run.ID)
		}

		p := gnuplot.Plotter{
			Binary:   cfg.Plot.Binary,
			Terminal: cfg.Plot.Terminal,
			Dir:      cfg.Plot.Dir,
		}
		name := fmt.Sprintf("rt-%s.png", run.ID[:8])
		path, err := p.PlotEstimates(estimates, name)
		if err != nil {
			return eris.Wrap(err, "plot: render")
		}

		zap.L().Info("plot: rendered",
			zap.String("run_id", run.ID),
			zap.String("path", path),
		)
		return nil
	},
}

func init() {
	plotCmd.Flags().StringVar(&plotRunID, "run", "", "run ID to plot (required)")
	_ = plotCmd.MarkFlagRequired("run")
	rootCmd.AddCommand(plotCmd)
}
