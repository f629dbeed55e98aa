package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pvsizing/core/sizing"
)

var sweepFlags struct {
	solarCost, batteryCost, loadCost float64
	loadCosts                        []float64
	seed                             uint64
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Optimize the sizing for a list of load costs",
	RunE:  runSweep,
}

func init() {
	f := sweepCmd.Flags()
	addCostFlags(sweepCmd, &sweepFlags.solarCost, &sweepFlags.batteryCost, &sweepFlags.loadCost)
	f.Float64SliceVar(&sweepFlags.loadCosts, "load-costs", []float64{1e5, 1e6, 5e6, 1e7, 1e8}, "load costs to optimize for")
	f.Uint64Var(&sweepFlags.seed, "seed", 0, "random seed shared by every search")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	costs := e.cfg.Costs
	applyCostFlags(cmd, &costs, sweepFlags.solarCost, sweepFlags.batteryCost, sweepFlags.loadCost)
	if len(sweepFlags.loadCosts) == 0 {
		return fmt.Errorf("no load costs to sweep")
	}
	series, err := e.loadSeries()
	if err != nil {
		return err
	}
	solar := series.Powers()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "load_cost\tarray\tbattery\tcost\tload_served\tbattery_uptime")
	for _, lc := range sweepFlags.loadCosts {
		optCfg := e.cfg.Optimizer
		if cmd.Flags().Changed("seed") {
			seed := sweepFlags.seed
			optCfg.Seed = &seed
		}
		opt, err := sizing.NewOptimizer(optCfg, nil, e.log.With("optimizer"), e.sink)
		if err != nil {
			return err
		}
		c := costs
		c.Load = lc
		res, err := opt.Run(ctx, c, solar)
		if err != nil {
			return fmt.Errorf("load cost %g: %w", lc, err)
		}
		fmt.Fprintf(tw, "%g\t%.4f\t%.4f\t%.2f\t%.4f\t%.4f\n",
			lc, res.Sizing.Array, res.Sizing.Battery, res.BestCost, res.Report.LoadServed, res.Report.BatteryUptime)
	}
	return tw.Flush()
}
