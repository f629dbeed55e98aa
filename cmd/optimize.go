package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pvsizing/core/model"
	"github.com/kilianp07/pvsizing/core/sizing"
	"github.com/kilianp07/pvsizing/pkg/export"
)

var optimizeFlags struct {
	solarCost, batteryCost, loadCost float64
	seed                             uint64
	iterations                       int
	method                           string
	out, format, trajectory          string
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search the cheapest array and battery sizing",
	RunE:  runOptimize,
}

func init() {
	f := optimizeCmd.Flags()
	addCostFlags(optimizeCmd, &optimizeFlags.solarCost, &optimizeFlags.batteryCost, &optimizeFlags.loadCost)
	f.Uint64Var(&optimizeFlags.seed, "seed", 0, "random seed for a reproducible search")
	f.IntVar(&optimizeFlags.iterations, "iterations", sizing.DefaultIterations, "search iterations")
	f.StringVar(&optimizeFlags.method, "method", string(sizing.MethodElasticity), "search method: elasticity or nelder-mead")
	f.StringVarP(&optimizeFlags.out, "out", "o", "", "result file, stdout when empty")
	f.StringVar(&optimizeFlags.format, "format", "json", "result format: json or csv")
	f.StringVar(&optimizeFlags.trajectory, "trajectory", "", "write the battery trajectory of the best sizing as CSV")
	rootCmd.AddCommand(optimizeCmd)
}

func addCostFlags(cmd *cobra.Command, solar, battery, load *float64) {
	f := cmd.Flags()
	f.Float64Var(solar, "solar-cost", 0, "cost of a 1 MW array")
	f.Float64Var(battery, "battery-cost", 0, "cost of 1 MWh of storage")
	f.Float64Var(load, "load-cost", 0, "value of serving a 1 MW load")
}

// applyCostFlags overrides configured costs with flags given on the command line.
func applyCostFlags(cmd *cobra.Command, c *model.Costs, solar, battery, load float64) {
	if cmd.Flags().Changed("solar-cost") {
		c.Solar = solar
	}
	if cmd.Flags().Changed("battery-cost") {
		c.Battery = battery
	}
	if cmd.Flags().Changed("load-cost") {
		c.Load = load
	}
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	cfg := e.cfg
	applyCostFlags(cmd, &cfg.Costs, optimizeFlags.solarCost, optimizeFlags.batteryCost, optimizeFlags.loadCost)
	fl := cmd.Flags()
	if fl.Changed("seed") {
		seed := optimizeFlags.seed
		cfg.Optimizer.Seed = &seed
	}
	if fl.Changed("iterations") {
		cfg.Optimizer.Iterations = optimizeFlags.iterations
	}
	if fl.Changed("method") {
		cfg.Optimizer.Method = sizing.Method(optimizeFlags.method)
	}
	if fl.Changed("out") {
		cfg.Report.Path = optimizeFlags.out
	}
	if fl.Changed("format") {
		cfg.Report.Format = optimizeFlags.format
	}
	if fl.Changed("trajectory") {
		cfg.Report.Trajectory = optimizeFlags.trajectory
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Costs.Validate(); err != nil {
		return err
	}

	series, err := e.loadSeries()
	if err != nil {
		return err
	}
	opt, err := sizing.NewOptimizer(cfg.Optimizer, nil, e.log.With("optimizer"), e.sink)
	if err != nil {
		return err
	}
	solar := series.Powers()
	res, err := opt.Run(ctx, cfg.Costs, solar)
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	if err := writeResult(cmd, cfg.Report.Path, cfg.Report.Format, res); err != nil {
		return err
	}
	if cfg.Report.Trajectory != "" {
		tr := sizing.Simulate(res.Report.Capacity, res.Report.Load, solar)
		if err := writeTrajectory(cfg.Report.Trajectory, series, tr); err != nil {
			return fmt.Errorf("write trajectory: %w", err)
		}
	}
	return nil
}

func writeResult(cmd *cobra.Command, path, format string, res *model.OptimizationResult) error {
	w, closeFn, err := openOutput(cmd, path)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	switch format {
	case "csv":
		err = export.WriteCSV(w, res)
	default:
		err = export.WriteJSON(w, res)
	}
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func writeTrajectory(path string, series model.Series, tr sizing.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteTrajectoryCSV(f, series, tr); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
