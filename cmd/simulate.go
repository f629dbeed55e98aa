package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	coremetrics "github.com/kilianp07/pvsizing/core/metrics"
	"github.com/kilianp07/pvsizing/core/model"
	"github.com/kilianp07/pvsizing/core/sizing"
)

var simulateFlags struct {
	solarCost, batteryCost, loadCost float64
	batterySize, arraySize           float64
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a year of dispatch for a fixed sizing",
	RunE:  runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	addCostFlags(simulateCmd, &simulateFlags.solarCost, &simulateFlags.batteryCost, &simulateFlags.loadCost)
	f.Float64Var(&simulateFlags.batterySize, "battery-size", 0, "battery capacity in MWh per MW of load")
	f.Float64Var(&simulateFlags.arraySize, "array-size", 1, "array size in MW per MW of load")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	s := model.Sizing{Array: simulateFlags.arraySize, Battery: simulateFlags.batterySize}
	if s.Array <= 0 || s.Battery < 0 {
		return fmt.Errorf("array size must be > 0 and battery size >= 0, got %+v", s)
	}
	applyCostFlags(cmd, &e.cfg.Costs, simulateFlags.solarCost, simulateFlags.batteryCost, simulateFlags.loadCost)

	series, err := e.loadSeries()
	if err != nil {
		return err
	}
	solar := series.Powers()
	rep := sizing.Uptime(s.Battery/s.Array, 1/s.Array, solar)
	cost := sizing.SystemCost(e.cfg.Costs, s, solar)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "samples:         %d (%.4g h)\n", len(series), series.IntervalHours())
	fmt.Fprintf(out, "capacity factor: %.4f\n", stat.Mean(solar, nil))
	fmt.Fprintf(out, "capacity:        %.4f MWh per MW array\n", rep.Capacity)
	fmt.Fprintf(out, "load:            %.4f MW per MW array\n", rep.Load)
	fmt.Fprintf(out, "battery uptime:  %.4f\n", rep.BatteryUptime)
	fmt.Fprintf(out, "load served:     %.4f\n", rep.LoadServed)
	fmt.Fprintf(out, "system cost:     %.2f\n", cost)

	if rec, ok := e.sink.(coremetrics.SimulationRecorder); ok {
		if err := rec.RecordSimulation(coremetrics.SimulationEvent{
			Sizing: s, Report: rep, Cost: cost, Time: time.Now(),
		}); err != nil {
			e.log.Warnf("record simulation: %v", err)
		}
	}
	return nil
}
