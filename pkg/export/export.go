// Package export writes optimization results for downstream tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/pvsizing/core/model"
	"github.com/kilianp07/pvsizing/core/sizing"
)

// WriteJSON writes the result to w as indented JSON.
func WriteJSON(w io.Writer, res *model.OptimizationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteCSV writes the result to w as a two column key/value table grouped by
// inputs, sizing, breakdown, totals and uptime report.
func WriteCSV(w io.Writer, res *model.OptimizationResult) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"key", "value"},
		{"run_id", res.RunID},
		{"method", res.Method},
		{"iterations", strconv.Itoa(res.Iterations)},
		{"costs.solar", formatFloat(res.Costs.Solar)},
		{"costs.battery", formatFloat(res.Costs.Battery)},
		{"costs.load", formatFloat(res.Costs.Load)},
		{"sizing.array", formatFloat(res.Sizing.Array)},
		{"sizing.battery", formatFloat(res.Sizing.Battery)},
		{"best_cost", formatFloat(res.BestCost)},
		{"breakdown.array", formatFloat(res.Breakdown.Array)},
		{"breakdown.storage", formatFloat(res.Breakdown.Storage)},
		{"breakdown.load", formatFloat(res.Breakdown.Load)},
		{"totals.hardware", formatFloat(res.Totals.Hardware)},
		{"totals.total", formatFloat(res.Totals.Total)},
		{"totals.per_served_load", formatFloat(res.Totals.PerServedLoad)},
		{"report.capacity", formatFloat(res.Report.Capacity)},
		{"report.load", formatFloat(res.Report.Load)},
		{"report.battery_uptime", formatFloat(res.Report.BatteryUptime)},
		{"report.load_served", formatFloat(res.Report.LoadServed)},
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteTrajectoryCSV writes one row per interval with the solar output, the
// battery charge at the start of the interval and the load utilization.
func WriteTrajectoryCSV(w io.Writer, series model.Series, tr sizing.Trajectory) error {
	if len(tr.Utilization) != len(series) || len(tr.Battery) != len(series)+1 {
		return fmt.Errorf("trajectory covers %d intervals, series has %d", len(tr.Utilization), len(series))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "solar", "battery", "utilization"}); err != nil {
		return err
	}
	for i, s := range series {
		rec := []string{
			s.Time.Format(time.RFC3339),
			formatFloat(s.PowerMW),
			formatFloat(tr.Battery[i]),
			formatFloat(tr.Utilization[i]),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
