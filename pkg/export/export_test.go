package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pvsizing/core/model"
	"github.com/kilianp07/pvsizing/core/sizing"
)

func sampleResult() *model.OptimizationResult {
	return &model.OptimizationResult{
		RunID:      "abc",
		Method:     "elasticity",
		Iterations: 100,
		Costs:      model.Costs{Solar: 1e6, Battery: 3e5, Load: 5e6},
		Sizing:     model.Sizing{Array: 2.5, Battery: 8},
		BestCost:   1.2e7,
		Breakdown:  model.CostBreakdown{Array: 2.5e6, Storage: 2.4e6, Load: 5e6},
		Totals:     model.Totals{Hardware: 4.9e6, Total: 9.9e6, PerServedLoad: 1.1e7},
		Report:     model.UptimeReport{Capacity: 3.2, Load: 0.4, BatteryUptime: 0.9, LoadServed: 0.9},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))
	var got model.OptimizationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleResult(), got)
	assert.Contains(t, buf.String(), `"per_served_load"`)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	kv := map[string]string{}
	for _, r := range recs[1:] {
		kv[r[0]] = r[1]
	}
	assert.Equal(t, []string{"key", "value"}, recs[0])
	assert.Equal(t, "5000000", kv["costs.load"])
	assert.Equal(t, "2.5", kv["sizing.array"])
	assert.Equal(t, "9900000", kv["totals.total"])
	assert.Equal(t, "0.9", kv["report.load_served"])
	assert.Equal(t, "100", kv["iterations"])
}

func TestWriteTrajectoryCSV(t *testing.T) {
	start := time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)
	series := model.Series{
		{Time: start, PowerMW: 2},
		{Time: start.Add(time.Hour), PowerMW: 0},
	}
	tr := sizing.Simulate(1e6, 1, series.Powers())

	var buf bytes.Buffer
	require.NoError(t, WriteTrajectoryCSV(&buf, series, tr))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "time,solar,battery,utilization", lines[0])
	assert.Equal(t, "2006-01-01T00:00:00Z,2,1000000,1", lines[1])
	assert.Equal(t, "2006-01-01T01:00:00Z,0,1000000,1", lines[2])

	err := WriteTrajectoryCSV(&buf, series[:1], tr)
	assert.Error(t, err)
}
