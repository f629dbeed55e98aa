package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/pvsizing/core/metrics"
	"github.com/kilianp07/pvsizing/infra/logger"
)

// InfluxSink writes sizing runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes the run summary as a sizing_run point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("sizing_run").
		AddTag("run_id", ev.RunID).
		AddTag("method", ev.Method).
		AddField("solar_cost", ev.Costs.Solar).
		AddField("battery_cost", ev.Costs.Battery).
		AddField("load_cost", ev.Costs.Load)
	addFinite(p, "array_size", ev.Sizing.Array)
	addFinite(p, "battery_size", ev.Sizing.Battery)
	addFinite(p, "best_cost", ev.BestCost)
	addFinite(p, "load_served", ev.LoadServed)
	addFinite(p, "battery_uptime", ev.BatteryUptime)
	p.AddField("iterations", ev.Iterations).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSimulation writes a standalone simulation as a sizing_simulation point.
func (s *InfluxSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("sizing_simulation").SetTime(ev.Time)
	addFinite(p, "array_size", ev.Sizing.Array)
	addFinite(p, "battery_size", ev.Sizing.Battery)
	addFinite(p, "cost", ev.Cost)
	addFinite(p, "load_served", ev.Report.LoadServed)
	addFinite(p, "battery_uptime", ev.Report.BatteryUptime)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// addFinite adds the rounded value; line protocol has no NaN or Inf.
func addFinite(p *write.Point, name string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	p.AddField(name, round3(v))
}
