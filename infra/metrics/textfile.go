package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile dumps the gatherer in the text exposition format, for the
// node exporter textfile collector. A nil gatherer uses the default one.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(path, g)
}
