package metrics

import "github.com/kilianp07/pvsizing/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// Textfile, when set, receives the Prometheus registry in text format
	// after each command.
	Textfile string `json:"textfile"`
}
