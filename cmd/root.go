package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kilianp07/pvsizing/config"
	coremetrics "github.com/kilianp07/pvsizing/core/metrics"
	"github.com/kilianp07/pvsizing/core/model"
	"github.com/kilianp07/pvsizing/infra/logger"
	inframetrics "github.com/kilianp07/pvsizing/infra/metrics"
	"github.com/kilianp07/pvsizing/infra/solardata"
)

var (
	cfgPath  string
	dataPath string
)

var rootCmd = &cobra.Command{
	Use:          "pvsizing",
	Short:        "Solar array and battery sizing",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "solar CSV file, overrides data.path")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// env is what every command needs once configuration is resolved.
type env struct {
	cfg  *config.Config
	log  *logger.ZerologLogger
	sink coremetrics.MetricsSink
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("data") {
		cfg.Data.Path = dataPath
	}
	log, err := logger.NewWithOptions("pvsizing", logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return &env{cfg: cfg, log: log, sink: sink}, nil
}

func (e *env) loadSeries() (model.Series, error) {
	if e.cfg.Data.Path == "" {
		return nil, fmt.Errorf("no solar data: set --data or data.path")
	}
	var (
		s   model.Series
		err error
	)
	if e.cfg.Data.CapacityMW > 0 {
		s, err = solardata.LoadWithCapacity(e.cfg.Data.Path, e.cfg.Data.CapacityMW)
	} else {
		s, err = solardata.Load(e.cfg.Data.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("load solar data: %w", err)
	}
	e.log.Debugf("loaded %d samples from %s", len(s), e.cfg.Data.Path)
	return s, nil
}

// close flushes the textfile export and releases sinks holding connections.
func (e *env) close() {
	if path := e.cfg.Metrics.Textfile; path != "" {
		if err := inframetrics.WriteTextfile(path, prometheus.DefaultGatherer); err != nil {
			e.log.Errorf("write metrics textfile: %v", err)
		}
	}
	if c, ok := e.sink.(io.Closer); ok {
		if err := c.Close(); err != nil {
			e.log.Errorf("close metrics sink: %v", err)
		}
	}
}

// openOutput returns stdout for an empty path.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
