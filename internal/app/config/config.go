package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/uforiaio/network-share-test-helper/internal/adapters/capture"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/iforest"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/netfacts"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/textgen"
	"github.com/uforiaio/network-share-test-helper/internal/anomaly"
	"github.com/uforiaio/network-share-test-helper/internal/diagnose"
	"github.com/uforiaio/network-share-test-helper/internal/trend"
)

type Config struct {
	SharePath  string              `yaml:"share_path"`
	Capture    capture.Config      `yaml:"capture"`
	Facts      netfacts.Config     `yaml:"facts"`
	Thresholds diagnose.Thresholds `yaml:"thresholds"`
	Targets    diagnose.Targets    `yaml:"targets"`
	Anomaly    anomaly.Config      `yaml:"anomaly"`
	IForest    iforest.Config      `yaml:"iforest"`
	Trend      trend.Config        `yaml:"trend"`
	TextGen    textgen.Config      `yaml:"textgen"`
	Postgres   PostgresConfig      `yaml:"postgres"`
	Output     OutputConfig        `yaml:"output"`
	Metrics    MetricsConfig       `yaml:"metrics"`
	Analysis   AnalysisConfig      `yaml:"analysis"`
}

type PostgresConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type AnalysisConfig struct {
	// CaptureWindow bounds each capture pass; Interval spaces passes in
	// periodic mode.
	CaptureWindow time.Duration `yaml:"capture_window"`
	Interval      time.Duration `yaml:"interval"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Capture.ApplyDefaults()
	c.Facts.ApplyDefaults()
	c.Thresholds.ApplyDefaults()
	c.Targets.ApplyDefaults()
	c.Anomaly.ApplyDefaults()
	c.IForest.ApplyDefaults()
	c.Trend.ApplyDefaults()
	c.TextGen.ApplyDefaults()

	if c.Postgres.Table == "" {
		c.Postgres.Table = "reports"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./reports"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Analysis.CaptureWindow <= 0 {
		c.Analysis.CaptureWindow = 60 * time.Second
	}
	if c.Analysis.Interval <= 0 {
		c.Analysis.Interval = 5 * time.Minute
	}
}

func (c *Config) validate() error {
	if err := c.Capture.Validate(); err != nil {
		return fmt.Errorf("capture config: %w", err)
	}
	// The textgen key is optional; without it trend prediction degrades
	// to heuristics instead of failing the load.
	if c.TextGen.APIKey != "" {
		if err := c.TextGen.Validate(); err != nil {
			return fmt.Errorf("textgen config: %w", err)
		}
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	return nil
}
