package shareanalyzer

import (
	"github.com/uforiaio/network-share-test-helper/internal/adapters/capture"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/iforest"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/netfacts"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/textgen"
	"github.com/uforiaio/network-share-test-helper/internal/anomaly"
	"github.com/uforiaio/network-share-test-helper/internal/app/config"
	"github.com/uforiaio/network-share-test-helper/internal/diagnose"
	"github.com/uforiaio/network-share-test-helper/internal/trend"
)

// Config re-exports the root configuration struct so downstream projects
// can construct or modify it programmatically.
type Config = config.Config

type (
	// CaptureConfig holds the pcap interface and filter settings.
	CaptureConfig = capture.Config
	// FactsConfig configures host fact collection.
	FactsConfig = netfacts.Config
	// Thresholds holds the issue detection limits.
	Thresholds = diagnose.Thresholds
	// Targets holds the recommendation baselines.
	Targets = diagnose.Targets
	// AnomalyConfig configures the anomaly detector.
	AnomalyConfig = anomaly.Config
	// ForestConfig configures the isolation forest model.
	ForestConfig = iforest.Config
	// TrendConfig configures trend tracking and prediction.
	TrendConfig = trend.Config
	// TextGenConfig configures the completion endpoint.
	TextGenConfig = textgen.Config
	// PostgresConfig configures the report history sink.
	PostgresConfig = config.PostgresConfig
	// OutputConfig configures the on-disk report sink.
	OutputConfig = config.OutputConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// AnalysisConfig controls capture windows and pass spacing.
	AnalysisConfig = config.AnalysisConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
