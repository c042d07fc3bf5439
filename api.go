package shareanalyzer

import (
	base "github.com/uforiaio/network-share-test-helper/pkg/shareanalyzer"
)

// Re-exported errors for convenience.
var ErrChannelSinkClosed = base.ErrChannelSinkClosed

// Type aliases so consumers can import the module root directly.
type (
	Config         = base.Config
	CaptureConfig  = base.CaptureConfig
	FactsConfig    = base.FactsConfig
	Thresholds     = base.Thresholds
	Targets        = base.Targets
	AnomalyConfig  = base.AnomalyConfig
	ForestConfig   = base.ForestConfig
	TrendConfig    = base.TrendConfig
	TextGenConfig  = base.TextGenConfig
	PostgresConfig = base.PostgresConfig
	OutputConfig   = base.OutputConfig
	MetricsConfig  = base.MetricsConfig
	AnalysisConfig = base.AnalysisConfig

	Flow            = base.Flow
	FlowOption      = base.FlowOption
	StreamInOption  = base.StreamInOption
	StreamOutOption = base.StreamOutOption
	Runtime         = base.Runtime
	RuntimeOption   = base.RuntimeOption
	Session         = base.Session
	SessionConfig   = base.SessionConfig

	Packet         = base.Packet
	Report         = base.Report
	Snapshot       = base.Snapshot
	Issue          = base.Issue
	Recommendation = base.Recommendation
	Anomaly        = base.Anomaly
	Prediction     = base.Prediction
	NetworkFacts   = base.NetworkFacts
	ProtocolInfo   = base.ProtocolInfo

	Collector     = base.Collector
	FactsProvider = base.FactsProvider
	OutlierModel  = base.OutlierModel
	TextGenerator = base.TextGenerator
	ReportSink    = base.ReportSink
	ReportFunc    = base.ReportFunc
	Observability = base.Observability
	Field         = base.Field
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInCollector(col Collector) StreamInOption {
	return base.StreamInCollector(col)
}

func StreamInFacts(facts FactsProvider) StreamInOption {
	return base.StreamInFacts(facts)
}

func StreamInProtocol(p *ProtocolInfo) StreamInOption {
	return base.StreamInProtocol(p)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutSink(s ReportSink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutModel(m OutlierModel) StreamOutOption {
	return base.StreamOutModel(m)
}

func StreamOutTextGenerator(g TextGenerator) StreamOutOption {
	return base.StreamOutTextGenerator(g)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn ReportFunc) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithCollector(col Collector) RuntimeOption {
	return base.WithCollector(col)
}

func WithFactsProvider(f FactsProvider) RuntimeOption {
	return base.WithFactsProvider(f)
}

func WithOutlierModel(m OutlierModel) RuntimeOption {
	return base.WithOutlierModel(m)
}

func WithTextGenerator(g TextGenerator) RuntimeOption {
	return base.WithTextGenerator(g)
}

func WithSink(s ReportSink) RuntimeOption {
	return base.WithSink(s)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithProtocolInfo(p *ProtocolInfo) RuntimeOption {
	return base.WithProtocolInfo(p)
}

// Sink adapters.
func NewCallbackSink(name string, fn ReportFunc) ReportSink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (ReportSink, <-chan *Report, func()) {
	return base.NewChannelSink(name, buffer)
}

// Offline analysis.
func NewSession(cfg *SessionConfig) (*Session, error) {
	return base.NewSession(cfg)
}
