package shareanalyzer

import (
	"context"
	"fmt"
)

// Flow is a convenience builder that lets callers say Conf → StreamIN →
// StreamOUT without touching the underlying wiring.
type Flow struct {
	cfg  *Config
	opts []RuntimeOption
}

// FlowOption mutates the Flow after configuration is loaded.
type FlowOption func(*Flow)

// StreamInOption configures the capture side of the pipeline.
type StreamInOption func(*Flow)

// StreamOutOption configures the sink/model/prediction side of the pipeline.
type StreamOutOption func(*Flow)

// Conf loads YAML from disk, applies FlowOption values, and returns a Flow builder.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig bootstraps a Flow from an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	f := &Flow{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Config returns the underlying configuration so callers can tweak it before building a runtime.
func (f *Flow) Config() *Config {
	if f == nil {
		return nil
	}
	return f.cfg
}

// Options appends raw RuntimeOption values to the builder for advanced scenarios.
func (f *Flow) Options(opts ...RuntimeOption) *Flow {
	if f == nil {
		return nil
	}
	f.appendOptions(opts...)
	return f
}

// StreamIN records capture-side overrides (collector, facts, observability).
func (f *Flow) StreamIN(opts ...StreamInOption) *Flow {
	if f == nil {
		return nil
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// StreamOUT records output-side overrides and builds a Runtime ready to run.
func (f *Flow) StreamOUT(opts ...StreamOutOption) (*Runtime, error) {
	if f == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return NewRuntime(f.cfg, f.opts...)
}

// Run is a shortcut for StreamOUT + runtime.Run.
func (f *Flow) Run(ctx context.Context, opts ...StreamOutOption) error {
	rt, err := f.StreamOUT(opts...)
	if err != nil {
		return err
	}
	return rt.Run(ctx)
}

// WithFlowOptions appends RuntimeOption values during Conf.
func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(opts...)
		}
	}
}

// StreamInCollector injects a custom packet source (trace replay, simulators, etc.).
func StreamInCollector(col Collector) StreamInOption {
	return func(f *Flow) {
		if f != nil && col != nil {
			f.appendOptions(WithCollector(col))
		}
	}
}

// StreamInFacts overrides the host fact collection.
func StreamInFacts(facts FactsProvider) StreamInOption {
	return func(f *Flow) {
		if f != nil && facts != nil {
			f.appendOptions(WithFactsProvider(facts))
		}
	}
}

// StreamInProtocol supplies negotiated protocol facts for the checks.
func StreamInProtocol(p *ProtocolInfo) StreamInOption {
	return func(f *Flow) {
		if f != nil && p != nil {
			f.appendOptions(WithProtocolInfo(p))
		}
	}
}

// StreamInObservability overrides the default Prometheus-based observability stack.
func StreamInObservability(obs Observability) StreamInOption {
	return func(f *Flow) {
		if f != nil && obs != nil {
			f.appendOptions(WithObservability(obs))
		}
	}
}

// StreamOutSink adds a custom report destination.
func StreamOutSink(s ReportSink) StreamOutOption {
	return func(f *Flow) {
		if f != nil && s != nil {
			f.appendOptions(WithSink(s))
		}
	}
}

// StreamOutModel swaps the anomaly model.
func StreamOutModel(m OutlierModel) StreamOutOption {
	return func(f *Flow) {
		if f != nil && m != nil {
			f.appendOptions(WithOutlierModel(m))
		}
	}
}

// StreamOutTextGenerator overrides the prediction backend.
func StreamOutTextGenerator(g TextGenerator) StreamOutOption {
	return func(f *Flow) {
		if f != nil && g != nil {
			f.appendOptions(WithTextGenerator(g))
		}
	}
}

// StreamOutObservability replaces the default observability backend.
func StreamOutObservability(obs Observability) StreamOutOption {
	return func(f *Flow) {
		if f != nil && obs != nil {
			f.appendOptions(WithObservability(obs))
		}
	}
}

// StreamOutCallback installs a sink built from a simple callback function.
func StreamOutCallback(name string, fn ReportFunc) StreamOutOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(WithSink(NewCallbackSink(name, fn)))
		}
	}
}

func (f *Flow) appendOptions(opts ...RuntimeOption) {
	for _, opt := range opts {
		if opt != nil {
			f.opts = append(f.opts, opt)
		}
	}
}
