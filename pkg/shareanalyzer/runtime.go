// Package shareanalyzer is the embeddable entry point of the network
// share analyzer. It wires capture, diagnostics, anomaly detection, and
// trend prediction behind a small runtime with overridable dependencies.
package shareanalyzer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uforiaio/network-share-test-helper/internal/adapters/capture"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/iforest"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/netfacts"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/observability"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/sink"
	"github.com/uforiaio/network-share-test-helper/internal/adapters/textgen"
	"github.com/uforiaio/network-share-test-helper/internal/anomaly"
	"github.com/uforiaio/network-share-test-helper/internal/app/analyzer"
	"github.com/uforiaio/network-share-test-helper/internal/diagnose"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
	"github.com/uforiaio/network-share-test-helper/internal/trend"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	collector     Collector
	facts         FactsProvider
	model         OutlierModel
	generator     TextGenerator
	sinks         []ReportSink
	observability Observability
	protocol      *ProtocolInfo
}

// WithCollector injects a custom packet source (trace replay, simulators, etc.).
func WithCollector(col Collector) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.collector = col
	}
}

// WithFactsProvider overrides the default host fact collection.
func WithFactsProvider(f FactsProvider) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.facts = f
	}
}

// WithOutlierModel swaps the built-in isolation forest for another model.
func WithOutlierModel(m OutlierModel) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.model = m
	}
}

// WithTextGenerator injects a custom completion backend for predictions.
func WithTextGenerator(g TextGenerator) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.generator = g
	}
}

// WithSink adds a report destination. The option can be repeated; when
// present, the configured default sinks are not built.
func WithSink(s ReportSink) RuntimeOption {
	return func(o *runtimeOverrides) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithProtocolInfo supplies negotiated protocol facts instead of the
// path-based guess.
func WithProtocolInfo(p *ProtocolInfo) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.protocol = p
	}
}

// Runtime owns one analysis pipeline and its lifecycle.
type Runtime struct {
	cfg        *Config
	obs        ports.Observability
	analyzer   *analyzer.Analyzer
	collector  ports.Collector
	sinks      []ports.ReportSink
	db         *sql.DB
	metricsSrv *http.Server
}

// NewRuntime bootstraps the default adapters (pcap collector, gopsutil
// facts, isolation forest, file and optional Postgres sinks, Prometheus
// observability). RuntimeOption values override any dependency.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	col := overrides.collector
	if col == nil {
		var err error
		col, err = capture.NewCollector(cfg.Capture)
		if err != nil {
			return nil, err
		}
	}

	facts := overrides.facts
	if facts == nil {
		facts = netfacts.New(cfg.Facts)
	}

	model := overrides.model
	if model == nil {
		model = iforest.New(cfg.IForest)
	}

	gen := overrides.generator
	if gen == nil && cfg.TextGen.APIKey != "" {
		gen = textgen.New(cfg.TextGen)
	}

	var (
		db    *sql.DB
		sinks []ports.ReportSink
	)
	if len(overrides.sinks) > 0 {
		sinks = overrides.sinks
	} else {
		fileSink, err := sink.NewReportFileSink(cfg.Output.Dir)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fileSink)

		if cfg.Postgres.ConnString != "" {
			db, err = sql.Open("postgres", cfg.Postgres.ConnString)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink.NewPostgresSink(db, cfg.Postgres.Table))
		}
	}

	a, err := analyzer.New(analyzer.Options{
		SharePath: cfg.SharePath,
		Protocol:  overrides.protocol,
		Collector: col,
		Facts:     facts,
		Issues:    diagnose.NewDetector(cfg.Thresholds),
		Recs:      diagnose.NewRecommender(cfg.Targets),
		Anomalies: anomaly.NewDetector(cfg.Anomaly, model, obs),
		Trends:    trend.NewPredictor(cfg.Trend, gen, obs),
		Sinks:     sinks,
		Obs:       obs,
	})
	if err != nil {
		return nil, err
	}

	return &Runtime{
		cfg:       cfg,
		obs:       obs,
		analyzer:  a,
		collector: col,
		sinks:     sinks,
		db:        db,
	}, nil
}

// Analyze runs a single capture window and returns the report.
func (r *Runtime) Analyze(ctx context.Context, window time.Duration) (*Report, error) {
	if window <= 0 {
		window = r.cfg.Analysis.CaptureWindow
	}
	return r.analyzer.Analyze(ctx, window)
}

// Run starts the metrics server and repeats analysis passes until the
// context is cancelled, then shuts down gracefully.
func (r *Runtime) Run(ctx context.Context) error {
	r.startMetrics()

	err := r.analyzer.RunPeriodic(ctx, r.cfg.Analysis.CaptureWindow, r.cfg.Analysis.Interval)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(err, r.Shutdown(shutdownCtx))
}

// Shutdown stops the metrics server and closes the DB connection.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()
}
