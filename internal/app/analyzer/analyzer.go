// Package analyzer orchestrates a full diagnostic pass: capture, metric
// computation, rule checks, recommendations, anomaly detection, and trend
// prediction, ending in a report delivered to the configured sinks.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uforiaio/network-share-test-helper/internal/anomaly"
	"github.com/uforiaio/network-share-test-helper/internal/diagnose"
	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/metrics"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
	"github.com/uforiaio/network-share-test-helper/internal/trend"
)

// Options carries the dependencies of an Analyzer. Collector and
// Observability are required; everything else degrades gracefully when
// absent.
type Options struct {
	SharePath string
	Protocol  *domain.ProtocolInfo

	Collector ports.Collector
	Facts     ports.FactsProvider
	Issues    *diagnose.Detector
	Recs      *diagnose.Recommender
	Anomalies *anomaly.Detector
	Trends    *trend.Predictor
	Sinks     []ports.ReportSink
	Obs       ports.Observability
}

type Analyzer struct {
	opts    Options
	sampler *metrics.Sampler
}

func New(opts Options) (*Analyzer, error) {
	if opts.Collector == nil {
		return nil, errors.New("analyzer: collector is required")
	}
	if opts.Obs == nil {
		return nil, errors.New("analyzer: observability is required")
	}
	if opts.Protocol == nil {
		opts.Protocol = inferProtocol(opts.SharePath)
	}
	return &Analyzer{
		opts:    opts,
		sampler: metrics.NewSampler(opts.SharePath),
	}, nil
}

// Analyze runs one bounded capture window and turns it into a report.
// The report is written to every sink; sink failures are logged and do
// not fail the pass.
func (a *Analyzer) Analyze(ctx context.Context, window time.Duration) (*domain.Report, error) {
	a.sampler.Reset()

	if err := a.capture(ctx, window); err != nil {
		return nil, err
	}

	start := time.Now()
	report := a.analyze(ctx)
	a.opts.Obs.ObserveLatency("shareanalyzer_analysis_duration_seconds", time.Since(start).Seconds())

	a.deliver(report)
	return report, nil
}

func (a *Analyzer) capture(ctx context.Context, window time.Duration) error {
	cctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	a.opts.Obs.SetGauge("shareanalyzer_capture_active", 1)
	defer a.opts.Obs.SetGauge("shareanalyzer_capture_active", 0)

	ch := make(chan *domain.Packet, 1024)
	if err := a.opts.Collector.Start(cctx, ch); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	var captured float64
	for p := range ch {
		a.sampler.Record(p)
		captured++
	}
	a.opts.Obs.IncCounter("shareanalyzer_packets_captured_total", captured)

	if err := a.opts.Collector.Stop(); err != nil {
		a.opts.Obs.LogError("capture_stop_failed", err)
	}
	return nil
}

func (a *Analyzer) analyze(ctx context.Context) *domain.Report {
	set := a.sampler.Snapshot()
	snap := metrics.Compute(set)
	a.opts.Obs.SetGauge("shareanalyzer_rtt_samples", float64(snap.RTTSamples))
	a.opts.Obs.SetGauge("shareanalyzer_retransmission_rate", snap.RetransmissionRate)

	var facts *domain.NetworkFacts
	if a.opts.Facts != nil {
		var err error
		facts, err = a.opts.Facts.Facts(ctx)
		if err != nil {
			a.opts.Obs.LogError("facts_collection_failed", err)
			facts = nil
		}
	}

	report := &domain.Report{
		Timestamp: snap.Timestamp,
		SharePath: a.opts.SharePath,
		Metrics:   snap,
	}

	if a.opts.Issues != nil {
		report.Issues = a.opts.Issues.Detect(snap, facts, a.opts.Protocol)
		a.opts.Obs.IncCounter("shareanalyzer_issues_detected_total", float64(len(report.Issues)))
	}
	if a.opts.Recs != nil {
		report.Recommendations = a.opts.Recs.Recommend(snap, facts, a.opts.Protocol)
	}
	if a.opts.Anomalies != nil {
		report.Anomalies = a.opts.Anomalies.Detect(set)
		a.opts.Obs.IncCounter("shareanalyzer_anomalies_detected_total", float64(len(report.Anomalies)))
	}
	if a.opts.Trends != nil {
		a.opts.Trends.RecordSnapshot(snap)
		report.Trends = a.opts.Trends.Trends()
		report.Prediction = a.opts.Trends.Predict(ctx)
	}

	return report
}

func (a *Analyzer) deliver(report *domain.Report) {
	for _, s := range a.opts.Sinks {
		if err := s.WriteReport(report); err != nil {
			a.opts.Obs.LogError("report_sink_failed", err, ports.Field{Key: "sink", Value: s.Name()})
			continue
		}
		a.opts.Obs.IncCounter("shareanalyzer_reports_written_total", 1)
	}
}

// RunPeriodic repeats Analyze every interval until the context ends.
// The first pass starts immediately.
func (a *Analyzer) RunPeriodic(ctx context.Context, window, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := a.Analyze(ctx, window); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.opts.Obs.LogError("analysis_pass_failed", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// inferProtocol guesses the share protocol from the path shape. UNC
// style paths mean SMB, host:/export means NFS. A guessed protocol has
// no negotiated encryption state, which the security check will flag.
func inferProtocol(sharePath string) *domain.ProtocolInfo {
	switch {
	case sharePath == "":
		return nil
	case strings.HasPrefix(sharePath, "\\\\") || strings.HasPrefix(sharePath, "//"):
		return &domain.ProtocolInfo{Type: "SMB"}
	case strings.Contains(sharePath, ":/"):
		return &domain.ProtocolInfo{Type: "NFS"}
	default:
		return nil
	}
}
