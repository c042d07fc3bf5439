package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uforiaio/network-share-test-helper/internal/anomaly"
	"github.com/uforiaio/network-share-test-helper/internal/diagnose"
	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
	"github.com/uforiaio/network-share-test-helper/internal/trend"
)

type stubCollector struct {
	packets []*domain.Packet
	started bool
	stopped bool
	err     error
}

func (s *stubCollector) Start(ctx context.Context, out chan<- *domain.Packet) error {
	if s.err != nil {
		return s.err
	}
	s.started = true
	go func() {
		defer close(out)
		for _, p := range s.packets {
			select {
			case <-ctx.Done():
				return
			case out <- p:
			}
		}
	}()
	return nil
}

func (s *stubCollector) Stop() error {
	s.stopped = true
	return nil
}

type stubFacts struct {
	facts *domain.NetworkFacts
	err   error
}

func (s *stubFacts) Facts(context.Context) (*domain.NetworkFacts, error) {
	return s.facts, s.err
}

type stubSink struct {
	reports []*domain.Report
	err     error
}

func (s *stubSink) WriteReport(r *domain.Report) error {
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *stubSink) Name() string { return "stub" }

type recordingObs struct {
	counters map[string]float64
	errors   []string
}

func newRecordingObs() *recordingObs {
	return &recordingObs{counters: map[string]float64{}}
}

func (o *recordingObs) LogInfo(msg string, fields ...ports.Field) {}
func (o *recordingObs) LogError(msg string, err error, fields ...ports.Field) {
	o.errors = append(o.errors, msg)
}
func (o *recordingObs) LogCritical(msg string, err error, fields ...ports.Field) {
	o.errors = append(o.errors, msg)
}
func (o *recordingObs) IncCounter(name string, v float64)         { o.counters[name] += v }
func (o *recordingObs) ObserveLatency(name string, sec float64)   {}
func (o *recordingObs) SetGauge(name string, v float64)           {}

func slowPackets() []*domain.Packet {
	now := time.Now()
	return []*domain.Packet{
		{Timestamp: now, Length: 1400, RTTMillis: 120, HasRTT: true, Window: 32000, HasWindow: true},
		{Timestamp: now, Length: 1400, RTTMillis: 130, HasRTT: true, Window: 32000, HasWindow: true},
		{Timestamp: now, Length: 1400, Retransmission: true},
	}
}

func TestAnalyzeProducesReport(t *testing.T) {
	col := &stubCollector{packets: slowPackets()}
	sink := &stubSink{}
	obs := newRecordingObs()

	a, err := New(Options{
		SharePath: "//server/share",
		Collector: col,
		Facts:     &stubFacts{facts: &domain.NetworkFacts{RouteTable: "default via 10.0.0.1"}},
		Issues:    diagnose.NewDetector(diagnose.Thresholds{}),
		Recs:      diagnose.NewRecommender(diagnose.Targets{}),
		Anomalies: anomaly.NewDetector(anomaly.Config{}, nil, obs),
		Trends:    trend.NewPredictor(trend.Config{}, nil, obs),
		Sinks:     []ports.ReportSink{sink},
		Obs:       obs,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report, err := a.Analyze(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !col.started || !col.stopped {
		t.Fatalf("collector lifecycle not driven: started=%v stopped=%v", col.started, col.stopped)
	}
	if report.Metrics.TotalPackets != 3 {
		t.Fatalf("expected 3 packets in snapshot, got %d", report.Metrics.TotalPackets)
	}
	if report.SharePath != "//server/share" {
		t.Fatalf("share path lost: %q", report.SharePath)
	}

	// RTT avg 125ms is past the critical threshold.
	var critical bool
	for _, is := range report.Issues {
		if is.Severity == domain.SeverityCritical {
			critical = true
		}
	}
	if !critical {
		t.Fatalf("expected a critical latency issue, got %+v", report.Issues)
	}

	if len(sink.reports) != 1 {
		t.Fatalf("expected 1 delivered report, got %d", len(sink.reports))
	}
	if obs.counters["shareanalyzer_packets_captured_total"] != 3 {
		t.Fatalf("packet counter not incremented: %v", obs.counters)
	}
	if obs.counters["shareanalyzer_reports_written_total"] != 1 {
		t.Fatalf("report counter not incremented: %v", obs.counters)
	}
}

func TestAnalyzeStartFailure(t *testing.T) {
	col := &stubCollector{err: errors.New("no such device")}
	obs := newRecordingObs()

	a, err := New(Options{Collector: col, Obs: obs})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Analyze(context.Background(), time.Second); err == nil {
		t.Fatal("expected an error when capture cannot start")
	}
}

func TestAnalyzeSinkFailureDoesNotFailPass(t *testing.T) {
	col := &stubCollector{packets: slowPackets()}
	obs := newRecordingObs()

	a, err := New(Options{
		SharePath: "//server/share",
		Collector: col,
		Sinks:     []ports.ReportSink{&stubSink{err: errors.New("disk full")}},
		Obs:       obs,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := a.Analyze(context.Background(), time.Second); err != nil {
		t.Fatalf("Analyze must tolerate sink failures, got %v", err)
	}
	if len(obs.errors) == 0 || obs.errors[0] != "report_sink_failed" {
		t.Fatalf("sink failure not logged: %v", obs.errors)
	}
	if obs.counters["shareanalyzer_reports_written_total"] != 0 {
		t.Fatalf("failed write must not count: %v", obs.counters)
	}
}

func TestAnalyzeFactsFailureDegrades(t *testing.T) {
	col := &stubCollector{packets: slowPackets()}
	obs := newRecordingObs()

	a, err := New(Options{
		SharePath: "//server/share",
		Collector: col,
		Facts:     &stubFacts{err: errors.New("netlink down")},
		Issues:    diagnose.NewDetector(diagnose.Thresholds{}),
		Obs:       obs,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report, err := a.Analyze(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.Issues) == 0 {
		t.Fatal("metric checks must still run without facts")
	}
	found := false
	for _, msg := range obs.errors {
		if msg == "facts_collection_failed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("facts failure not logged: %v", obs.errors)
	}
}

func TestNewRequiresCollector(t *testing.T) {
	if _, err := New(Options{Obs: newRecordingObs()}); err == nil {
		t.Fatal("expected an error without a collector")
	}
}

func TestInferProtocol(t *testing.T) {
	if p := inferProtocol("//server/share"); p == nil || p.Type != "SMB" {
		t.Fatalf("expected SMB for UNC path, got %+v", p)
	}
	if p := inferProtocol(`\\server\share`); p == nil || p.Type != "SMB" {
		t.Fatalf("expected SMB for backslash UNC path, got %+v", p)
	}
	if p := inferProtocol("server:/export/data"); p == nil || p.Type != "NFS" {
		t.Fatalf("expected NFS for host:/export, got %+v", p)
	}
	if p := inferProtocol(""); p != nil {
		t.Fatalf("expected nil for empty path, got %+v", p)
	}
}
