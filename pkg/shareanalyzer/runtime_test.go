package shareanalyzer

import (
	"context"
	"testing"
	"time"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		SharePath: "//server/share",
		Capture:   CaptureConfig{Interface: "eth0"},
		Output:    OutputConfig{Dir: t.TempDir()},
		Metrics:   MetricsConfig{Addr: ":0"},
		Analysis:  AnalysisConfig{CaptureWindow: 50 * time.Millisecond, Interval: time.Hour},
	}
}

func TestNewRuntimeWithCustomAdapters(t *testing.T) {
	cfg := testConfig(t)

	col := &stubCollector{}
	snk := &stubSink{}
	obs := &stubObservability{}

	rt, err := NewRuntime(
		cfg,
		WithCollector(col),
		WithSink(snk),
		WithObservability(obs),
	)
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}

	if rt.collector != col {
		t.Fatalf("expected custom collector to be used")
	}
	if len(rt.sinks) != 1 || rt.sinks[0] != snk {
		t.Fatalf("expected custom sink to be used, got %v", rt.sinks)
	}
	if rt.obs != obs {
		t.Fatalf("expected custom observability to be used")
	}
	if rt.db != nil {
		t.Fatalf("expected db to be nil when custom sinks are provided")
	}
}

func TestRuntimeAnalyze(t *testing.T) {
	cfg := testConfig(t)

	now := time.Now()
	col := &stubCollector{packets: []*Packet{
		{Timestamp: now, Length: 1200, RTTMillis: 20, HasRTT: true},
		{Timestamp: now, Length: 1300, RTTMillis: 25, HasRTT: true},
	}}
	snk := &stubSink{}

	rt, err := NewRuntime(cfg,
		WithCollector(col),
		WithFactsProvider(&stubFacts{}),
		WithSink(snk),
		WithObservability(&stubObservability{}),
	)
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}

	report, err := rt.Analyze(context.Background(), 0)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if report.Metrics.TotalPackets != 2 {
		t.Fatalf("expected 2 packets in report, got %d", report.Metrics.TotalPackets)
	}
	if report.SharePath != "//server/share" {
		t.Fatalf("unexpected share path %q", report.SharePath)
	}
	if len(snk.reports) != 1 {
		t.Fatalf("expected report delivered to sink, got %d", len(snk.reports))
	}
}

func TestRuntimeRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)

	rt, err := NewRuntime(cfg,
		WithCollector(&stubCollector{}),
		WithFactsProvider(&stubFacts{}),
		WithSink(&stubSink{}),
		WithObservability(&stubObservability{}),
	)
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestNewRuntimeNilConfig(t *testing.T) {
	if _, err := NewRuntime(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

type stubCollector struct {
	packets []*Packet
}

func (s *stubCollector) Start(ctx context.Context, out chan<- *Packet) error {
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

func (s *stubCollector) Stop() error { return nil }

type stubSink struct {
	reports []*Report
}

func (s *stubSink) WriteReport(r *Report) error {
	s.reports = append(s.reports, r)
	return nil
}

func (s *stubSink) Name() string { return "stub" }

type stubFacts struct{}

func (s *stubFacts) Facts(context.Context) (*NetworkFacts, error) {
	return &NetworkFacts{RouteTable: "default via 10.0.0.1 dev eth0"}, nil
}

type stubObservability struct{}

func (s *stubObservability) LogInfo(string, ...Field)            {}
func (s *stubObservability) LogError(string, error, ...Field)    {}
func (s *stubObservability) LogCritical(string, error, ...Field) {}
func (s *stubObservability) IncCounter(string, float64)          {}
func (s *stubObservability) ObserveLatency(string, float64)      {}
func (s *stubObservability) SetGauge(string, float64)            {}
