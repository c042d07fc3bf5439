package anomaly

import (
	"errors"
	"testing"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/metrics"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

type stubObs struct {
	errored  []string
	infos    []string
}

func (s *stubObs) LogInfo(msg string, _ ...ports.Field) { s.infos = append(s.infos, msg) }
func (s *stubObs) LogError(msg string, _ error, _ ...ports.Field) {
	s.errored = append(s.errored, msg)
}
func (s *stubObs) LogCritical(msg string, _ error, _ ...ports.Field) {}
func (s *stubObs) IncCounter(string, float64)                       {}
func (s *stubObs) ObserveLatency(string, float64)                   {}
func (s *stubObs) SetGauge(string, float64)                         {}

type stubModel struct {
	flags []bool
	err   error
	rows  [][]float64
}

func (m *stubModel) FitPredict(rows [][]float64) ([]bool, error) {
	m.rows = rows
	if m.err != nil {
		return nil, m.err
	}
	if m.flags != nil {
		return m.flags, nil
	}
	return make([]bool, len(rows)), nil
}

func repeated(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestDegradedModeFlagsLatencySpike(t *testing.T) {
	d := NewDetector(Config{}, nil, &stubObs{})

	anomalies := d.Detect(metrics.SampleSet{RTT: []float64{10, 10, 10, 100}})
	if len(anomalies) != 1 {
		t.Fatalf("expected one anomaly for max 100 > 3x mean 32.5, got %+v", anomalies)
	}
	fs, ok := anomalies[0].Features["rtt"]
	if !ok {
		t.Fatalf("degraded anomaly must carry the rtt feature: %+v", anomalies[0])
	}
	if fs.Value != 100 || fs.Mean != 32.5 {
		t.Fatalf("unexpected feature stat: %+v", fs)
	}
}

func TestDegradedModeQuietLatency(t *testing.T) {
	d := NewDetector(Config{}, nil, &stubObs{})

	if anomalies := d.Detect(metrics.SampleSet{RTT: []float64{10, 11, 9, 10}}); len(anomalies) != 0 {
		t.Fatalf("expected no anomalies for steady latency, got %+v", anomalies)
	}
	if anomalies := d.Detect(metrics.SampleSet{}); len(anomalies) != 0 {
		t.Fatalf("expected no anomalies for empty set, got %+v", anomalies)
	}
}

func TestFullModeRequiresMinimumSamples(t *testing.T) {
	model := &stubModel{}
	d := NewDetector(Config{}, model, &stubObs{})

	set := metrics.SampleSet{
		RTT:         repeated(10, 5),
		PacketSizes: repeated(1500, 5),
		WindowSizes: repeated(65535, 5),
	}
	if anomalies := d.Detect(set); len(anomalies) != 0 {
		t.Fatalf("expected empty result below min samples, got %+v", anomalies)
	}
	if model.rows != nil {
		t.Fatalf("model must not be consulted below min samples")
	}
}

func TestFullModeFlagsOutlierRowsWithSeverity(t *testing.T) {
	flags := make([]bool, 12)
	flags[11] = true
	model := &stubModel{flags: flags}
	d := NewDetector(Config{}, model, &stubObs{})

	set := metrics.SampleSet{
		RTT:         append(repeated(10, 11), 500),
		PacketSizes: append(repeated(1400, 11), 1400),
		WindowSizes: append(repeated(65535, 11), 65535),
	}

	anomalies := d.Detect(set)
	if len(anomalies) != 1 {
		t.Fatalf("expected one anomaly, got %+v", anomalies)
	}

	a := anomalies[0]
	if a.Severity != domain.SeverityHigh {
		t.Fatalf("rtt z-score is far above 3, expected high severity, got %s", a.Severity)
	}
	if len(a.Features) != 3 {
		t.Fatalf("expected all three features reported, got %+v", a.Features)
	}
	if a.Features["packet_size"].ZScore != 0 {
		t.Fatalf("constant feature must have zero z-score, got %+v", a.Features["packet_size"])
	}

	// Model input is scaled to zero mean; constant columns stay at zero.
	for _, row := range model.rows {
		if row[1] != 0 || row[2] != 0 {
			t.Fatalf("expected constant columns scaled to 0, got %v", row)
		}
	}
}

func TestRateLimitedModelFallsBackToDegraded(t *testing.T) {
	model := &stubModel{err: ports.ErrModelRateLimited}
	obs := &stubObs{}
	d := NewDetector(Config{}, model, obs)

	set := metrics.SampleSet{
		RTT:         append(repeated(10, 11), 100),
		PacketSizes: repeated(1400, 12),
		WindowSizes: repeated(65535, 12),
	}

	anomalies := d.Detect(set)
	if len(anomalies) != 1 {
		t.Fatalf("expected degraded-mode anomaly on rate limit, got %+v", anomalies)
	}
	if len(obs.infos) == 0 {
		t.Fatalf("rate limit must be logged")
	}
}

func TestModelFailureDegradesToEmpty(t *testing.T) {
	model := &stubModel{err: errors.New("model exploded")}
	obs := &stubObs{}
	d := NewDetector(Config{}, model, obs)

	set := metrics.SampleSet{
		RTT:         repeated(10, 12),
		PacketSizes: repeated(1400, 12),
		WindowSizes: repeated(65535, 12),
	}

	if anomalies := d.Detect(set); len(anomalies) != 0 {
		t.Fatalf("internal failure must yield empty list, got %+v", anomalies)
	}
	if len(obs.errored) != 1 {
		t.Fatalf("failure must be logged, got %v", obs.errored)
	}
}
