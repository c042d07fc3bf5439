package shareanalyzer

import (
	"fmt"

	"github.com/uforiaio/network-share-test-helper/internal/adapters/iforest"
	"github.com/uforiaio/network-share-test-helper/internal/anomaly"
	"github.com/uforiaio/network-share-test-helper/internal/diagnose"
	"github.com/uforiaio/network-share-test-helper/internal/metrics"
)

// SessionConfig configures an offline analysis session.
type SessionConfig struct {
	SharePath  string
	Protocol   *ProtocolInfo
	Facts      *NetworkFacts
	Thresholds Thresholds
	Targets    Targets
	Anomaly    AnomalyConfig
	Forest     ForestConfig

	// Observability is optional; without it the session stays silent.
	Observability Observability
}

// Session runs the analysis pipeline over caller-supplied packets, for
// replaying recorded traffic or feeding packets from a custom decoder
// without a live capture.
type Session struct {
	sharePath string
	protocol  *ProtocolInfo
	facts     *NetworkFacts

	sampler   *metrics.Sampler
	issues    *diagnose.Detector
	recs      *diagnose.Recommender
	anomalies *anomaly.Detector
}

// NewSession builds a Session with the same detection stack the runtime
// uses, minus capture and trend prediction.
func NewSession(cfg *SessionConfig) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	obs := cfg.Observability
	if obs == nil {
		obs = noopObs{}
	}

	return &Session{
		sharePath: cfg.SharePath,
		protocol:  cfg.Protocol,
		facts:     cfg.Facts,
		sampler:   metrics.NewSampler(cfg.SharePath),
		issues:    diagnose.NewDetector(cfg.Thresholds),
		recs:      diagnose.NewRecommender(cfg.Targets),
		anomalies: anomaly.NewDetector(cfg.Anomaly, iforest.New(cfg.Forest), obs),
	}, nil
}

// Push folds one packet into the session.
func (s *Session) Push(p *Packet) {
	s.sampler.Record(p)
}

// Report computes the statistics and detections over everything pushed
// so far. The session keeps accumulating afterwards; call Reset to start
// a fresh window.
func (s *Session) Report() *Report {
	set := s.sampler.Snapshot()
	snap := metrics.Compute(set)

	return &Report{
		Timestamp:       snap.Timestamp,
		SharePath:       s.sharePath,
		Metrics:         snap,
		Issues:          s.issues.Detect(snap, s.facts, s.protocol),
		Recommendations: s.recs.Recommend(snap, s.facts, s.protocol),
		Anomalies:       s.anomalies.Detect(set),
	}
}

// Reset discards the accumulated packets.
func (s *Session) Reset() {
	s.sampler.Reset()
}

type noopObs struct{}

func (noopObs) LogInfo(string, ...Field)            {}
func (noopObs) LogError(string, error, ...Field)    {}
func (noopObs) LogCritical(string, error, ...Field) {}
func (noopObs) IncCounter(string, float64)          {}
func (noopObs) ObserveLatency(string, float64)      {}
func (noopObs) SetGauge(string, float64)            {}
