package observability

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	packets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shareanalyzer_packets_captured_total",
		Help: "Total packets decoded from the capture source.",
	})
	issues := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shareanalyzer_issues_detected_total",
		Help: "Total issues flagged by the rule checks.",
	})
	anomalies := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shareanalyzer_anomalies_detected_total",
		Help: "Total statistical anomalies reported.",
	})
	reports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shareanalyzer_reports_written_total",
		Help: "Reports successfully delivered to a sink.",
	})
	captureActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shareanalyzer_capture_active",
		Help: "1 while a capture window is open, 0 otherwise.",
	})
	rttSamples := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shareanalyzer_rtt_samples",
		Help: "RTT samples accumulated in the current window.",
	})
	retransRate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shareanalyzer_retransmission_rate",
		Help: "Retransmission rate of the latest snapshot, in percent.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shareanalyzer_analysis_duration_seconds",
		Help:    "Wall time of a full analysis pass, capture excluded.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	prometheus.MustRegister(packets, issues, anomalies, reports, captureActive, rttSamples, retransRate, latency)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"shareanalyzer_packets_captured_total":   packets,
			"shareanalyzer_issues_detected_total":    issues,
			"shareanalyzer_anomalies_detected_total": anomalies,
			"shareanalyzer_reports_written_total":    reports,
		},
		gauges: map[string]prometheus.Gauge{
			"shareanalyzer_capture_active":      captureActive,
			"shareanalyzer_rtt_samples":         rttSamples,
			"shareanalyzer_retransmission_rate": retransRate,
		},
		histos: map[string]prometheus.Observer{
			"shareanalyzer_analysis_duration_seconds": latency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v", msg, err)
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v", msg, err)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

var _ ports.Observability = (*PromObs)(nil)
