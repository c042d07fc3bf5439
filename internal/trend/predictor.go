package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

// Config bounds the trend window and the narrative call.
type Config struct {
	HorizonMinutes  int           `yaml:"horizon_minutes"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.HorizonMinutes == 0 {
		c.HorizonMinutes = 30
	}
	if c.GenerateTimeout == 0 {
		c.GenerateTimeout = 15 * time.Second
	}
}

type point struct {
	at   time.Time
	snap domain.Snapshot
}

// Predictor keeps a bounded history of statistics snapshots and computes
// percentage-change trends across it. The window is pruned on every append
// so it only ever spans the configured horizon.
type Predictor struct {
	cfg Config
	gen ports.TextGenerator
	obs ports.Observability

	mu     sync.Mutex
	window []point

	now func() time.Time
}

func NewPredictor(cfg Config, gen ports.TextGenerator, obs ports.Observability) *Predictor {
	cfg.ApplyDefaults()
	return &Predictor{cfg: cfg, gen: gen, obs: obs, now: time.Now}
}

// RecordSnapshot appends a timestamped snapshot and prunes entries older than
// the horizon.
func (p *Predictor) RecordSnapshot(snap domain.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.window = append(p.window, point{at: now, snap: snap})

	cutoff := now.Add(-time.Duration(p.cfg.HorizonMinutes) * time.Minute)
	keep := 0
	for keep < len(p.window) && p.window[keep].at.Before(cutoff) {
		keep++
	}
	p.window = p.window[keep:]
}

// Trends computes (last-first)/first*100 per tracked metric across the
// current window. Fewer than two snapshots is insufficient data, not an
// error: the summary is zero apart from the sample count.
func (p *Predictor) Trends() domain.TrendSummary {
	p.mu.Lock()
	defer p.mu.Unlock()

	summary := domain.TrendSummary{Samples: len(p.window)}
	if len(p.window) < 2 {
		return summary
	}

	first := p.window[0].snap
	last := p.window[len(p.window)-1].snap

	summary.RTT = pctChange(first.RTT.Avg, last.RTT.Avg)
	summary.PacketSize = pctChange(first.PacketSize.Avg, last.PacketSize.Avg)
	summary.Retransmission = pctChange(float64(first.Retransmissions), float64(last.Retransmissions))
	summary.WindowSize = pctChange(first.WindowSize.Avg, last.WindowSize.Avg)
	return summary
}

// Predict forwards the trend summary to the narrative generator and parses
// its structured response. Every failure path yields a usable Prediction
// with Message set; nothing propagates to the caller.
func (p *Predictor) Predict(ctx context.Context) *domain.Prediction {
	trends := p.Trends()
	pred := &domain.Prediction{Timestamp: time.Now().UTC()}

	if p.gen == nil {
		pred.Message = "no narrative generator configured"
		return pred
	}
	if trends.Samples < 2 {
		pred.Message = "insufficient trend history for prediction"
		return pred
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.GenerateTimeout)
	defer cancel()

	raw, err := p.gen.Generate(ctx, buildPrompt(trends))
	if err != nil {
		p.obs.LogError("trend_prediction_failed", err)
		pred.Message = fmt.Sprintf("prediction unavailable: %v", err)
		return pred
	}

	parsePrediction(raw, pred)
	return pred
}

func buildPrompt(t domain.TrendSummary) string {
	var b strings.Builder
	b.WriteString("Analyze the following network performance trends and predict likely issues and recommendations:\n")
	b.WriteString("Performance Trends:\n")
	fmt.Fprintf(&b, "- RTT: %.1f%% change\n", t.RTT)
	fmt.Fprintf(&b, "- Packet Size: %.1f%% change\n", t.PacketSize)
	fmt.Fprintf(&b, "- Retransmissions: %.1f%% change\n", t.Retransmission)
	fmt.Fprintf(&b, "- Window Size: %.1f%% change\n", t.WindowSize)
	b.WriteString("\nBased on these trends, what are the likely performance issues and recommended actions?\n")
	b.WriteString("Format the response as a JSON object with 'prediction' and 'recommendations' fields.")
	return b.String()
}

// parsePrediction accepts the structured JSON contract; a response that is
// not valid JSON is kept verbatim as the prediction text.
func parsePrediction(raw string, pred *domain.Prediction) {
	var parsed struct {
		Prediction      string   `json:"prediction"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil && parsed.Prediction != "" {
		pred.Prediction = parsed.Prediction
		pred.Recommendations = parsed.Recommendations
		return
	}
	pred.Prediction = strings.TrimSpace(raw)
}

func pctChange(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}
