package anomaly

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/metrics"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

// Feature column order fed to the outlier model.
var featureNames = []string{"rtt", "packet_size", "window_size"}

// Config bounds the detector. Contamination is carried for the model
// adapter; MinSamples gates full-mode detection.
type Config struct {
	MinSamples    int     `yaml:"min_samples"`
	Contamination float64 `yaml:"contamination"`

	// DegradedFactor flags a latency spike when max > factor × mean.
	DegradedFactor float64 `yaml:"degraded_factor"`
}

func (c *Config) ApplyDefaults() {
	if c.MinSamples == 0 {
		c.MinSamples = 10
	}
	if c.Contamination == 0 {
		c.Contamination = 0.1
	}
	if c.DegradedFactor == 0 {
		c.DegradedFactor = 3
	}
}

// Detector flags statistically deviant observations. With an outlier model it
// scales the feature matrix and scores every row; without one (or when the
// model is rate-limited) it falls back to a coarse latency heuristic. It
// never lets a failure escape: errors degrade to an empty result and a log
// line.
type Detector struct {
	cfg   Config
	model ports.OutlierModel
	obs   ports.Observability
}

func NewDetector(cfg Config, model ports.OutlierModel, obs ports.Observability) *Detector {
	cfg.ApplyDefaults()
	return &Detector{cfg: cfg, model: model, obs: obs}
}

// Detect returns the anomalies found in the sample set.
func (d *Detector) Detect(set metrics.SampleSet) []domain.Anomaly {
	if d.model == nil {
		return d.detectDegraded(set)
	}

	anomalies, err := d.detectFull(set)
	if err != nil {
		if errors.Is(err, ports.ErrModelRateLimited) {
			d.obs.LogInfo("outlier_model_rate_limited")
			return d.detectDegraded(set)
		}
		d.obs.LogError("anomaly_detection_failed", err)
		return nil
	}
	return anomalies
}

func (d *Detector) detectFull(set metrics.SampleSet) ([]domain.Anomaly, error) {
	rows := featureRows(set)
	if len(rows) < d.cfg.MinSamples {
		return nil, nil
	}

	means, stds := columnStats(rows)
	scaled := scaleRows(rows, means, stds)

	flags, err := d.model.FitPredict(scaled)
	if err != nil {
		return nil, err
	}
	if len(flags) != len(rows) {
		return nil, fmt.Errorf("outlier model returned %d flags for %d rows", len(flags), len(rows))
	}

	// Sample standard deviation for the reported z-scores.
	sampleStds := make([]float64, len(featureNames))
	cols := columns(rows)
	for i, col := range cols {
		if len(col) > 1 {
			sampleStds[i] = stat.StdDev(col, nil)
		}
	}

	var anomalies []domain.Anomaly
	for rowIdx, flagged := range flags {
		if !flagged {
			continue
		}
		anomalies = append(anomalies, buildAnomaly(rows[rowIdx], means, sampleStds))
	}
	return anomalies, nil
}

// detectDegraded needs only the latency samples: a single coarse anomaly is
// flagged when the maximum RTT exceeds DegradedFactor times the mean.
func (d *Detector) detectDegraded(set metrics.SampleSet) []domain.Anomaly {
	if len(set.RTT) == 0 {
		return nil
	}

	mean := stat.Mean(set.RTT, nil)
	max := set.RTT[0]
	for _, v := range set.RTT[1:] {
		if v > max {
			max = v
		}
	}
	if mean <= 0 || max <= d.cfg.DegradedFactor*mean {
		return nil
	}

	var std, z float64
	if len(set.RTT) > 1 {
		std = stat.StdDev(set.RTT, nil)
	}
	if std != 0 {
		z = (max - mean) / std
	}

	return []domain.Anomaly{{
		Timestamp: time.Now().UTC(),
		Severity:  severityFromZ(math.Abs(z)),
		Features: map[string]domain.FeatureStat{
			"rtt": {
				Value:               max,
				Mean:                mean,
				Std:                 std,
				ZScore:              z,
				DeviationPercentage: deviationPct(max, mean),
			},
		},
		Description: fmt.Sprintf("Latency spike detected: max RTT %.2fms exceeds %.1fx mean (%.2fms)", max, d.cfg.DegradedFactor, mean),
	}}
}

func buildAnomaly(row, means, stds []float64) domain.Anomaly {
	features := make(map[string]domain.FeatureStat, len(featureNames))

	var (
		maxAbsZ      float64
		mostDeviant  string
		deviantStat  domain.FeatureStat
	)
	for i, name := range featureNames {
		var z float64
		if stds[i] != 0 {
			z = (row[i] - means[i]) / stds[i]
		}
		fs := domain.FeatureStat{
			Value:               row[i],
			Mean:                means[i],
			Std:                 stds[i],
			ZScore:              z,
			DeviationPercentage: deviationPct(row[i], means[i]),
		}
		features[name] = fs
		if abs := math.Abs(z); abs >= maxAbsZ {
			maxAbsZ = abs
			mostDeviant = name
			deviantStat = fs
		}
	}

	return domain.Anomaly{
		Timestamp: time.Now().UTC(),
		Features:  features,
		Severity:  severityFromZ(maxAbsZ),
		Description: fmt.Sprintf("Anomalous %s detected: %.2f (%.1f%% deviation from mean)",
			mostDeviant, deviantStat.Value, deviantStat.DeviationPercentage),
	}
}

// severityFromZ maps the maximum absolute z-score to a severity tier.
func severityFromZ(z float64) domain.Severity {
	switch {
	case z > 3:
		return domain.SeverityHigh
	case z > 2:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func deviationPct(value, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return math.Abs((value - mean) / mean * 100)
}

// featureRows aligns the three sample sequences into observation rows. The
// sequences grow at different rates (not every packet carries every field),
// so rows stop at the shortest sequence.
func featureRows(set metrics.SampleSet) [][]float64 {
	n := len(set.RTT)
	if len(set.PacketSizes) < n {
		n = len(set.PacketSizes)
	}
	if len(set.WindowSizes) < n {
		n = len(set.WindowSizes)
	}

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = []float64{set.RTT[i], set.PacketSizes[i], set.WindowSizes[i]}
	}
	return rows
}

func columns(rows [][]float64) [][]float64 {
	cols := make([][]float64, len(featureNames))
	for i := range cols {
		cols[i] = make([]float64, len(rows))
		for j, row := range rows {
			cols[i][j] = row[i]
		}
	}
	return cols
}

// columnStats returns per-feature mean and population standard deviation,
// matching a standard zero-mean unit-variance scaler.
func columnStats(rows [][]float64) (means, stds []float64) {
	cols := columns(rows)
	means = make([]float64, len(cols))
	stds = make([]float64, len(cols))
	for i, col := range cols {
		means[i] = stat.Mean(col, nil)
		stds[i] = stat.PopStdDev(col, nil)
	}
	return means, stds
}

func scaleRows(rows [][]float64, means, stds []float64) [][]float64 {
	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		s := make([]float64, len(row))
		for j, v := range row {
			if stds[j] != 0 {
				s[j] = (v - means[j]) / stds[j]
			}
		}
		scaled[i] = s
	}
	return scaled
}
