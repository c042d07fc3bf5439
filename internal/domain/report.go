package domain

import "time"

// Severity ranks detected issues.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Category classifies issues by the subsystem they point at.
type Category string

const (
	CategoryPerformance   Category = "performance"
	CategoryReliability   Category = "reliability"
	CategoryConfiguration Category = "configuration"
	CategoryConnectivity  Category = "connectivity"
	CategorySecurity      Category = "security"
)

// Priority ranks recommendations.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Issue is one triggered detector check. Issues are append-only values;
// consumers display them and never mutate them.
type Issue struct {
	Timestamp time.Time          `json:"timestamp"`
	Severity  Severity           `json:"severity"`
	Category  Category           `json:"category"`
	Message   string             `json:"message"`
	Details   map[string]float64 `json:"details,omitempty"`
}

// Recommendation is one actionable tuning suggestion.
type Recommendation struct {
	Timestamp   time.Time `json:"timestamp"`
	Priority    Priority  `json:"priority"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Rationale   string    `json:"rationale"`
	Actions     []string  `json:"actions,omitempty"`
}

// FeatureStat describes how far one feature of an anomalous observation sits
// from the sample mean.
type FeatureStat struct {
	Value               float64 `json:"value"`
	Mean                float64 `json:"mean"`
	Std                 float64 `json:"std"`
	ZScore              float64 `json:"z_score"`
	DeviationPercentage float64 `json:"deviation_percentage"`
}

// Anomaly is one observation flagged by the outlier model or the degraded
// latency heuristic.
type Anomaly struct {
	Timestamp   time.Time              `json:"timestamp"`
	Features    map[string]FeatureStat `json:"features"`
	Severity    Severity               `json:"severity"`
	Description string                 `json:"description"`
}

// TrendSummary holds percentage changes across the trend window.
type TrendSummary struct {
	RTT            float64 `json:"rtt_trend"`
	PacketSize     float64 `json:"packet_size_trend"`
	Retransmission float64 `json:"retransmission_trend"`
	WindowSize     float64 `json:"window_size_trend"`
	Samples        int     `json:"samples"`
}

// Prediction is the parsed response from the narrative generator. A failed or
// absent generator yields an empty Prediction with Message set.
type Prediction struct {
	Timestamp       time.Time `json:"timestamp"`
	Prediction      string    `json:"prediction"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Message         string    `json:"message,omitempty"`
}

// Report aggregates one analysis run.
type Report struct {
	Timestamp       time.Time        `json:"timestamp"`
	SharePath       string           `json:"share_path,omitempty"`
	Metrics         Snapshot         `json:"metrics"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
	Anomalies       []Anomaly        `json:"anomalies"`
	Trends          TrendSummary     `json:"trends"`
	Prediction      *Prediction      `json:"prediction,omitempty"`
}
