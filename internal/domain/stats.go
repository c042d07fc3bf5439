package domain

import "time"

// RangeStats summarizes one sample sequence.
type RangeStats struct {
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Avg    float64 `json:"avg" yaml:"avg"`
	Median float64 `json:"median,omitempty" yaml:"median,omitempty"`
}

// Snapshot is a point-in-time view of the collected metrics. It is created
// fresh on every compute call and never mutated afterwards, so it is safe to
// share across the detector passes without additional locking.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	RTT        RangeStats `json:"rtt"`
	PacketSize RangeStats `json:"packet_size"`
	WindowSize RangeStats `json:"window_size"`

	// Rates are percentages in [0, 100]; zero when no packets were seen.
	RetransmissionRate float64 `json:"retransmission_rate"`
	PacketLossRate     float64 `json:"packet_loss_rate"`

	Retransmissions int `json:"retransmissions"`
	PacketLossCount int `json:"packet_loss_count"`
	TotalPackets    int `json:"total_packets"`

	// RTTVariance feeds the latency-stability recommendation rule;
	// zero when fewer than two samples exist.
	RTTVariance float64 `json:"rtt_variance"`
	RTTSamples  int     `json:"rtt_samples"`
}
