package domain

import "time"

// Packet is one decoded observation handed to the sampler by a collector.
// Optional fields carry an explicit presence flag instead of being probed
// dynamically, so the ingestion contract is visible at the type level.
type Packet struct {
	Timestamp time.Time
	Length    int // total frame length in bytes

	Window    int // TCP receive window in bytes
	HasWindow bool

	RTTMillis float64 // round-trip estimate for this segment
	HasRTT    bool

	// Either signal marks the segment as retransmitted; collectors may
	// supply one, both, or neither.
	Retransmission bool
	TCPReset       bool

	// LossHint is set when the collector observed a sequence gap.
	LossHint bool
}

// Retransmitted reports whether any retransmission signal is present.
func (p *Packet) Retransmitted() bool {
	return p.Retransmission || p.TCPReset
}
