package capture

import (
	"testing"
	"time"

	"github.com/google/gopacket/layers"
)

func dataSegment(seq uint32, window uint16) *layers.TCP {
	return &layers.TCP{
		SrcPort: 52000,
		DstPort: 445,
		Seq:     seq,
		Window:  window,
	}
}

func TestObserveWindowAndLength(t *testing.T) {
	tr := newTracker()

	p := tr.observe(time.Now(), 1500, "10.0.0.2", "10.0.0.10", dataSegment(1000, 65535), 100)
	if p.Length != 1500 {
		t.Fatalf("expected length 1500, got %d", p.Length)
	}
	if !p.HasWindow || p.Window != 65535 {
		t.Fatalf("expected window 65535, got %+v", p)
	}
}

func TestObserveNonTCP(t *testing.T) {
	tr := newTracker()

	p := tr.observe(time.Now(), 120, "10.0.0.2", "10.0.0.10", nil, 0)
	if p.HasWindow || p.HasRTT || p.Retransmitted() {
		t.Fatalf("non-tcp packet must carry only length and timestamp, got %+v", p)
	}
}

func TestObserveDuplicateSequenceIsRetransmission(t *testing.T) {
	tr := newTracker()
	now := time.Now()

	first := tr.observe(now, 1500, "10.0.0.2", "10.0.0.10", dataSegment(1000, 64000), 100)
	if first.Retransmission {
		t.Fatalf("first segment must not be a retransmission")
	}

	dup := tr.observe(now.Add(time.Millisecond), 1500, "10.0.0.2", "10.0.0.10", dataSegment(1000, 64000), 100)
	if !dup.Retransmission {
		t.Fatalf("duplicate sequence must be flagged as retransmission, got %+v", dup)
	}
}

func TestObserveSequenceGapIsLossHint(t *testing.T) {
	tr := newTracker()
	now := time.Now()

	tr.observe(now, 1500, "10.0.0.2", "10.0.0.10", dataSegment(1000, 64000), 100)
	gap := tr.observe(now.Add(time.Millisecond), 1500, "10.0.0.2", "10.0.0.10", dataSegment(2000, 64000), 100)
	if !gap.LossHint {
		t.Fatalf("sequence gap must set the loss hint, got %+v", gap)
	}
}

func TestObserveAckEchoYieldsRTT(t *testing.T) {
	tr := newTracker()
	now := time.Now()

	tr.observe(now, 1500, "10.0.0.2", "10.0.0.10", dataSegment(1000, 64000), 100)

	ack := &layers.TCP{
		SrcPort: 445,
		DstPort: 52000,
		ACK:     true,
		Ack:     1100,
		Window:  65535,
	}
	p := tr.observe(now.Add(20*time.Millisecond), 60, "10.0.0.10", "10.0.0.2", ack, 0)
	if !p.HasRTT {
		t.Fatalf("matching ack must yield an RTT sample, got %+v", p)
	}
	if p.RTTMillis < 19.9 || p.RTTMillis > 20.1 {
		t.Fatalf("expected ~20ms RTT, got %f", p.RTTMillis)
	}

	// A second identical ack has nothing left to match.
	again := tr.observe(now.Add(30*time.Millisecond), 60, "10.0.0.10", "10.0.0.2", ack, 0)
	if again.HasRTT {
		t.Fatalf("already-confirmed segment must not produce another RTT sample")
	}
}

func TestObserveResetFlag(t *testing.T) {
	tr := newTracker()

	rst := &layers.TCP{SrcPort: 52000, DstPort: 445, RST: true, Window: 0}
	p := tr.observe(time.Now(), 60, "10.0.0.2", "10.0.0.10", rst, 0)
	if !p.TCPReset || !p.Retransmitted() {
		t.Fatalf("RST must count as a retransmission signal, got %+v", p)
	}
}
