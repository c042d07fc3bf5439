package metrics

import (
	"sync"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
)

// SampleSet holds the raw measurements of one collection window. All
// sequences and counters refer to the same window; Sampler.Reset clears them
// together so a window can never mix state with its predecessor.
type SampleSet struct {
	RTT         []float64
	PacketSizes []float64
	WindowSizes []float64

	Retransmissions int
	PacketLossCount int
	TotalPackets    int
}

// Sampler ingests decoded packets one at a time. Record is safe to call from
// the capture goroutine while Snapshot is taken from the reporting path; a
// single mutex guards the sample set and is held only across individual
// mutations and the copy.
//
// Identification fields (share path) are configuration, kept apart from the
// measurement state so Reset cannot clear them.
type Sampler struct {
	sharePath string

	mu  sync.Mutex
	set SampleSet
}

func NewSampler(sharePath string) *Sampler {
	return &Sampler{sharePath: sharePath}
}

// Record folds one packet into the sample set. Missing optional fields are
// simply not recorded; the packet still counts toward the total. Record
// never fails on partial input.
func (s *Sampler) Record(p *domain.Packet) {
	if p == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.set.TotalPackets++

	if p.Length > 0 {
		s.set.PacketSizes = append(s.set.PacketSizes, float64(p.Length))
	}
	if p.HasWindow && p.Window > 0 {
		s.set.WindowSizes = append(s.set.WindowSizes, float64(p.Window))
	}
	if p.HasRTT && p.RTTMillis > 0 {
		s.set.RTT = append(s.set.RTT, p.RTTMillis)
	}
	if p.Retransmitted() {
		s.set.Retransmissions++
	}
	if p.LossHint {
		s.set.PacketLossCount++
	}
}

// Reset atomically clears all samples and counters for the next collection
// window. Configuration is untouched.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = SampleSet{}
}

// Snapshot returns a deep copy of the current sample set. Downstream passes
// operate on the copy without holding the sampler lock.
func (s *Sampler) Snapshot() SampleSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.set
	out.RTT = append([]float64(nil), s.set.RTT...)
	out.PacketSizes = append([]float64(nil), s.set.PacketSizes...)
	out.WindowSizes = append([]float64(nil), s.set.WindowSizes...)
	return out
}

// SharePath returns the share this sampler is bound to.
func (s *Sampler) SharePath() string { return s.sharePath }
