package metrics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
)

// Compute derives a statistics snapshot from a sample set. It is a pure
// function: every field of an empty set maps to zero, rates guard the
// zero-denominator case, and calling it twice on the same set yields
// identical snapshots apart from the timestamp.
func Compute(set SampleSet) domain.Snapshot {
	snap := domain.Snapshot{
		Timestamp:       time.Now().UTC(),
		RTT:             rangeStats(set.RTT, true),
		PacketSize:      rangeStats(set.PacketSizes, true),
		WindowSize:      rangeStats(set.WindowSizes, false),
		Retransmissions: set.Retransmissions,
		PacketLossCount: set.PacketLossCount,
		TotalPackets:    set.TotalPackets,
		RTTSamples:      len(set.RTT),
	}

	if set.TotalPackets > 0 {
		snap.RetransmissionRate = float64(set.Retransmissions) / float64(set.TotalPackets) * 100
		snap.PacketLossRate = float64(set.PacketLossCount) / float64(set.TotalPackets) * 100
	}
	if len(set.RTT) > 1 {
		snap.RTTVariance = stat.PopVariance(set.RTT, nil)
	}
	return snap
}

func rangeStats(samples []float64, withMedian bool) domain.RangeStats {
	if len(samples) == 0 {
		return domain.RangeStats{}
	}

	rs := domain.RangeStats{
		Min: floats.Min(samples),
		Max: floats.Max(samples),
		Avg: stat.Mean(samples, nil),
	}
	if withMedian {
		rs.Median = median(samples)
	}
	return rs
}

// median uses the standard definition: the mean of the two middle values for
// even-length sequences.
func median(samples []float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
