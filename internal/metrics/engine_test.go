package metrics

import (
	"testing"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
)

func TestComputeEmptySetIsAllZero(t *testing.T) {
	snap := Compute(SampleSet{})

	if snap.RTT != (domain.RangeStats{}) || snap.PacketSize != (domain.RangeStats{}) || snap.WindowSize != (domain.RangeStats{}) {
		t.Fatalf("expected zero range stats, got %+v", snap)
	}
	if snap.RetransmissionRate != 0 || snap.PacketLossRate != 0 {
		t.Fatalf("expected zero rates for empty set, got retrans=%f loss=%f", snap.RetransmissionRate, snap.PacketLossRate)
	}
	if snap.RTTVariance != 0 {
		t.Fatalf("expected zero variance, got %f", snap.RTTVariance)
	}
}

func TestComputeRTTAggregates(t *testing.T) {
	snap := Compute(SampleSet{RTT: []float64{100, 200}})

	if snap.RTT.Min != 100 || snap.RTT.Max != 200 || snap.RTT.Avg != 150 || snap.RTT.Median != 150 {
		t.Fatalf("unexpected rtt stats: %+v", snap.RTT)
	}
}

func TestComputeMedianOddLength(t *testing.T) {
	snap := Compute(SampleSet{RTT: []float64{30, 10, 20}})
	if snap.RTT.Median != 20 {
		t.Fatalf("expected median 20, got %f", snap.RTT.Median)
	}
}

func TestComputeRates(t *testing.T) {
	snap := Compute(SampleSet{TotalPackets: 2, Retransmissions: 1, PacketLossCount: 1})

	if snap.RetransmissionRate != 50.0 {
		t.Fatalf("expected retransmission rate 50, got %f", snap.RetransmissionRate)
	}
	if snap.PacketLossRate != 50.0 {
		t.Fatalf("expected packet loss rate 50, got %f", snap.PacketLossRate)
	}
}

func TestComputeRatesStayInRange(t *testing.T) {
	cases := []SampleSet{
		{},
		{TotalPackets: 10},
		{TotalPackets: 10, Retransmissions: 10, PacketLossCount: 10},
		{TotalPackets: 1, Retransmissions: 1},
	}
	for _, set := range cases {
		snap := Compute(set)
		if snap.RetransmissionRate < 0 || snap.RetransmissionRate > 100 {
			t.Fatalf("retransmission rate out of range for %+v: %f", set, snap.RetransmissionRate)
		}
		if snap.PacketLossRate < 0 || snap.PacketLossRate > 100 {
			t.Fatalf("loss rate out of range for %+v: %f", set, snap.PacketLossRate)
		}
	}
}

func TestComputeIsPure(t *testing.T) {
	set := SampleSet{
		RTT:          []float64{10, 20, 30},
		PacketSizes:  []float64{100, 1500},
		WindowSizes:  []float64{8192, 65535},
		TotalPackets: 5,
	}

	a := Compute(set)
	b := Compute(set)
	a.Timestamp = b.Timestamp
	if a != b {
		t.Fatalf("two computes over the same set differ: %+v vs %+v", a, b)
	}
}

func TestComputeSingleSampleVarianceIsZero(t *testing.T) {
	snap := Compute(SampleSet{RTT: []float64{42}})
	if snap.RTTVariance != 0 {
		t.Fatalf("variance of one sample must be 0, got %f", snap.RTTVariance)
	}
	if snap.RTTSamples != 1 {
		t.Fatalf("expected 1 rtt sample, got %d", snap.RTTSamples)
	}
}
