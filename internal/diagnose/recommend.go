package diagnose

import (
	"fmt"
	"time"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
)

// Targets hold the optimal settings the recommender steers toward.
type Targets struct {
	WindowSizeBytes    float64 `yaml:"window_size_bytes"`
	InterfaceSpeedMbps int     `yaml:"interface_speed_mbps"`
	PacketSizeBytes    float64 `yaml:"packet_size_bytes"`

	// RTTVarianceFactor flags unstable latency when
	// variance > factor * mean. Requires at least two samples.
	RTTVarianceFactor float64 `yaml:"rtt_variance_factor"`
}

func (t *Targets) ApplyDefaults() {
	if t.WindowSizeBytes == 0 {
		t.WindowSizeBytes = 65535
	}
	if t.InterfaceSpeedMbps == 0 {
		t.InterfaceSpeedMbps = 1000
	}
	if t.PacketSizeBytes == 0 {
		t.PacketSizeBytes = 1000
	}
	if t.RTTVarianceFactor == 0 {
		t.RTTVarianceFactor = 0.5
	}
}

// Recommender maps statistics and facts to tuning recommendations. It runs
// independently of the issue detector over the same inputs, with a disjoint
// rule set.
type Recommender struct {
	targets Targets
}

func NewRecommender(t Targets) *Recommender {
	t.ApplyDefaults()
	return &Recommender{targets: t}
}

// Recommend runs every rule; each triggered rule contributes one
// recommendation. Missing inputs skip their rules.
func (r *Recommender) Recommend(snap domain.Snapshot, facts *domain.NetworkFacts, proto *domain.ProtocolInfo) []domain.Recommendation {
	var recs []domain.Recommendation

	recs = r.windowTuning(recs, snap)
	recs = r.latencyStability(recs, snap)
	recs = r.packetCoalescing(recs, snap)
	if facts != nil {
		recs = r.interfaceSpeed(recs, facts)
	}
	if proto != nil {
		recs = r.protocolTuning(recs, proto)
	}
	return recs
}

func (r *Recommender) windowTuning(recs []domain.Recommendation, snap domain.Snapshot) []domain.Recommendation {
	if snap.WindowSize.Avg == 0 || snap.WindowSize.Avg >= r.targets.WindowSizeBytes {
		return recs
	}
	return append(recs, newRecommendation(domain.PriorityMedium, "tcp_tuning",
		"Increase TCP window size",
		fmt.Sprintf("average window %.0f bytes is below the %.0f byte target", snap.WindowSize.Avg, r.targets.WindowSizeBytes),
		[]string{
			"Enable TCP window scaling",
			"Review TCP autotuning settings",
			"Check for application-level window limits",
		}))
}

// latencyStability fires when RTT variance exceeds half the mean. A single
// sample has no defined variance and never triggers.
func (r *Recommender) latencyStability(recs []domain.Recommendation, snap domain.Snapshot) []domain.Recommendation {
	if snap.RTTSamples < 2 {
		return recs
	}
	if snap.RTTVariance <= r.targets.RTTVarianceFactor*snap.RTT.Avg {
		return recs
	}
	return append(recs, newRecommendation(domain.PriorityHigh, "network_stability",
		"High RTT variance detected",
		fmt.Sprintf("rtt variance %.1f exceeds %.1f×mean (%.1f ms)", snap.RTTVariance, r.targets.RTTVarianceFactor, snap.RTT.Avg),
		[]string{
			"Implement QoS policies",
			"Consider a dedicated network path",
			"Monitor for congestion patterns",
		}))
}

func (r *Recommender) packetCoalescing(recs []domain.Recommendation, snap domain.Snapshot) []domain.Recommendation {
	if snap.PacketSize.Avg == 0 || snap.PacketSize.Avg >= r.targets.PacketSizeBytes {
		return recs
	}
	return append(recs, newRecommendation(domain.PriorityMedium, "protocol_optimization",
		"Suboptimal packet sizes detected",
		fmt.Sprintf("average packet size %.0f bytes suggests poor coalescing", snap.PacketSize.Avg),
		[]string{
			"Enable packet coalescing",
			"Review application write patterns",
			"Consider write buffering",
		}))
}

func (r *Recommender) interfaceSpeed(recs []domain.Recommendation, facts *domain.NetworkFacts) []domain.Recommendation {
	for _, iface := range facts.Interfaces {
		if !iface.Up || iface.SpeedMbps == 0 {
			continue
		}
		if iface.SpeedMbps < r.targets.InterfaceSpeedMbps {
			recs = append(recs, newRecommendation(domain.PriorityMedium, "hardware",
				fmt.Sprintf("Slow network interface detected: %s", iface.Name),
				fmt.Sprintf("link speed %d Mbps is below %d Mbps", iface.SpeedMbps, r.targets.InterfaceSpeedMbps),
				[]string{
					"Upgrade the interface to gigabit or better",
					"Check cable category rating",
					"Verify switch port speed",
				}))
		}
	}
	return recs
}

func (r *Recommender) protocolTuning(recs []domain.Recommendation, proto *domain.ProtocolInfo) []domain.Recommendation {
	switch proto.Type {
	case "SMB":
		recs = append(recs, newRecommendation(domain.PriorityLow, "protocol",
			"Enable SMB multichannel",
			"multichannel aggregates links and improves throughput on Gigabit+ networks",
			[]string{"Verify server and client multichannel support"}))
	case "NFS":
		recs = append(recs, newRecommendation(domain.PriorityLow, "protocol",
			"Review NFS rsize/wsize mount options",
			"larger transfer sizes reduce per-operation overhead on stable links",
			[]string{"Benchmark rsize/wsize of 1M on modern kernels"}))
	}
	return recs
}

func newRecommendation(prio domain.Priority, category, description, rationale string, actions []string) domain.Recommendation {
	return domain.Recommendation{
		Timestamp:   time.Now().UTC(),
		Priority:    prio,
		Category:    category,
		Description: description,
		Rationale:   rationale,
		Actions:     actions,
	}
}
