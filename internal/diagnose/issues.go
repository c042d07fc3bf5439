package diagnose

import (
	"fmt"
	"strings"
	"time"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
)

// Thresholds is the single source of truth for issue detection. Zero values
// are filled by ApplyDefaults so yaml configs only override what they need.
type Thresholds struct {
	RTTWarningMillis  float64 `yaml:"rtt_warning_ms"`
	RTTCriticalMillis float64 `yaml:"rtt_critical_ms"`

	PacketLossWarningPct  float64 `yaml:"packet_loss_warning"`
	PacketLossCriticalPct float64 `yaml:"packet_loss_critical"`

	RetransmissionWarningPct  float64 `yaml:"retransmission_warning"`
	RetransmissionCriticalPct float64 `yaml:"retransmission_critical"`

	WindowSizeMinBytes float64 `yaml:"window_size_min"`
	MTUMinBytes        int     `yaml:"mtu_min"`
}

func (t *Thresholds) ApplyDefaults() {
	if t.RTTWarningMillis == 0 {
		t.RTTWarningMillis = 50
	}
	if t.RTTCriticalMillis == 0 {
		t.RTTCriticalMillis = 100
	}
	if t.PacketLossWarningPct == 0 {
		t.PacketLossWarningPct = 0.1
	}
	if t.PacketLossCriticalPct == 0 {
		t.PacketLossCriticalPct = 1.0
	}
	if t.RetransmissionWarningPct == 0 {
		t.RetransmissionWarningPct = 1.0
	}
	if t.RetransmissionCriticalPct == 0 {
		t.RetransmissionCriticalPct = 5.0
	}
	if t.WindowSizeMinBytes == 0 {
		t.WindowSizeMinBytes = 65535
	}
	if t.MTUMinBytes == 0 {
		t.MTUMinBytes = 1400
	}
}

// Detector evaluates one snapshot plus static facts against the thresholds.
// It holds no state between passes; every call returns a fresh issue list.
type Detector struct {
	thresholds Thresholds
}

func NewDetector(t Thresholds) *Detector {
	t.ApplyDefaults()
	return &Detector{thresholds: t}
}

// Detect runs every check and appends one issue per triggered check. Checks
// are independent: there is no deduplication and no early exit. facts and
// proto may be nil; their checks are skipped rather than failed.
func (d *Detector) Detect(snap domain.Snapshot, facts *domain.NetworkFacts, proto *domain.ProtocolInfo) []domain.Issue {
	var issues []domain.Issue

	issues = d.checkLatency(issues, snap)
	issues = d.checkPacketLoss(issues, snap)
	issues = d.checkRetransmissions(issues, snap)
	issues = d.checkWindowSizes(issues, snap)
	if facts != nil {
		issues = d.checkMTU(issues, facts)
		issues = d.checkDNS(issues, facts)
		issues = d.checkRouting(issues, facts)
	}
	if proto != nil {
		issues = d.checkProtocol(issues, proto)
	}
	return issues
}

func (d *Detector) checkLatency(issues []domain.Issue, snap domain.Snapshot) []domain.Issue {
	if snap.RTTSamples == 0 {
		return issues
	}

	avg := snap.RTT.Avg
	switch {
	case avg > d.thresholds.RTTCriticalMillis:
		return append(issues, newIssue(domain.SeverityCritical, domain.CategoryPerformance,
			"High network latency detected",
			map[string]float64{"avg_rtt_ms": avg, "threshold_ms": d.thresholds.RTTCriticalMillis}))
	case avg > d.thresholds.RTTWarningMillis:
		return append(issues, newIssue(domain.SeverityMedium, domain.CategoryPerformance,
			"Elevated network latency detected",
			map[string]float64{"avg_rtt_ms": avg, "threshold_ms": d.thresholds.RTTWarningMillis}))
	}
	return issues
}

func (d *Detector) checkPacketLoss(issues []domain.Issue, snap domain.Snapshot) []domain.Issue {
	rate := snap.PacketLossRate
	switch {
	case rate > d.thresholds.PacketLossCriticalPct:
		return append(issues, newIssue(domain.SeverityCritical, domain.CategoryReliability,
			"Severe packet loss detected",
			map[string]float64{"loss_rate_pct": rate, "threshold_pct": d.thresholds.PacketLossCriticalPct}))
	case rate > d.thresholds.PacketLossWarningPct:
		return append(issues, newIssue(domain.SeverityMedium, domain.CategoryReliability,
			"Packet loss detected",
			map[string]float64{"loss_rate_pct": rate, "threshold_pct": d.thresholds.PacketLossWarningPct}))
	}
	return issues
}

func (d *Detector) checkRetransmissions(issues []domain.Issue, snap domain.Snapshot) []domain.Issue {
	rate := snap.RetransmissionRate
	switch {
	case rate > d.thresholds.RetransmissionCriticalPct:
		return append(issues, newIssue(domain.SeverityCritical, domain.CategoryReliability,
			"High retransmission rate detected",
			map[string]float64{"retransmission_rate_pct": rate, "threshold_pct": d.thresholds.RetransmissionCriticalPct}))
	case rate > d.thresholds.RetransmissionWarningPct:
		return append(issues, newIssue(domain.SeverityMedium, domain.CategoryReliability,
			"Elevated retransmission rate",
			map[string]float64{"retransmission_rate_pct": rate, "threshold_pct": d.thresholds.RetransmissionWarningPct}))
	}
	return issues
}

func (d *Detector) checkWindowSizes(issues []domain.Issue, snap domain.Snapshot) []domain.Issue {
	if snap.WindowSize.Avg == 0 {
		return issues
	}
	if snap.WindowSize.Avg < d.thresholds.WindowSizeMinBytes {
		return append(issues, newIssue(domain.SeverityMedium, domain.CategoryPerformance,
			"Suboptimal TCP window size",
			map[string]float64{"avg_window_bytes": snap.WindowSize.Avg, "recommended_bytes": d.thresholds.WindowSizeMinBytes}))
	}
	return issues
}

func (d *Detector) checkMTU(issues []domain.Issue, facts *domain.NetworkFacts) []domain.Issue {
	for _, iface := range facts.Interfaces {
		if !iface.Up || iface.MTU == 0 {
			continue
		}
		if iface.MTU < d.thresholds.MTUMinBytes {
			issues = append(issues, newIssue(domain.SeverityMedium, domain.CategoryConfiguration,
				fmt.Sprintf("Suboptimal MTU on interface %s", iface.Name),
				map[string]float64{"mtu_bytes": float64(iface.MTU), "recommended_bytes": float64(d.thresholds.MTUMinBytes)}))
		}
	}
	return issues
}

func (d *Detector) checkDNS(issues []domain.Issue, facts *domain.NetworkFacts) []domain.Issue {
	if len(facts.DNSAddresses) == 0 {
		return append(issues, newIssue(domain.SeverityHigh, domain.CategoryConfiguration,
			"DNS resolution issues detected", nil))
	}
	return issues
}

func (d *Detector) checkRouting(issues []domain.Issue, facts *domain.NetworkFacts) []domain.Issue {
	table := strings.TrimSpace(facts.RouteTable)
	if table == "" || strings.Contains(strings.ToLower(table), "error") {
		return append(issues, newIssue(domain.SeverityHigh, domain.CategoryConfiguration,
			"Routing table unavailable or invalid", nil))
	}
	return issues
}

func (d *Detector) checkProtocol(issues []domain.Issue, proto *domain.ProtocolInfo) []domain.Issue {
	if proto.Encryption != "enabled" {
		issues = append(issues, newIssue(domain.SeverityMedium, domain.CategorySecurity,
			fmt.Sprintf("%s encryption not enabled", proto.Type), nil))
	}
	if proto.Type == "SMB" && strings.HasPrefix(proto.Version, "1") {
		issues = append(issues, newIssue(domain.SeverityHigh, domain.CategorySecurity,
			"Legacy SMB version detected", nil))
	}
	return issues
}

func newIssue(sev domain.Severity, cat domain.Category, msg string, details map[string]float64) domain.Issue {
	return domain.Issue{
		Timestamp: time.Now().UTC(),
		Severity:  sev,
		Category:  cat,
		Message:   msg,
		Details:   details,
	}
}
