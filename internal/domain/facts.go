package domain

// InterfaceFacts describes one network interface as reported by the host.
type InterfaceFacts struct {
	Name      string `json:"name"`
	MTU       int    `json:"mtu"`
	SpeedMbps int    `json:"speed_mbps"` // 0 when the driver does not report it
	Up        bool   `json:"up"`
}

// NetworkFacts is the static host-side context evaluated alongside the
// capture metrics. Absent values stay zero; the detectors treat missing facts
// as absent rather than failing.
type NetworkFacts struct {
	Interfaces []InterfaceFacts `json:"interfaces"`

	// DNSAddresses holds the resolved addresses for the local hostname;
	// empty means resolution failed.
	Hostname     string   `json:"hostname"`
	DNSAddresses []string `json:"dns_addresses"`

	// RouteTable is the raw routing table dump; empty or containing the
	// word "error" marks it invalid.
	RouteTable string `json:"route_table"`
}

// ProtocolInfo carries negotiated share-protocol facts supplied by the
// caller or a protocol prober.
type ProtocolInfo struct {
	Type       string `json:"type"` // "SMB" or "NFS"
	Version    string `json:"version"`
	Encryption string `json:"encryption"` // "enabled" when on
	Signing    string `json:"signing"`
	Dialect    string `json:"dialect,omitempty"`
}
