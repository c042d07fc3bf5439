// Package netfacts collects host-level network facts (interfaces, DNS,
// routing) used by the configuration and connectivity checks.
package netfacts

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

// Config controls fact collection.
type Config struct {
	// SysClassNet is the sysfs root used to read link speeds. Overridable
	// for tests.
	SysClassNet string `yaml:"sys_class_net"`
	// LookupTimeout bounds the hostname resolution used to discover DNS
	// reachability.
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
}

// ApplyDefaults fills zero values in place.
func (c *Config) ApplyDefaults() {
	if c.SysClassNet == "" {
		c.SysClassNet = "/sys/class/net"
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = 3 * time.Second
	}
}

// Provider reads network facts from the running host.
type Provider struct {
	cfg Config

	// hooks for tests
	interfaces func(ctx context.Context) (psnet.InterfaceStatList, error)
	hostname   func() (string, error)
	lookupHost func(ctx context.Context, host string) ([]string, error)
	routeTable func(ctx context.Context) (string, error)
}

var _ ports.FactsProvider = (*Provider)(nil)

// New returns a Provider backed by gopsutil and the local sysfs tree.
func New(cfg Config) *Provider {
	cfg.ApplyDefaults()
	p := &Provider{cfg: cfg}
	p.interfaces = psnet.InterfacesWithContext
	p.hostname = os.Hostname
	p.lookupHost = func(ctx context.Context, host string) ([]string, error) {
		var r net.Resolver
		return r.LookupHost(ctx, host)
	}
	p.routeTable = routeTable
	return p
}

// Facts gathers interface, DNS, and routing facts. Partial failures are
// tolerated: an unreadable speed or an unresolvable hostname leaves the
// corresponding field zero rather than failing the whole collection.
func (p *Provider) Facts(ctx context.Context) (*domain.NetworkFacts, error) {
	stats, err := p.interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	facts := &domain.NetworkFacts{}
	for _, st := range stats {
		iface := domain.InterfaceFacts{
			Name: st.Name,
			MTU:  st.MTU,
			Up:   hasFlag(st.Flags, "up"),
		}
		iface.SpeedMbps = p.linkSpeed(st.Name)
		facts.Interfaces = append(facts.Interfaces, iface)
	}

	if host, err := p.hostname(); err == nil {
		facts.Hostname = host
		lctx, cancel := context.WithTimeout(ctx, p.cfg.LookupTimeout)
		if addrs, err := p.lookupHost(lctx, host); err == nil {
			facts.DNSAddresses = addrs
		}
		cancel()
	}

	if table, err := p.routeTable(ctx); err == nil {
		facts.RouteTable = table
	} else {
		facts.RouteTable = fmt.Sprintf("error: %v", err)
	}

	return facts, nil
}

func (p *Provider) linkSpeed(name string) int {
	raw, err := os.ReadFile(filepath.Join(p.cfg.SysClassNet, name, "speed"))
	if err != nil {
		return 0
	}
	speed, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || speed < 0 {
		return 0
	}
	return speed
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

// routeTable shells out to ip(8) and falls back to the kernel's route
// table when the binary is unavailable.
func routeTable(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "ip", "route", "show").Output()
	if err == nil {
		return strings.TrimSpace(string(out)), nil
	}
	raw, rerr := os.ReadFile("/proc/net/route")
	if rerr != nil {
		return "", fmt.Errorf("ip route: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
