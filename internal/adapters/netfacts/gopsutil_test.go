package netfacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	psnet "github.com/shirou/gopsutil/v4/net"
)

func testProvider(t *testing.T) *Provider {
	t.Helper()
	p := New(Config{SysClassNet: t.TempDir()})
	p.interfaces = func(context.Context) (psnet.InterfaceStatList, error) {
		return psnet.InterfaceStatList{
			{Name: "eth0", MTU: 1500, Flags: []string{"up", "broadcast"}},
			{Name: "eth1", MTU: 1400, Flags: []string{"broadcast"}},
		}, nil
	}
	p.hostname = func() (string, error) { return "node1", nil }
	p.lookupHost = func(context.Context, string) ([]string, error) {
		return []string{"192.168.1.10"}, nil
	}
	p.routeTable = func(context.Context) (string, error) {
		return "default via 192.168.1.1 dev eth0", nil
	}
	return p
}

func TestFactsInterfaces(t *testing.T) {
	p := testProvider(t)
	speedDir := filepath.Join(p.cfg.SysClassNet, "eth0")
	if err := os.MkdirAll(speedDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(speedDir, "speed"), []byte("1000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	facts, err := p.Facts(context.Background())
	if err != nil {
		t.Fatalf("Facts: %v", err)
	}
	if len(facts.Interfaces) != 2 {
		t.Fatalf("expected 2 interfaces, got %d", len(facts.Interfaces))
	}
	eth0 := facts.Interfaces[0]
	if !eth0.Up || eth0.MTU != 1500 || eth0.SpeedMbps != 1000 {
		t.Fatalf("unexpected eth0 facts: %+v", eth0)
	}
	eth1 := facts.Interfaces[1]
	if eth1.Up || eth1.SpeedMbps != 0 {
		t.Fatalf("eth1 must be down with unknown speed, got %+v", eth1)
	}
}

func TestFactsDNSAndRoutes(t *testing.T) {
	p := testProvider(t)

	facts, err := p.Facts(context.Background())
	if err != nil {
		t.Fatalf("Facts: %v", err)
	}
	if facts.Hostname != "node1" {
		t.Fatalf("expected hostname node1, got %q", facts.Hostname)
	}
	if len(facts.DNSAddresses) != 1 || facts.DNSAddresses[0] != "192.168.1.10" {
		t.Fatalf("unexpected dns addresses: %v", facts.DNSAddresses)
	}
	if !strings.Contains(facts.RouteTable, "default via") {
		t.Fatalf("unexpected route table: %q", facts.RouteTable)
	}
}

func TestFactsDNSFailureLeavesAddressesEmpty(t *testing.T) {
	p := testProvider(t)
	p.lookupHost = func(context.Context, string) ([]string, error) {
		return nil, errors.New("no such host")
	}

	facts, err := p.Facts(context.Background())
	if err != nil {
		t.Fatalf("Facts: %v", err)
	}
	if len(facts.DNSAddresses) != 0 {
		t.Fatalf("expected no dns addresses, got %v", facts.DNSAddresses)
	}
}

func TestFactsRouteFailureRecordedAsError(t *testing.T) {
	p := testProvider(t)
	p.routeTable = func(context.Context) (string, error) {
		return "", errors.New("ip not found")
	}

	facts, err := p.Facts(context.Background())
	if err != nil {
		t.Fatalf("Facts: %v", err)
	}
	if !strings.HasPrefix(facts.RouteTable, "error:") {
		t.Fatalf("route failure must surface in the table text, got %q", facts.RouteTable)
	}
}

func TestFactsInterfaceListFailure(t *testing.T) {
	p := testProvider(t)
	p.interfaces = func(context.Context) (psnet.InterfaceStatList, error) {
		return nil, errors.New("netlink down")
	}

	if _, err := p.Facts(context.Background()); err == nil {
		t.Fatal("expected an error when interface listing fails")
	}
}
