// Package capture implements the packet collector on live pcap capture.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

// Config captures the runtime details required to open a live capture.
type Config struct {
	Interface   string        `yaml:"interface"`
	Filter      string        `yaml:"filter"`
	SnapLen     int32         `yaml:"snap_len"`
	Promiscuous bool          `yaml:"promiscuous"`
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// MaxPackets stops the capture early once the ceiling is reached;
	// zero means the surrounding context is the only bound.
	MaxPackets int `yaml:"max_packets"`
}

func (c *Config) ApplyDefaults() {
	if c.SnapLen == 0 {
		c.SnapLen = 65535
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 500 * time.Millisecond
	}
}

func (c *Config) Validate() error {
	if c.Interface == "" {
		return errors.New("interface is required")
	}
	return nil
}

// Collector captures packets from a network interface and delivers decoded
// observations. The pcap handle is closed on every exit path: context
// cancellation, packet ceiling, and read errors alike.
type Collector struct {
	cfg Config

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewCollector(cfg Config) (*Collector, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Collector{cfg: cfg}, nil
}

func (c *Collector) Start(ctx context.Context, out chan<- *domain.Packet) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("capture collector already started")
	}
	c.started = true
	c.mu.Unlock()

	handle, err := pcap.OpenLive(c.cfg.Interface, c.cfg.SnapLen, c.cfg.Promiscuous, c.cfg.ReadTimeout)
	if err != nil {
		c.markStopped()
		return fmt.Errorf("open capture on %s: %w", c.cfg.Interface, err)
	}
	if c.cfg.Filter != "" {
		if err := handle.SetBPFFilter(c.cfg.Filter); err != nil {
			handle.Close()
			c.markStopped()
			return fmt.Errorf("set bpf filter %q: %w", c.cfg.Filter, err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(runCtx, handle, out)
	return nil
}

func (c *Collector) run(ctx context.Context, handle *pcap.Handle, out chan<- *domain.Packet) {
	defer c.wg.Done()
	defer close(out)
	defer handle.Close()

	source := gopacket.NewPacketSource(handle, handle.LinkType())
	source.NoCopy = true
	packets := source.Packets()

	track := newTracker()
	delivered := 0

	for {
		select {
		case <-ctx.Done():
			return
		case pkt, ok := <-packets:
			if !ok {
				return
			}

			decoded := decode(track, pkt)
			select {
			case out <- decoded:
			case <-ctx.Done():
				return
			}

			delivered++
			if c.cfg.MaxPackets > 0 && delivered >= c.cfg.MaxPackets {
				return
			}
		}
	}
}

// Stop cancels delivery and waits for the capture goroutine, which owns the
// handle, to finish releasing it.
func (c *Collector) Stop() error {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	c.markStopped()
	return nil
}

func (c *Collector) markStopped() {
	c.mu.Lock()
	c.started = false
	c.cancel = nil
	c.mu.Unlock()
}

func decode(track *tracker, pkt gopacket.Packet) *domain.Packet {
	meta := pkt.Metadata()

	var srcIP, dstIP string
	if netLayer := pkt.NetworkLayer(); netLayer != nil {
		flow := netLayer.NetworkFlow()
		srcIP, dstIP = flow.Src().String(), flow.Dst().String()
	}

	var (
		tcp        *layers.TCP
		payloadLen int
	)
	if layer := pkt.Layer(layers.LayerTypeTCP); layer != nil {
		tcp = layer.(*layers.TCP)
		payloadLen = len(tcp.Payload)
	}

	return track.observe(meta.Timestamp, meta.Length, srcIP, dstIP, tcp, payloadLen)
}

var _ ports.Collector = (*Collector)(nil)
