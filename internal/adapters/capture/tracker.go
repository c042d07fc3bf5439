package capture

import (
	"time"

	"github.com/google/gopacket/layers"

	"github.com/uforiaio/network-share-test-helper/internal/domain"
)

// maxPendingAcks bounds the per-flow RTT bookkeeping; a flow that never acks
// would otherwise grow without limit.
const maxPendingAcks = 1024

type flowKey struct {
	src, dst         string
	srcPort, dstPort uint16
}

func (k flowKey) reverse() flowKey {
	return flowKey{src: k.dst, dst: k.src, srcPort: k.dstPort, dstPort: k.srcPort}
}

type flowState struct {
	nextSeq uint32
	hasNext bool

	// pending maps the ack value that would confirm a sent segment to its
	// send time, for RTT estimation on the return path.
	pending map[uint32]time.Time
}

// tracker derives per-packet fields from a TCP stream: receive window,
// RST and duplicate-sequence retransmission signals, sequence-gap loss
// hints, and ack-echo RTT samples. It sees packets from a single capture
// goroutine and needs no locking.
type tracker struct {
	flows map[flowKey]*flowState
}

func newTracker() *tracker {
	return &tracker{flows: make(map[flowKey]*flowState)}
}

// observe folds one segment into the flow state and returns the decoded
// packet. tcp may be nil for non-TCP traffic; the packet then carries only
// length and timestamp.
func (t *tracker) observe(ts time.Time, length int, srcIP, dstIP string, tcp *layers.TCP, payloadLen int) *domain.Packet {
	p := &domain.Packet{Timestamp: ts, Length: length}
	if tcp == nil {
		return p
	}

	p.Window = int(tcp.Window)
	p.HasWindow = true
	p.TCPReset = tcp.RST

	key := flowKey{src: srcIP, dst: dstIP, srcPort: uint16(tcp.SrcPort), dstPort: uint16(tcp.DstPort)}
	fs := t.flows[key]
	if fs == nil {
		fs = &flowState{pending: make(map[uint32]time.Time)}
		t.flows[key] = fs
	}

	if payloadLen > 0 {
		if fs.hasNext {
			switch {
			case tcp.Seq < fs.nextSeq:
				p.Retransmission = true
			case tcp.Seq > fs.nextSeq:
				p.LossHint = true
			}
		}

		end := tcp.Seq + uint32(payloadLen)
		if !fs.hasNext || end > fs.nextSeq {
			fs.nextSeq = end
			fs.hasNext = true
		}

		if len(fs.pending) >= maxPendingAcks {
			fs.pending = make(map[uint32]time.Time)
		}
		if !p.Retransmission {
			fs.pending[end] = ts
		}
	}

	// An ack on this flow may confirm a segment sent on the reverse flow.
	if tcp.ACK {
		if rfs := t.flows[key.reverse()]; rfs != nil {
			if sent, ok := rfs.pending[tcp.Ack]; ok {
				rtt := ts.Sub(sent)
				if rtt > 0 {
					p.RTTMillis = float64(rtt) / float64(time.Millisecond)
					p.HasRTT = true
				}
				delete(rfs.pending, tcp.Ack)
			}
		}
	}

	return p
}
