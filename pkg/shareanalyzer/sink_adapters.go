package shareanalyzer

import (
	"errors"
	"fmt"
	"sync"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after being closed.
var ErrChannelSinkClosed = errors.New("shareanalyzer: channel sink closed")

// ReportFunc is invoked with each finished report.
type ReportFunc func(*Report) error

// NewCallbackSink adapts a ReportFunc into a full ReportSink implementation
// so callers can plug arbitrary functions without defining structs.
func NewCallbackSink(name string, fn ReportFunc) ReportSink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes reports via a channel; it returns the sink, the
// read-only channel, and a close function the caller should invoke during
// shutdown.
func NewChannelSink(name string, buffer int) (ReportSink, <-chan *Report, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan *Report, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name string
	fn   ReportFunc
}

func (s *callbackSink) WriteReport(r *Report) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	if r == nil {
		return nil
	}
	return s.fn(r)
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan *Report
	closed chan struct{}
	once   sync.Once
}

func (s *channelSink) WriteReport(r *Report) error {
	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	if r == nil {
		return nil
	}

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case s.ch <- r:
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}
