// FILE: lixenwraith/smartlog/sink/syslog/syslog.go
package syslog

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/smartlog"
	"github.com/lixenwraith/smartlog/formatter"
)

// TimestampLayout is the header timestamp, RFC3339 with milliseconds in UTC
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrMissingID is returned when the config has no application identifier
	ErrMissingID = fmt.Errorf("%w: smartlog/syslog: id is required", smartlog.ErrInvalidConfig)
	// ErrClosed is returned by Write after Close
	ErrClosed = errors.New("smartlog/syslog: sink closed")
)

var _ smartlog.Sink = (*Sink)(nil)

// Sink sends each record as one UDP datagram in the form
// <PRI>TIMESTAMP FQDN ID:@cee:{json}
type Sink struct {
	id       string
	fqdn     string
	facility int
	addr     *net.UDPAddr
	filter   smartlog.FilterFunc
	now      func() time.Time

	mu        sync.Mutex
	conn      *net.UDPConn
	formatter *formatter.Formatter
	buf       []byte
	closed    bool
}

// Option customizes a Sink
type Option func(*Sink)

// WithFilter replaces the level filter from the config
func WithFilter(filter smartlog.FilterFunc) Option {
	return func(s *Sink) {
		if filter != nil {
			s.filter = filter
		}
	}
}

// New resolves the server address and opens the UDP socket
func New(cfg *Config, opts ...Option) (*Sink, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	filter, _ := smartlog.LevelFilterString(cfg.Level)
	facility, _ := FacilityCode(cfg.Facility)

	target := net.JoinHostPort(cfg.Hostname, strconv.FormatInt(cfg.Port, 10))
	addr, err := net.ResolveUDPAddr("udp", target)
	if err != nil {
		return nil, fmtErrorf("failed to resolve '%s': %w", target, err)
	}

	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, fmtErrorf("failed to open UDP socket: %w", err)
	}

	s := &Sink{
		id:        cfg.ID,
		fqdn:      cfg.fqdn(),
		facility:  facility,
		addr:      addr,
		filter:    filter,
		now:       time.Now,
		conn:      conn,
		formatter: formatter.New(),
		buf:       make([]byte, 0, 512),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Filter reports whether the sink accepts rec
func (s *Sink) Filter(rec smartlog.Record) bool {
	return s.filter(rec)
}

// Write transmits rec as a single datagram
func (s *Sink) Write(rec smartlog.Record) error {
	if !s.filter(rec) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.buf = s.appendMessage(s.buf[:0], rec)
	if _, err := s.conn.WriteToUDP(s.buf, s.addr); err != nil {
		return fmtErrorf("failed to send to %s: %w", s.addr, err)
	}
	return nil
}

// Close releases the socket, once
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.conn.Close(); err != nil {
		return fmtErrorf("failed to close socket: %w", err)
	}
	return nil
}

// Addr returns the resolved server address
func (s *Sink) Addr() *net.UDPAddr {
	return s.addr
}

// appendMessage frames one record
func (s *Sink) appendMessage(dst []byte, rec smartlog.Record) []byte {
	dst = append(dst, '<')
	dst = strconv.AppendInt(dst, int64(Priority(s.facility, severityRank(rec))), 10)
	dst = append(dst, '>')
	dst = s.now().UTC().AppendFormat(dst, TimestampLayout)
	dst = append(dst, ' ')
	dst = append(dst, s.fqdn...)
	dst = append(dst, ' ')
	dst = append(dst, s.id...)
	dst = append(dst, ":@cee:"...)
	dst = s.formatter.AppendJSON(dst, rec.Timestamp, rec.Level, rec.Fields)
	// Datagram carries no line terminator
	return dst[:len(dst)-1]
}

// severityRank maps a record level to its syslog severity; metrics and unknown levels use info
func severityRank(rec smartlog.Record) int {
	if rank, ok := smartlog.RankOf(rec.Level); ok {
		return rank
	}
	return smartlog.LevelInfo.Rank()
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "smartlog/syslog: ") {
		format = "smartlog/syslog: " + format
	}
	return fmt.Errorf(format, args...)
}

// configErrorf builds an error wrapping smartlog.ErrInvalidConfig
func configErrorf(format string, args ...any) error {
	return fmtErrorf("%w: "+format, append([]any{smartlog.ErrInvalidConfig}, args...)...)
}
