// FILE: lixenwraith/smartlog/sink/syslog/syslog_test.go
package syslog

import (
	"context"
	"encoding/json"
	"maps"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/smartlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listen opens a local UDP server and returns a config pointing at it
func listen(t *testing.T) (*net.UDPConn, *Config) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	cfg := DefaultConfig()
	cfg.ID = "billing"
	cfg.FQDN = "host.example.com"
	cfg.Port = int64(conn.LocalAddr().(*net.UDPAddr).Port)
	return conn, cfg
}

// receive reads one datagram or fails after the timeout
func receive(t *testing.T, conn *net.UDPConn, timeout time.Duration) (string, bool) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	buf := make([]byte, 64*1024)
	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		return "", false
	}
	return string(buf[:n]), true
}

// splitMessage separates the header from the JSON payload
func splitMessage(t *testing.T, msg string) (string, map[string]any) {
	t.Helper()
	header, payload, ok := strings.Cut(msg, ":@cee:")
	require.True(t, ok, "missing cee marker in %q", msg)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &fields))
	return header, fields
}

func TestWriteLogRecord(t *testing.T) {
	server, cfg := listen(t)
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	fixed := time.Date(2024, 6, 1, 8, 30, 15, 123e6, time.FixedZone("CEST", 2*60*60))
	s.now = func() time.Time { return fixed }

	rec := smartlog.Record{
		Timestamp: 1717223415123,
		Level:     "error",
		Fields:    map[string]any{smartlog.KeyMessage: "charge failed", "order": 42},
	}
	require.NoError(t, s.Write(rec))

	msg, ok := receive(t, server, time.Second)
	require.True(t, ok)
	assert.False(t, strings.HasSuffix(msg, "\n"))

	header, fields := splitMessage(t, msg)
	assert.Equal(t, "<11>2024-06-01T06:30:15.123Z host.example.com billing", header)
	assert.Equal(t, "charge failed", fields["msg"])
	assert.Equal(t, "error", fields["level"])
	assert.Equal(t, float64(42), fields["order"])
	assert.Equal(t, float64(1717223415123), fields["ts"])
}

func TestWriteMetricUsesInfoSeverity(t *testing.T) {
	server, cfg := listen(t)
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	rec := smartlog.Record{
		Timestamp: time.Now().UnixMilli(),
		Level:     smartlog.MetricCounter,
		Fields:    map[string]any{smartlog.KeyMetric: "requests", smartlog.KeyValue: 1.0},
	}
	require.NoError(t, s.Write(rec))

	msg, ok := receive(t, server, time.Second)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(msg, "<14>"), msg)

	_, fields := splitMessage(t, msg)
	assert.Equal(t, "requests", fields["key"])
	assert.Equal(t, "counter", fields["level"])
}

func TestFacilityInPriority(t *testing.T) {
	server, cfg := listen(t)
	cfg.Facility = "local3"
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(smartlog.Record{Level: "warning", Fields: map[string]any{}}))

	msg, ok := receive(t, server, time.Second)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(msg, "<156>"), msg)
}

func TestFilteredRecordsAreNotSent(t *testing.T) {
	server, cfg := listen(t)
	cfg.Level = "error"
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(smartlog.Record{Level: "info", Fields: map[string]any{}}))

	_, ok := receive(t, server, 100*time.Millisecond)
	assert.False(t, ok, "no datagram for a rejected record")
}

func TestClose(t *testing.T) {
	_, cfg := listen(t)
	s, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.ErrorIs(t, s.Write(smartlog.Record{Level: "info"}), ErrClosed)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrMissingID)
	assert.ErrorIs(t, err, smartlog.ErrInvalidConfig)

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty hostname", func(c *Config) { c.Hostname = "" }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"unknown facility", func(c *Config) { c.Facility = "mainframe" }},
		{"unknown level", func(c *Config) { c.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ID = "app"
			tt.modify(cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, smartlog.ErrInvalidConfig)
		})
	}
}

func TestFacilities(t *testing.T) {
	tests := map[string]int{
		"kernel": 0, "user": 1, "mail": 2, "daemon": 3, "auth": 4, "syslog": 5,
		"lpr": 6, "news": 7, "uucp": 8, "cron": 9, "authpriv": 10, "ftp": 11,
		"ntp": 12, "audit": 13, "alert": 14, "clock": 15,
		"local0": 16, "local7": 23,
	}
	for name, code := range tests {
		got, ok := FacilityCode(name)
		assert.True(t, ok, name)
		assert.Equal(t, code, got, name)
	}

	_, ok := FacilityCode("local8")
	assert.False(t, ok)

	assert.Equal(t, 11, Priority(1, smartlog.LevelError.Rank()))
	assert.Equal(t, 191, Priority(23, smartlog.LevelDebug.Rank()))
}

// observingFilter counts filter calls and keeps each payload with a snapshot taken at filter time
type observingFilter struct {
	mu        sync.Mutex
	calls     int
	payloads  []map[string]any
	snapshots []map[string]any
	accept    func(smartlog.Record) bool
}

func (f *observingFilter) filter(rec smartlog.Record) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.payloads = append(f.payloads, rec.Fields)
	f.snapshots = append(f.snapshots, maps.Clone(rec.Fields))
	return f.accept(rec)
}

// assertUnmodified checks each payload still matches its filter-time snapshot
func (f *observingFilter) assertUnmodified(t *testing.T) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.payloads {
		assert.Equal(t, f.snapshots[i], f.payloads[i], "record %d payload", i)
	}
}

func TestFilterEvaluatedOncePerRecord(t *testing.T) {
	server, cfg := listen(t)
	observer := &observingFilter{accept: smartlog.LevelFilter(smartlog.LevelError)}
	s, err := New(cfg, WithFilter(observer.filter))
	require.NoError(t, err)

	agent, err := smartlog.NewBuilder().
		LevelString("debug").
		Defaults(smartlog.Fields{"service": "billing"}).
		Build()
	require.NoError(t, err)

	pipeline := smartlog.Pipe(context.Background(), agent, s)
	agent.Debug(smartlog.Msg("skipped"))
	agent.Critical(smartlog.Msg("sent"), smartlog.Fields{"order": 7})
	agent.Histogram("latency", 12.5, "ms")
	agent.End()
	require.NoError(t, pipeline.Wait())

	assert.Equal(t, 3, observer.calls)
	observer.assertUnmodified(t)

	var received []string
	for {
		msg, ok := receive(t, server, 200*time.Millisecond)
		if !ok {
			break
		}
		received = append(received, msg)
	}
	require.Len(t, received, 2)
	assert.True(t, strings.HasPrefix(received[0], "<10>"), received[0])
	assert.True(t, strings.HasPrefix(received[1], "<14>"), received[1])
}
