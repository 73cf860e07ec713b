// FILE: lixenwraith/smartlog/sink/file/file.go
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/smartlog"
	"github.com/lixenwraith/smartlog/formatter"
)

// DayKeyLayout formats the day component of file names
const DayKeyLayout = "20060102"

// ErrClosed is returned by Write after Close
var ErrClosed = errors.New("smartlog/file: sink closed")

var _ smartlog.Sink = (*Sink)(nil)

// bucket is one open daily file
type bucket struct {
	file   *os.File
	active bool // written since the last sweep
}

// Sink appends records as JSON lines to one file per calendar day.
// Handles idle for a full sweep interval are closed and reopened on demand.
type Sink struct {
	cfg       Config
	filter    smartlog.FilterFunc
	formatter *formatter.Formatter
	location  *time.Location
	now       func() time.Time

	mu     sync.Mutex
	files  map[string]*bucket
	closed bool

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
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

// New creates the directory if needed and starts the sweep ticker
func New(cfg *Config, opts ...Option) (*Sink, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	filter, _ := smartlog.LevelFilterString(cfg.Level)

	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
	}

	s := &Sink{
		cfg:       *cfg,
		filter:    filter,
		formatter: formatter.New(),
		location:  time.Local,
		now:       time.Now,
		files:     make(map[string]*bucket),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	if cfg.UTC {
		s.location = time.UTC
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.sweepLoop(time.Duration(cfg.IdleTimeoutMs) * time.Millisecond)
	return s, nil
}

// Filter reports whether the sink accepts rec
func (s *Sink) Filter(rec smartlog.Record) bool {
	return s.filter(rec)
}

// Write appends rec to the file of its day, opening the file if needed
func (s *Sink) Write(rec smartlog.Record) error {
	if !s.filter(rec) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	key := s.dayKey(rec.Timestamp)
	b, ok := s.files[key]
	if !ok {
		f, err := os.OpenFile(s.Path(key), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmtErrorf("failed to open log file: %w", err)
		}
		b = &bucket{file: f}
		s.files[key] = b
	}

	line := s.formatter.Format(rec.Timestamp, rec.Level, rec.Fields)
	if _, err := b.file.Write(line); err != nil {
		// Drop the failing handle, the next write reopens the file
		name := b.file.Name()
		b.file.Close()
		delete(s.files, key)
		return fmtErrorf("failed to write to '%s': %w", name, err)
	}
	b.active = true
	return nil
}

// Close stops the sweep ticker and closes every open file
func (s *Sink) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done

		s.mu.Lock()
		defer s.mu.Unlock()

		s.closed = true
		for key, b := range s.files {
			if err := b.file.Close(); err != nil {
				s.closeErr = smartlog.CombineErrors(s.closeErr, fmtErrorf("failed to close '%s': %w", b.file.Name(), err))
			}
			delete(s.files, key)
		}
	})
	return s.closeErr
}

// Path returns the file path for a day key
func (s *Sink) Path(key string) string {
	return filepath.Join(s.cfg.Directory, s.cfg.Prefix+key+s.cfg.Suffix)
}

// Open returns the number of open file handles
func (s *Sink) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Keys returns the day keys with an open handle, sorted
func (s *Sink) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.files))
	for k := range s.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// dayKey maps a millisecond timestamp to YYYYMMDD, a zero timestamp means now
func (s *Sink) dayKey(ts int64) string {
	t := s.now()
	if ts != 0 {
		t = time.UnixMilli(ts)
	}
	return t.In(s.location).Format(DayKeyLayout)
}

// sweepLoop runs sweep on every tick until Close
func (s *Sink) sweepLoop(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep closes handles not written since the previous sweep and resets the others
func (s *Sink) sweep() {
	s.mu.Lock()
	var err error
	for key, b := range s.files {
		if b.active {
			b.active = false
			continue
		}
		if cerr := b.file.Close(); cerr != nil {
			err = smartlog.CombineErrors(err, fmtErrorf("failed to close idle file '%s': %w", b.file.Name(), cerr))
		}
		delete(s.files, key)
	}
	s.mu.Unlock()

	smartlog.ReportError(err)
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "smartlog/file: ") {
		format = "smartlog/file: " + format
	}
	return fmt.Errorf(format, args...)
}

// configErrorf builds an error wrapping smartlog.ErrInvalidConfig
func configErrorf(format string, args ...any) error {
	return fmtErrorf("%w: "+format, append([]any{smartlog.ErrInvalidConfig}, args...)...)
}
