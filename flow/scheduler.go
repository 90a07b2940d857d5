package flow

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sdrkit/dvbtx/log"
)

type (
	// Stage is a unit of work bound to its buffers at construction. Process
	// handles the maximal number of complete logical units allowed by the
	// current readable input and writable output room, advances the cursors
	// accordingly and returns without blocking. With zero possible units it
	// returns immediately having done nothing.
	Stage interface {
		Name() string
		Process() error
	}

	// Flusher is implemented by stages holding external resources that must
	// be released on shutdown.
	Flusher interface {
		Flush() error
	}

	// Drainer is implemented by stages whose batch granularity can leave a
	// final sub-batch remainder in their input. Drain is called once the
	// stream has ended and a full scan moves nothing more, so the remainder
	// is known to be final; the stage disposes of it and the run terminates
	// instead of stalling.
	Drainer interface {
		Drain() error
	}

	// Scheduler owns the stages and buffers of one run. It scans stages in
	// registration order, which the composition keeps source-to-sink, so a
	// single pass lets every stage feed the next one.
	Scheduler struct {
		id      string
		log     *logrus.Logger
		verbose bool
		debug   bool
		metric  bool
		stages  []Stage
		buffers []buffer
		eos     bool
	}

	// Option configures a scheduler.
	Option func(*Scheduler)
)

// ErrStalled is returned when a full scan makes no progress while data is
// still in flight: a buffer-sizing or wiring defect, never an I/O condition.
var ErrStalled = errors.New("pipeline stalled")

// WithLogger sets the scheduler logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Scheduler) {
		s.log = l
	}
}

// WithVerbose enables the run summary.
func WithVerbose(v bool) Option {
	return func(s *Scheduler) {
		s.verbose = v
	}
}

// WithDebug enables per-pass tracing.
func WithDebug(d bool) Option {
	return func(s *Scheduler) {
		s.debug = d
	}
}

// WithMetric publishes per-buffer expvar counters.
func WithMetric() Option {
	return func(s *Scheduler) {
		s.metric = true
	}
}

// New creates an empty scheduler. Buffers and stages attach themselves at
// construction; the graph is immutable once Run starts.
func New(options ...Option) *Scheduler {
	s := &Scheduler{
		id:  xid.New().String(),
		log: log.GetLogger(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Register adds a stage. Stages must be registered in source-to-sink order.
func (s *Scheduler) Register(st Stage) {
	s.stages = append(s.stages, st)
}

// SignalEOS is called by the source once its input is exhausted. The run
// then terminates as soon as every buffer has drained.
func (s *Scheduler) SignalEOS() {
	s.eos = true
}

// EOS reports whether the source has signalled end of stream.
func (s *Scheduler) EOS() bool {
	return s.eos
}

// Run scans all stages repeatedly until a full pass moves no data. Reaching
// quiescence with end of stream signalled and all buffers empty is normal
// termination; anything else is a stall.
func (s *Scheduler) Run() error {
	start := time.Now()
	passes := 0
	for {
		before := s.moved()
		for _, st := range s.stages {
			if err := st.Process(); err != nil {
				return fmt.Errorf("stage %s: %w", st.Name(), err)
			}
		}
		passes++
		moved := s.moved()
		if s.debug {
			s.log.WithField("run", s.id).Debugf("pass %d: %d items moved", passes, moved-before)
		}
		if s.metric {
			s.measure()
		}
		if moved != before {
			continue
		}
		if s.eos {
			if s.drained() {
				break
			}
			// leftover sub-batch tails are final now: nothing upstream
			// can move anymore
			progressed, err := s.drainTails()
			if err != nil {
				return err
			}
			if progressed {
				continue
			}
		}
		return s.stallError()
	}
	if s.verbose {
		s.summary(time.Since(start), passes)
	}
	return nil
}

// Shutdown flushes every stage holding external resources and releases the
// graph. The scheduler cannot be reused afterwards.
func (s *Scheduler) Shutdown() error {
	var errs flushErrors
	for _, st := range s.stages {
		if f, ok := st.(Flusher); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, fmt.Errorf("stage %s: %w", st.Name(), err))
			}
		}
	}
	s.stages = nil
	s.buffers = nil
	return errs.ret()
}

func (s *Scheduler) drainTails() (bool, error) {
	before := s.moved()
	for _, st := range s.stages {
		if d, ok := st.(Drainer); ok {
			if err := d.Drain(); err != nil {
				return false, fmt.Errorf("stage %s: %w", st.Name(), err)
			}
		}
	}
	return s.moved() != before, nil
}

func (s *Scheduler) attach(b buffer) {
	s.buffers = append(s.buffers, b)
}

// moved sums the lifetime cursor movement of all buffers. Any stage
// progress moves at least one cursor, so an unchanged sum over a pass is
// quiescence.
func (s *Scheduler) moved() int64 {
	var total int64
	for _, b := range s.buffers {
		total += b.movedCount()
	}
	return total
}

func (s *Scheduler) drained() bool {
	for _, b := range s.buffers {
		if b.readable() > 0 {
			return false
		}
	}
	return true
}

func (s *Scheduler) stallError() error {
	for _, b := range s.buffers {
		if n := b.readable(); n > 0 {
			return fmt.Errorf("%w: %d items stuck in buffer %s", ErrStalled, n, b.label())
		}
	}
	return ErrStalled
}

func (s *Scheduler) summary(elapsed time.Duration, passes int) {
	entry := s.log.WithFields(logrus.Fields{
		"run":     s.id,
		"passes":  passes,
		"elapsed": elapsed,
	})
	entry.Info("run finished")
	for _, b := range s.buffers {
		rate := float64(b.count()) / elapsed.Seconds()
		entry.Infof("buffer %s: %d items, peak %d/%d, %.0f items/s",
			b.label(), b.count(), b.peakOcc(), b.capacity(), rate)
	}
}
