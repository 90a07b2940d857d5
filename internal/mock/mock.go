// Package mock provides trivial source and sink stages for engine and
// stage tests.
package mock

import "github.com/sdrkit/dvbtx/flow"

type (
	// Source emits Value into its buffer until Remaining hits zero, then
	// signals end of stream.
	Source[T any] struct {
		Value     T
		Remaining int

		out *flow.Buffer[T]
		sch *flow.Scheduler
	}

	// Sink consumes everything readable and records it. With Stalled set
	// it refuses to drain, for backpressure tests.
	Sink[T any] struct {
		Values  []T
		Stalled bool

		in *flow.Buffer[T]
	}

	// Copy forwards items one-to-one.
	Copy[T any] struct {
		in  *flow.Buffer[T]
		out *flow.Buffer[T]
	}
)

// NewSource creates a source emitting value count times.
func NewSource[T any](s *flow.Scheduler, value T, count int, out *flow.Buffer[T]) *Source[T] {
	src := &Source[T]{
		Value:     value,
		Remaining: count,
		out:       out,
		sch:       s,
	}
	s.Register(src)
	return src
}

// Name implements flow.Stage.
func (s *Source[T]) Name() string { return "mock-source" }

// Process fills available room until the budget runs out.
func (s *Source[T]) Process() error {
	n := min(s.out.Writable(), s.Remaining)
	dst := s.out.Wr()
	for i := 0; i < n; i++ {
		dst[i] = s.Value
	}
	s.out.Written(n)
	s.Remaining -= n
	if s.Remaining == 0 {
		s.sch.SignalEOS()
	}
	return nil
}

// NewSink creates a recording sink.
func NewSink[T any](s *flow.Scheduler, in *flow.Buffer[T]) *Sink[T] {
	snk := &Sink[T]{in: in}
	s.Register(snk)
	return snk
}

// Name implements flow.Stage.
func (s *Sink[T]) Name() string { return "mock-sink" }

// Process drains the input unless stalled.
func (s *Sink[T]) Process() error {
	if s.Stalled {
		return nil
	}
	n := s.in.Readable()
	if n == 0 {
		return nil
	}
	s.Values = append(s.Values, s.in.Rd()[:n]...)
	s.in.Read(n)
	return nil
}

// NewCopy creates a pass-through stage.
func NewCopy[T any](s *flow.Scheduler, in, out *flow.Buffer[T]) *Copy[T] {
	c := &Copy[T]{in: in, out: out}
	s.Register(c)
	return c
}

// Name implements flow.Stage.
func (c *Copy[T]) Name() string { return "mock-copy" }

// Process forwards as much as both buffers allow.
func (c *Copy[T]) Process() error {
	n := min(c.in.Readable(), c.out.Writable())
	if n == 0 {
		return nil
	}
	copy(c.out.Wr()[:n], c.in.Rd()[:n])
	c.in.Read(n)
	c.out.Written(n)
	return nil
}
