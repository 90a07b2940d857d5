package flow

import "fmt"

type (
	// Buffer is a typed fixed-capacity ring shared by exactly one producer
	// stage and one consumer stage. Both sides always see their pending
	// region as a single contiguous slice: unread items are packed to the
	// front of storage before a writable view is handed out.
	Buffer[T any] struct {
		name   string
		data   []T
		rd, wr int
		mult   int
		total  int64
		taken  int64
		peak   int
	}

	// BufferOption configures a buffer at construction.
	BufferOption func(*bufferConfig)

	bufferConfig struct {
		mult int
	}
)

// buffer is the untyped view the scheduler keeps of every ring it owns.
type buffer interface {
	label() string
	readable() int
	capacity() int
	count() int64
	movedCount() int64
	peakOcc() int
}

// WithMultiplicity declares that one logical unit written by the producer
// occupies d raw slots. Storage is sized capacity*d so that the capacity
// argument of NewBuffer stays expressed in logical units.
func WithMultiplicity(d int) BufferOption {
	return func(c *bufferConfig) {
		c.mult = d
	}
}

// NewBuffer creates a ring of capacity logical units and registers it with
// the scheduler for progress tracking and instrumentation.
func NewBuffer[T any](s *Scheduler, name string, capacity int, options ...BufferOption) *Buffer[T] {
	c := bufferConfig{mult: 1}
	for _, option := range options {
		option(&c)
	}
	if capacity < 1 || c.mult < 1 {
		panic(fmt.Sprintf("buffer %s: invalid capacity %d x %d", name, capacity, c.mult))
	}
	b := &Buffer[T]{
		name: name,
		data: make([]T, capacity*c.mult),
		mult: c.mult,
	}
	s.attach(b)
	return b
}

// Readable returns the number of items available to the consumer.
func (b *Buffer[T]) Readable() int {
	return b.wr - b.rd
}

// Writable returns the number of free raw slots available to the producer.
func (b *Buffer[T]) Writable() int {
	return len(b.data) - (b.wr - b.rd)
}

// Cap returns the total number of raw slots.
func (b *Buffer[T]) Cap() int {
	return len(b.data)
}

// Multiplicity returns the declared raw slots per logical unit.
func (b *Buffer[T]) Multiplicity() int {
	return b.mult
}

// Rd returns a contiguous view of all readable items.
func (b *Buffer[T]) Rd() []T {
	return b.data[b.rd:b.wr]
}

// Wr returns a contiguous view of all writable slots.
func (b *Buffer[T]) Wr() []T {
	b.pack()
	return b.data[b.wr:]
}

// Read advances the read cursor by n items. Reading more than Readable is a
// buffer overrun and panics: the stage contract was violated.
func (b *Buffer[T]) Read(n int) {
	if n < 0 || n > b.Readable() {
		panic(fmt.Sprintf("buffer %s: overrun: read %d of %d readable", b.name, n, b.Readable()))
	}
	b.rd += n
	b.taken += int64(n)
	if b.rd == b.wr {
		b.rd, b.wr = 0, 0
	}
}

// Written advances the write cursor by n raw items. Writing more than the
// contiguous region handed out by Wr is a buffer overrun and panics.
func (b *Buffer[T]) Written(n int) {
	if n < 0 || b.wr+n > len(b.data) {
		panic(fmt.Sprintf("buffer %s: overrun: wrote %d of %d writable", b.name, n, len(b.data)-b.wr))
	}
	b.wr += n
	b.total += int64(n)
	if occ := b.wr - b.rd; occ > b.peak {
		b.peak = occ
	}
}

// pack moves unread items to the front of storage so the writable region
// stays contiguous.
func (b *Buffer[T]) pack() {
	if b.rd == 0 {
		return
	}
	copy(b.data, b.data[b.rd:b.wr])
	b.wr -= b.rd
	b.rd = 0
}

func (b *Buffer[T]) label() string { return b.name }
func (b *Buffer[T]) readable() int { return b.Readable() }
func (b *Buffer[T]) capacity() int { return len(b.data) }
func (b *Buffer[T]) count() int64  { return b.total }
func (b *Buffer[T]) peakOcc() int  { return b.peak }

// movedCount sums both cursor movements, so draining a buffer counts as
// scheduler progress even when nothing new was produced.
func (b *Buffer[T]) movedCount() int64 { return b.total + b.taken }
