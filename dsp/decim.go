package dsp

import (
	"fmt"

	"github.com/sdrkit/dvbtx/flow"
)

// Decimator keeps the first of every d consecutive items and drops the
// rest. Its batch granularity is d inputs per output; a trailing group
// shorter than d is discarded at end of stream so the buffer drains.
type Decimator[T any] struct {
	name string
	d    int
	in   *flow.Buffer[T]
	out  *flow.Buffer[T]
}

// NewDecimator creates a decimator stage with reduction factor d >= 1.
func NewDecimator[T any](s *flow.Scheduler, d int, in, out *flow.Buffer[T]) *Decimator[T] {
	if d < 1 {
		panic(fmt.Sprintf("decimator: invalid factor %d", d))
	}
	dc := &Decimator[T]{
		name: "decimator",
		d:    d,
		in:   in,
		out:  out,
	}
	s.Register(dc)
	return dc
}

// Name implements flow.Stage.
func (dc *Decimator[T]) Name() string {
	return dc.name
}

// Process decimates as many whole groups of d as are readable.
func (dc *Decimator[T]) Process() error {
	n := min(dc.in.Readable()/dc.d, dc.out.Writable())
	if n == 0 {
		return nil
	}
	src, dst := dc.in.Rd(), dc.out.Wr()
	if dc.d == 1 {
		copy(dst[:n], src[:n])
	} else {
		for i := 0; i < n; i++ {
			dst[i] = src[i*dc.d]
		}
	}
	dc.in.Read(n * dc.d)
	dc.out.Written(n)
	return nil
}

// Drain implements flow.Drainer: a trailing group shorter than d can never
// complete once the stream has ended, so it is discarded.
func (dc *Decimator[T]) Drain() error {
	if r := dc.in.Readable(); r > 0 && r < dc.d {
		dc.in.Read(r)
	}
	return nil
}
