// Package dsp provides the resampling stages: zero-stuffing interpolator,
// FIR shaping filter, decimator and root-raised-cosine tap generation.
package dsp

import (
	"fmt"

	"github.com/sdrkit/dvbtx/flow"
)

// Interpolator upsamples by an integer factor d: every input item is
// emitted followed by d-1 zero items. The output buffer should be declared
// with multiplicity d so its capacity stays in input units.
type Interpolator[T any] struct {
	name string
	d    int
	in   *flow.Buffer[T]
	out  *flow.Buffer[T]
}

// NewInterpolator creates an interpolator stage with expansion factor d >= 1.
func NewInterpolator[T any](s *flow.Scheduler, d int, in, out *flow.Buffer[T]) *Interpolator[T] {
	if d < 1 {
		panic(fmt.Sprintf("interpolator: invalid factor %d", d))
	}
	ip := &Interpolator[T]{
		name: "interpolator",
		d:    d,
		in:   in,
		out:  out,
	}
	s.Register(ip)
	return ip
}

// Name implements flow.Stage.
func (ip *Interpolator[T]) Name() string {
	return ip.name
}

// Process expands as many inputs as the output room allows. It consumes
// nothing unless a full group of d output slots is writable.
func (ip *Interpolator[T]) Process() error {
	if ip.out.Writable() < ip.d {
		return nil
	}
	n := min(ip.in.Readable(), ip.out.Writable()/ip.d)
	if n == 0 {
		return nil
	}
	src, dst := ip.in.Rd(), ip.out.Wr()
	var zero T
	k := 0
	for i := 0; i < n; i++ {
		dst[k] = src[i]
		k++
		for skip := ip.d - 1; skip > 0; skip-- {
			dst[k] = zero
			k++
		}
	}
	ip.in.Read(n)
	ip.out.Written(n * ip.d)
	return nil
}
