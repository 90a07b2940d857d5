package dsp

import "github.com/sdrkit/dvbtx/flow"

// FIR convolves complex samples with a fixed real tap vector. The history
// across batches starts out zero-filled, so the stage is exactly one
// output sample per input sample from the first item on.
type FIR struct {
	name  string
	taps  []float32
	delay []complex64
	work  []complex64
	in    *flow.Buffer[complex64]
	out   *flow.Buffer[complex64]
}

// NewFIR creates a shaping filter stage.
func NewFIR(s *flow.Scheduler, taps []float32, in, out *flow.Buffer[complex64]) *FIR {
	f := &FIR{
		name:  "fir",
		taps:  taps,
		delay: make([]complex64, len(taps)-1),
		in:    in,
		out:   out,
	}
	s.Register(f)
	return f
}

// Name implements flow.Stage.
func (f *FIR) Name() string {
	return f.name
}

// Process filters as many samples as both buffers allow.
func (f *FIR) Process() error {
	n := min(f.in.Readable(), f.out.Writable())
	if n == 0 {
		return nil
	}
	src, dst := f.in.Rd(), f.out.Wr()

	need := len(f.delay) + n
	if cap(f.work) < need {
		f.work = make([]complex64, need)
	}
	work := f.work[:need]
	copy(work, f.delay)
	copy(work[len(f.delay):], src[:n])

	for i := 0; i < n; i++ {
		var acc complex64
		for j, t := range f.taps {
			acc += work[i+j] * complex(t, 0)
		}
		dst[i] = acc
	}
	copy(f.delay, work[n:])

	f.in.Read(n)
	f.out.Written(n)
	return nil
}
