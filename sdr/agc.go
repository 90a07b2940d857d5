package sdr

import (
	"math"

	"github.com/sdrkit/dvbtx/flow"
)

// AGC scales samples toward a target RMS amplitude. It keeps a running
// magnitude estimate smoothed by the bandwidth constant and applies
// gain = outRMS/estimate, one output sample per input sample.
type AGC struct {
	name     string
	in       *flow.Buffer[complex64]
	out      *flow.Buffer[complex64]
	outRMS   float32
	bw       float32
	estimate float32
}

// NewAGC creates a gain control stage with the given target amplitude and
// smoothing bandwidth.
func NewAGC(s *flow.Scheduler, in, out *flow.Buffer[complex64], outRMS, bw float32) *AGC {
	a := &AGC{
		name:   "agc",
		in:     in,
		out:    out,
		outRMS: outRMS,
		bw:     bw,
	}
	s.Register(a)
	return a
}

// Name implements flow.Stage.
func (a *AGC) Name() string {
	return a.name
}

// Process scales as many samples as both buffers allow.
func (a *AGC) Process() error {
	n := min(a.in.Readable(), a.out.Writable())
	if n == 0 {
		return nil
	}
	src, dst := a.in.Rd(), a.out.Wr()
	for i := 0; i < n; i++ {
		v := src[i]
		mag := float32(math.Sqrt(float64(real(v)*real(v) + imag(v)*imag(v))))
		a.estimate += (mag - a.estimate) * a.bw
		var gain float32
		if a.estimate > 0 {
			gain = a.outRMS / a.estimate
		}
		dst[i] = complex(real(v)*gain, imag(v)*gain)
	}
	a.in.Read(n)
	a.out.Written(n)
	return nil
}
