package sdr_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdrkit/dvbtx/flow"
	"github.com/sdrkit/dvbtx/sdr"
)

func TestAGCConverges(t *testing.T) {
	const (
		samples = 5000
		inMag   = 10.0
		target  = 2.0
	)
	sch := flow.New()
	in := flow.NewBuffer[complex64](sch, "agc-in", samples)
	out := flow.NewBuffer[complex64](sch, "agc-out", samples)
	a := sdr.NewAGC(sch, in, out, target, 0.01)

	w := in.Wr()
	for i := range w {
		w[i] = complex(float32(inMag), 0)
	}
	in.Written(samples)

	assert.Nil(t, a.Process())
	got := out.Rd()
	assert.Len(t, got, samples)
	last := got[samples-1]
	assert.InDelta(t, target, math.Hypot(float64(real(last)), float64(imag(last))), target*0.01)
}

func TestAGCOneToOne(t *testing.T) {
	sch := flow.New()
	in := flow.NewBuffer[complex64](sch, "agc1-in", 16)
	out := flow.NewBuffer[complex64](sch, "agc1-out", 8)
	a := sdr.NewAGC(sch, in, out, 1, 0.1)

	w := in.Wr()
	for i := range w {
		w[i] = complex(1, 1)
	}
	in.Written(16)

	// bounded by output room, no sample dropped
	assert.Nil(t, a.Process())
	assert.Equal(t, 8, out.Readable())
	assert.Equal(t, 8, in.Readable())
}
