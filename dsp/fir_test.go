package dsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdrkit/dvbtx/dsp"
	"github.com/sdrkit/dvbtx/flow"
)

func TestFIRImpulse(t *testing.T) {
	sch := flow.New()
	in := flow.NewBuffer[complex64](sch, "fir-in", 8)
	out := flow.NewBuffer[complex64](sch, "fir-out", 8)
	f := dsp.NewFIR(sch, []float32{1, 2, 1}, in, out)

	w := in.Wr()
	w[0] = 1
	for i := 1; i < 5; i++ {
		w[i] = 0
	}
	in.Written(5)

	assert.Nil(t, f.Process())
	got := out.Rd()
	assert.Equal(t, []complex64{1, 2, 1, 0, 0}, append([]complex64(nil), got...))
}

func TestFIROneToOneFromFirstSample(t *testing.T) {
	sch := flow.New()
	in := flow.NewBuffer[complex64](sch, "fir1-in", 16)
	out := flow.NewBuffer[complex64](sch, "fir1-out", 16)
	f := dsp.NewFIR(sch, []float32{0.25, 0.5, 0.25, 0.5, 0.25}, in, out)

	in.Wr()
	in.Written(16)
	assert.Nil(t, f.Process())
	assert.Equal(t, 16, out.Readable())
	assert.Equal(t, 0, in.Readable())
}

func TestFIRBatchSplitConsistency(t *testing.T) {
	taps := []float32{0.5, -1, 2, -1, 0.5}
	input := make([]complex64, 12)
	for i := range input {
		input[i] = complex(float32(i+1), float32(11-i))
	}

	filter := func(batches ...[]complex64) []complex64 {
		sch := flow.New()
		in := flow.NewBuffer[complex64](sch, "fbs-in", len(input))
		out := flow.NewBuffer[complex64](sch, "fbs-out", len(input))
		f := dsp.NewFIR(sch, taps, in, out)
		for _, batch := range batches {
			copy(in.Wr(), batch)
			in.Written(len(batch))
			assert.Nil(t, f.Process())
		}
		return append([]complex64(nil), out.Rd()...)
	}

	whole := filter(input)
	split := filter(input[:5], input[5:9], input[9:])
	assert.Equal(t, whole, split)
}
