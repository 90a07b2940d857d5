package sigio_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdrkit/dvbtx/flow"
	"github.com/sdrkit/dvbtx/sigio"
)

func TestIQWriter(t *testing.T) {
	sch := flow.New()
	in := flow.NewBuffer[complex64](sch, "iq-in", 8)
	var out bytes.Buffer
	w := sigio.NewIQWriter(sch, &out, in)

	src := in.Wr()
	src[0] = complex(0.5, -0.25)
	src[1] = complex(-1, 2)
	in.Written(2)

	assert.Nil(t, w.Process())
	assert.Equal(t, 0, in.Readable())
	assert.Equal(t, 16, out.Len())

	raw := out.Bytes()
	read := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
	}
	assert.Equal(t, float32(0.5), read(0))
	assert.Equal(t, float32(-0.25), read(4))
	assert.Equal(t, float32(-1), read(8))
	assert.Equal(t, float32(2), read(12))
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, assert.AnError
}

func TestIQWriterError(t *testing.T) {
	sch := flow.New()
	in := flow.NewBuffer[complex64](sch, "iqe-in", 4)
	w := sigio.NewIQWriter(sch, failWriter{}, in)

	in.Wr()
	in.Written(1)
	assert.Error(t, w.Process())
}
