package sigio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/sdrkit/dvbtx/flow"
)

// IQWriter pushes baseband samples to a byte stream as little-endian
// float32 I,Q pairs. Any write error is fatal for the run.
type IQWriter struct {
	name    string
	w       io.Writer
	in      *flow.Buffer[complex64]
	scratch []byte
}

// NewIQWriter creates a sink stage writing to w.
func NewIQWriter(s *flow.Scheduler, w io.Writer, in *flow.Buffer[complex64]) *IQWriter {
	iq := &IQWriter{
		name: "iq-writer",
		w:    w,
		in:   in,
	}
	s.Register(iq)
	return iq
}

// Name implements flow.Stage.
func (iq *IQWriter) Name() string {
	return iq.name
}

// Process drains everything readable to the stream.
func (iq *IQWriter) Process() error {
	n := iq.in.Readable()
	if n == 0 {
		return nil
	}
	src := iq.in.Rd()
	if cap(iq.scratch) < n*8 {
		iq.scratch = make([]byte, n*8)
	}
	buf := iq.scratch[:n*8]
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(real(src[i])))
		binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(imag(src[i])))
	}
	if _, err := iq.w.Write(buf); err != nil {
		return fmt.Errorf("write sink: %w", err)
	}
	iq.in.Read(n)
	return nil
}
