// Package sdr provides the modulation stages: constellation mapping and
// automatic gain control over complex baseband samples.
package sdr

import (
	"math"

	"github.com/sdrkit/dvbtx/flow"
)

// CstlnAmp is the nominal constellation amplitude. Filter gains downstream
// are normalized against it so the configured output power holds.
const CstlnAmp = 75.0

// qpsk maps the 2-bit symbol index to a Gray-coded constellation point on
// the unit circle scaled by CstlnAmp.
var qpsk [4]complex64

func init() {
	a := float32(CstlnAmp / math.Sqrt2)
	qpsk = [4]complex64{
		0: complex(a, a),
		1: complex(-a, a),
		3: complex(-a, -a),
		2: complex(a, -a),
	}
}

// QPSK returns the constellation lookup table.
func QPSK() [4]complex64 {
	return qpsk
}

// Mapper converts coded symbol indices into complex samples, one sample
// per symbol.
type Mapper struct {
	name string
	in   *flow.Buffer[byte]
	out  *flow.Buffer[complex64]
	lut  [4]complex64
}

// NewMapper creates a QPSK mapper stage.
func NewMapper(s *flow.Scheduler, in *flow.Buffer[byte], out *flow.Buffer[complex64]) *Mapper {
	m := &Mapper{
		name: "mapper",
		in:   in,
		out:  out,
		lut:  qpsk,
	}
	s.Register(m)
	return m
}

// Name implements flow.Stage.
func (m *Mapper) Name() string {
	return m.name
}

// Process maps as many symbols as both buffers allow.
func (m *Mapper) Process() error {
	n := min(m.in.Readable(), m.out.Writable())
	if n == 0 {
		return nil
	}
	src, dst := m.in.Rd(), m.out.Wr()
	for i := 0; i < n; i++ {
		dst[i] = m.lut[src[i]&3]
	}
	m.in.Read(n)
	m.out.Written(n)
	return nil
}
