package dvb

import (
	"math/bits"

	"github.com/sdrkit/dvbtx/flow"
)

// Rate-1/2 convolutional code, constraint length 7, generators 171/133
// octal. Every input bit yields both coded bits at once, packed into one
// QPSK symbol index, so one byte in becomes SymbolsPerByte symbols out.
const (
	convPolyX = 0x79
	convPolyY = 0x5B

	// SymbolsPerByte is the fixed rate expansion of the coder.
	SymbolsPerByte = 8
)

// Convol is the convolutional coder stage. Output symbols are small
// integers in [0,3], X in the high bit.
type Convol struct {
	name  string
	in    *flow.Buffer[byte]
	out   *flow.Buffer[byte]
	state uint8
}

// NewConvol creates a convolutional coder stage.
func NewConvol(s *flow.Scheduler, in, out *flow.Buffer[byte]) *Convol {
	c := &Convol{
		name: "convol",
		in:   in,
		out:  out,
	}
	s.Register(c)
	return c
}

// Name implements flow.Stage.
func (c *Convol) Name() string {
	return c.name
}

// Process codes as many whole bytes as the output buffer can expand.
func (c *Convol) Process() error {
	n := min(c.in.Readable(), c.out.Writable()/SymbolsPerByte)
	if n == 0 {
		return nil
	}
	src, dst := c.in.Rd(), c.out.Wr()
	k := 0
	for i := 0; i < n; i++ {
		b := src[i]
		for bit := 7; bit >= 0; bit-- { // MSB first
			c.state = (c.state<<1 | (b>>uint(bit))&1) & 0x7F
			x := bits.OnesCount8(c.state&convPolyX) & 1
			y := bits.OnesCount8(c.state&convPolyY) & 1
			dst[k] = byte(x<<1 | y)
			k++
		}
	}
	c.in.Read(n)
	c.out.Written(n * SymbolsPerByte)
	return nil
}
