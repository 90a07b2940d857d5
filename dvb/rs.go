package dvb

import "github.com/sdrkit/dvbtx/flow"

// GF(2^8) arithmetic for the RS(204,188) code, field polynomial
// x^8+x^4+x^3+x^2+1.
const gfPoly = 0x11D

var (
	gfExp [512]byte
	gfLog [256]byte

	// rsGen holds the generator polynomial (x+α^0)...(x+α^15), highest
	// degree first; rsGenLog caches the logs of its lower coefficients.
	rsGen    [RSParitySize + 1]byte
	rsGenLog [RSParitySize]byte
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfExp[i+255] = byte(x)
		gfLog[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= gfPoly
		}
	}

	gen := []byte{1}
	for i := 0; i < RSParitySize; i++ {
		root := gfExp[i]
		next := make([]byte, len(gen)+1)
		for j, c := range gen {
			next[j] ^= gfMul(c, root)
			next[j+1] ^= c
		}
		gen = next
	}
	// gen is lowest degree first, reverse into rsGen.
	for i := range rsGen {
		rsGen[i] = gen[len(gen)-1-i]
	}
	for i := 0; i < RSParitySize; i++ {
		rsGenLog[i] = gfLog[rsGen[i+1]]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

// rsParity computes the 16 parity bytes of the systematic RS(204,188)
// codeword by polynomial division against the generator.
func rsParity(data []byte, parity *[RSParitySize]byte) {
	*parity = [RSParitySize]byte{}
	for _, d := range data {
		f := d ^ parity[0]
		copy(parity[:], parity[1:])
		parity[RSParitySize-1] = 0
		if f != 0 {
			lf := int(gfLog[f])
			for j := 0; j < RSParitySize; j++ {
				parity[j] ^= gfExp[lf+int(rsGenLog[j])]
			}
		}
	}
}

// RSEncoder protects each transport packet with a Reed-Solomon parity
// suffix, one RSPacket out per Packet in.
type RSEncoder struct {
	name string
	in   *flow.Buffer[Packet]
	out  *flow.Buffer[RSPacket]
}

// NewRSEncoder creates an RS encoder stage.
func NewRSEncoder(s *flow.Scheduler, in *flow.Buffer[Packet], out *flow.Buffer[RSPacket]) *RSEncoder {
	e := &RSEncoder{
		name: "rs-encoder",
		in:   in,
		out:  out,
	}
	s.Register(e)
	return e
}

// Name implements flow.Stage.
func (e *RSEncoder) Name() string {
	return e.name
}

// Process encodes as many whole packets as both buffers allow.
func (e *RSEncoder) Process() error {
	n := min(e.in.Readable(), e.out.Writable())
	if n == 0 {
		return nil
	}
	src, dst := e.in.Rd(), e.out.Wr()
	var parity [RSParitySize]byte
	for i := 0; i < n; i++ {
		copy(dst[i][:PacketSize], src[i][:])
		rsParity(src[i][:], &parity)
		copy(dst[i][PacketSize:], parity[:])
	}
	e.in.Read(n)
	e.out.Written(n)
	return nil
}
