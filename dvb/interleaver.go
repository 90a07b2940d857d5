package dvb

import "github.com/sdrkit/dvbtx/flow"

// Interleaver is the Forney convolutional interleaver: bytes are cycled
// over InterleaveDepth branches where branch j delays its bytes by
// j*interleaveCell positions. It streams: every RSPacket in yields exactly
// RSPacketSize bytes out, the delay lines starting out zero-filled.
type Interleaver struct {
	name   string
	in     *flow.Buffer[RSPacket]
	out    *flow.Buffer[byte]
	fifo   [InterleaveDepth][]byte
	pos    [InterleaveDepth]int
	branch int
}

// NewInterleaver creates an interleaver stage.
func NewInterleaver(s *flow.Scheduler, in *flow.Buffer[RSPacket], out *flow.Buffer[byte]) *Interleaver {
	il := &Interleaver{
		name: "interleaver",
		in:   in,
		out:  out,
	}
	for j := 1; j < InterleaveDepth; j++ {
		il.fifo[j] = make([]byte, j*interleaveCell)
	}
	s.Register(il)
	return il
}

// Name implements flow.Stage.
func (il *Interleaver) Name() string {
	return il.name
}

// Process interleaves as many whole packets as fit in the output buffer.
func (il *Interleaver) Process() error {
	n := min(il.in.Readable(), il.out.Writable()/RSPacketSize)
	if n == 0 {
		return nil
	}
	src, dst := il.in.Rd(), il.out.Wr()
	k := 0
	for i := 0; i < n; i++ {
		for _, b := range src[i] {
			j := il.branch
			if j == 0 {
				dst[k] = b
			} else {
				d := il.fifo[j]
				dst[k] = d[il.pos[j]]
				d[il.pos[j]] = b
				il.pos[j]++
				if il.pos[j] == len(d) {
					il.pos[j] = 0
				}
			}
			k++
			il.branch++
			if il.branch == InterleaveDepth {
				il.branch = 0
			}
		}
	}
	il.in.Read(n)
	il.out.Written(n * RSPacketSize)
	return nil
}
