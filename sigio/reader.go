// Package sigio adapts external byte streams to the dataflow graph:
// transport packets in, baseband samples out as raw IQ or WAV.
package sigio

import (
	"fmt"
	"io"

	"github.com/sdrkit/dvbtx/dvb"
	"github.com/sdrkit/dvbtx/flow"
)

// PacketReader pulls fixed-size transport packets from a byte stream.
// End of file signals end of stream to the scheduler; a trailing short
// packet is dropped.
type PacketReader struct {
	name string
	r    io.Reader
	out  *flow.Buffer[dvb.Packet]
	sch  *flow.Scheduler
	done bool
}

// NewPacketReader creates a source stage reading from r.
func NewPacketReader(s *flow.Scheduler, r io.Reader, out *flow.Buffer[dvb.Packet]) *PacketReader {
	p := &PacketReader{
		name: "packet-reader",
		r:    r,
		out:  out,
		sch:  s,
	}
	s.Register(p)
	return p
}

// Name implements flow.Stage.
func (p *PacketReader) Name() string {
	return p.name
}

// Process reads a single packet per pass. Pulling one packet at a time
// keeps the rest of the chain running while a live stream trickles in,
// instead of blocking until a whole buffer's worth has arrived.
func (p *PacketReader) Process() error {
	if p.done || p.out.Writable() == 0 {
		return nil
	}
	dst := p.out.Wr()
	_, err := io.ReadFull(p.r, dst[0][:])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		p.done = true
		p.sch.SignalEOS()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	p.out.Written(1)
	return nil
}
