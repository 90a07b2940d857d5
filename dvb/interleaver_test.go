package dvb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdrkit/dvbtx/dvb"
	"github.com/sdrkit/dvbtx/flow"
)

func TestInterleaverFirstPacket(t *testing.T) {
	sch := flow.New()
	in := flow.NewBuffer[dvb.RSPacket](sch, "il-in", 4)
	out := flow.NewBuffer[byte](sch, "il-out", 4*dvb.RSPacketSize)
	il := dvb.NewInterleaver(sch, in, out)

	w := in.Wr()
	for j := range w[0] {
		w[0][j] = byte(j)
	}
	in.Written(1)

	assert.Nil(t, il.Process())
	got := out.Rd()
	assert.Len(t, got, dvb.RSPacketSize)
	for k, b := range got {
		if k%dvb.InterleaveDepth == 0 {
			// branch 0 has no delay
			assert.EqualValues(t, byte(k), b, "position %d", k)
		} else {
			// delayed branches still hold their zero fill
			assert.EqualValues(t, 0, b, "position %d", k)
		}
	}
}

func TestInterleaverConservation(t *testing.T) {
	const packets = 30
	sch := flow.New()
	in := flow.NewBuffer[dvb.RSPacket](sch, "ilc-in", packets)
	out := flow.NewBuffer[byte](sch, "ilc-out", packets*dvb.RSPacketSize)
	il := dvb.NewInterleaver(sch, in, out)

	w := in.Wr()
	for i := 0; i < packets; i++ {
		for j := range w[i] {
			w[i][j] = byte(i ^ j)
		}
	}
	in.Written(packets)

	assert.Nil(t, il.Process())
	assert.Equal(t, packets*dvb.RSPacketSize, out.Readable())
	assert.Equal(t, 0, in.Readable())
}

func TestInterleaverWaitsForRoom(t *testing.T) {
	sch := flow.New()
	in := flow.NewBuffer[dvb.RSPacket](sch, "ilw-in", 2)
	// too small for even one interleaved packet
	out := flow.NewBuffer[byte](sch, "ilw-out", dvb.RSPacketSize-1)
	il := dvb.NewInterleaver(sch, in, out)

	in.Wr()
	in.Written(1)

	assert.Nil(t, il.Process())
	assert.Equal(t, 1, in.Readable())
	assert.Equal(t, 0, out.Readable())
}
