package dvb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdrkit/dvbtx/flow"
)

func TestRSParityZero(t *testing.T) {
	var data [PacketSize]byte
	var parity [RSParitySize]byte
	rsParity(data[:], &parity)
	assert.Equal(t, [RSParitySize]byte{}, parity)
}

// evalAt evaluates the codeword polynomial, highest power first, at root.
func evalAt(codeword []byte, root byte) byte {
	acc := byte(0)
	for _, b := range codeword {
		acc = gfMul(acc, root) ^ b
	}
	return acc
}

func TestRSSyndromesVanish(t *testing.T) {
	var data [PacketSize]byte
	for i := range data {
		data[i] = byte(i*31 + 7)
	}
	var parity [RSParitySize]byte
	rsParity(data[:], &parity)

	codeword := append(append([]byte{}, data[:]...), parity[:]...)
	assert.Len(t, codeword, RSPacketSize)
	for i := 0; i < RSParitySize; i++ {
		assert.EqualValues(t, 0, evalAt(codeword, gfExp[i]), "syndrome %d", i)
	}
}

func TestRSEncoderStage(t *testing.T) {
	const packets = 5
	sch := flow.New()
	in := flow.NewBuffer[Packet](sch, "rs-in", packets)
	out := flow.NewBuffer[RSPacket](sch, "rs-out", packets)
	e := NewRSEncoder(sch, in, out)

	w := in.Wr()
	for i := 0; i < packets; i++ {
		for j := range w[i] {
			w[i][j] = byte(i + j)
		}
	}
	src := append([]Packet(nil), w[:packets]...)
	in.Written(packets)

	assert.Nil(t, e.Process())
	got := out.Rd()
	assert.Len(t, got, packets)
	for i := 0; i < packets; i++ {
		assert.Equal(t, src[i][:], got[i][:PacketSize], "packet %d data prefix", i)
		for j := 0; j < RSParitySize; j++ {
			assert.EqualValues(t, 0, evalAt(got[i][:], gfExp[j]))
		}
	}
	assert.Equal(t, 0, in.Readable())
}
