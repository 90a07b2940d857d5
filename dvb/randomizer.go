package dvb

import "github.com/sdrkit/dvbtx/flow"

const defaultPeriod = 8

type (
	// Randomizer applies the DVB energy-dispersal sequence: packet payloads
	// are XORed with a PRBS that restarts every period packets. The sync
	// byte of the packet leading a group is inverted to 0xB8 so a receiver
	// can find the restart point; the other sync bytes pass through.
	Randomizer struct {
		name   string
		in     *flow.Buffer[Packet]
		out    *flow.Buffer[Packet]
		lut    []byte
		period int
		pos    int
	}

	// RandomizerOption configures a randomizer.
	RandomizerOption func(*Randomizer)
)

// WithPeriod overrides the group length in packets.
func WithPeriod(packets int) RandomizerOption {
	return func(r *Randomizer) {
		r.period = packets
	}
}

// NewRandomizer creates a randomizer stage between two packet buffers.
func NewRandomizer(s *flow.Scheduler, in, out *flow.Buffer[Packet], options ...RandomizerOption) *Randomizer {
	r := &Randomizer{
		name:   "randomizer",
		in:     in,
		out:    out,
		period: defaultPeriod,
	}
	for _, option := range options {
		option(r)
	}
	r.lut = randomizerLUT(r.period)
	s.Register(r)
	return r
}

// randomizerLUT expands the x^15+x^14+1 PRBS into one XOR mask per byte of
// a whole group. Entry 0 inverts the leading sync byte, entries at packet
// boundaries are zero so sync bytes survive.
func randomizerLUT(period int) []byte {
	lut := make([]byte, period*PacketSize)
	lut[0] = 0xFF

	// clock the shift register eight times per mask byte, most significant
	// bit leaving first
	st := uint16(169)
	for i := 1; i < len(lut); i++ {
		var out byte
		for n := 0; n < 8; n++ {
			bit := (st>>13 ^ st>>14) & 1
			out = out<<1 | byte(bit)
			st = st<<1 | bit
		}
		if i%PacketSize != 0 {
			lut[i] = out
		}
	}
	return lut
}

// Name implements flow.Stage.
func (r *Randomizer) Name() string {
	return r.name
}

// Process randomizes as many whole packets as both buffers allow.
func (r *Randomizer) Process() error {
	n := min(r.in.Readable(), r.out.Writable())
	if n == 0 {
		return nil
	}
	src, dst := r.in.Rd(), r.out.Wr()
	for i := 0; i < n; i++ {
		mask := r.lut[r.pos*PacketSize : (r.pos+1)*PacketSize]
		for j := range src[i] {
			dst[i][j] = src[i][j] ^ mask[j]
		}
		r.pos++
		if r.pos == r.period {
			r.pos = 0
		}
	}
	r.in.Read(n)
	r.out.Written(n)
	return nil
}
