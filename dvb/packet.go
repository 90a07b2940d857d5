package dvb

const (
	// PacketSize is the MPEG transport packet size in bytes.
	PacketSize = 188
	// SyncByte leads every transport packet.
	SyncByte = 0x47
	// InvertedSync marks the first packet of a randomizer group.
	InvertedSync = 0xB8

	// RSParitySize is the Reed-Solomon parity suffix appended per packet.
	RSParitySize = 16
	// RSPacketSize is the protected packet size, data plus parity.
	RSPacketSize = PacketSize + RSParitySize

	// InterleaveDepth is the number of branches of the Forney interleaver.
	InterleaveDepth = 12
	// interleaveCell is the per-branch delay increment in bytes.
	interleaveCell = RSPacketSize / InterleaveDepth
)

type (
	// Packet is one MPEG transport packet.
	Packet [PacketSize]byte

	// RSPacket is a transport packet with its Reed-Solomon parity suffix.
	RSPacket [RSPacketSize]byte
)
