package comm

// PacketReader reads whole packets of bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes whole packets of bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads and writes whole packets of bytes.
// Transports implementing it carry the typed message protocol.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
