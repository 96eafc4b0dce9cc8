package packet

import (
	"fmt"
	"io"
)

// Command is the command code of a request.
type Command byte

// ReplyCode is the command code of a reply.
type ReplyCode byte

// Command codes.
const (
	CmdSet Command = 40
	CmdGet Command = 41
)

// Reply codes.
const (
	ReplyGet ReplyCode = 73
)

const (
	// MaxPacketLen is the maximum length of a frame on wire.
	MaxPacketLen = 10
	// MaxDataLen is the maximum length of data in a request.
	MaxDataLen = 5
	// GetDataLen is the length of data in a get request.
	GetDataLen = 3
	// SetDataLen is the length of data in a set request.
	SetDataLen = 5

	// CRCOffset is added to the command code when CRC is used.
	CRCOffset = 112

	// MinAddress is the first valid address.
	MinAddress byte = 128
	// MaxAddress is the last valid address.
	MaxAddress byte = 135
)

// IsAddress checks if b can start a frame.
func IsAddress(b byte) bool {
	return b >= 0x80
}

// Packet is a request to be sent.
type Packet struct {
	Address byte
	Command Command
	CRC     bool
	Data    []byte
}

// NewSet builds a set request.
func NewSet(address byte, crc bool, setType, typ, number byte, value int) *Packet {
	flags, lo, hi := EncodeValue(value, setType)
	return &Packet{
		Address: address,
		Command: CmdSet,
		CRC:     crc,
		Data:    []byte{flags, lo, hi, typ, number},
	}
}

// NewGet builds a get request.
func NewGet(address byte, crc bool, flags, typ, number byte) *Packet {
	return &Packet{
		Address: address,
		Command: CmdGet,
		CRC:     crc,
		Data:    []byte{flags, typ, number},
	}
}

// Bytes returns encoded bytes for sending.
// It panics if Data exceeds MaxDataLen.
func (p *Packet) Bytes() []byte {
	if len(p.Data) > MaxDataLen {
		panic(fmt.Sprintf("packet data too long: %d", len(p.Data)))
	}
	b := make([]byte, 0, MaxPacketLen)
	cmd := byte(p.Command)
	if p.CRC {
		cmd += CRCOffset
	}
	b = append(b, p.Address, cmd)
	b = append(b, headerCode(p.CRC, b))
	if len(p.Data) > 0 {
		b = append(b, p.Data...)
		b = appendDataCode(b, p.CRC, p.Data)
	}
	return b
}

// WriteTo writes encoded bytes.
func (p *Packet) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.Bytes())
	return int64(n), err
}

// String formats the packet for logging.
func (p *Packet) String() string {
	return fmt.Sprintf("%d cmd=%d crc=%v % x", p.Address, p.Command, p.CRC, p.Data)
}
