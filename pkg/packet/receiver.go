package packet

import "fmt"

// Reply is a decoded reply frame.
type Reply struct {
	Address byte
	Code    ReplyCode
	CRC     bool
	Flags   byte
	Value   int
	Type    byte
	Number  byte
}

// Matches checks if the reply echoes the selector of a get request.
func (r Reply) Matches(flags, typ, number byte) bool {
	return r.Flags&^FlagNegative == flags && r.Type == typ && r.Number == number
}

// Bytes encodes the reply as the motor driver sends it.
func (r Reply) Bytes() []byte {
	code := byte(r.Code)
	if r.CRC {
		code += CRCOffset
	}
	flags, lo, hi := EncodeValue(r.Value, r.Flags&^FlagNegative)
	b := make([]byte, 0, MaxPacketLen)
	b = append(b, r.Address, code, flags)
	b = append(b, headerCode(r.CRC, b))
	b = append(b, lo, hi, r.Type, r.Number)
	return appendDataCode(b, r.CRC, b[4:8])
}

// String formats the reply for logging.
func (r Reply) String() string {
	return fmt.Sprintf("%d rc=%d crc=%v flags=%02x %c%d=%d",
		r.Address, r.Code, r.CRC, r.Flags, r.Type, r.Number, r.Value)
}

// replyDataLen returns the data length following the header of a known reply.
func replyDataLen(code ReplyCode) (int, bool) {
	switch code {
	case ReplyGet:
		return 4, true
	}
	return 0, false
}

// isCRCReplyCode checks if b is a known reply code with the CRC offset.
// Those are the only bytes after the address allowed to have the top bit set.
func isCRCReplyCode(b byte) bool {
	if b < CRCOffset {
		return false
	}
	_, ok := replyDataLen(ReplyCode(b - CRCOffset))
	return ok
}

const replyHeaderLen = 4

// Receiver assembles a reply frame from bytes received one at a time.
// Once a frame is ready, further bytes are ignored until Reset.
type Receiver struct {
	buf    [MaxPacketLen]byte
	length int
	expect int
	crc    bool
	ready  bool
}

// Ready indicates a complete and verified frame is available.
func (r *Receiver) Ready() bool {
	return r.ready
}

// Reset discards the current frame.
func (r *Receiver) Reset() {
	r.length, r.expect, r.crc, r.ready = 0, 0, false, false
}

// Address is the address of the replying device.
func (r *Receiver) Address() byte {
	return r.buf[0]
}

// Command is the reply code, without the CRC offset.
func (r *Receiver) Command() ReplyCode {
	if r.crc {
		return ReplyCode(r.buf[1] - CRCOffset)
	}
	return ReplyCode(r.buf[1])
}

// UsingCRC indicates the frame is protected by CRC.
func (r *Receiver) UsingCRC() bool {
	return r.crc
}

// Data returns the raw bytes received for the current frame.
func (r *Receiver) Data() []byte {
	return r.buf[:r.length]
}

// Reply decodes the current frame. Only valid when Ready.
func (r *Receiver) Reply() Reply {
	return Reply{
		Address: r.buf[0],
		Code:    r.Command(),
		CRC:     r.crc,
		Flags:   r.buf[2],
		Value:   DecodeValue(r.buf[2], r.buf[4], r.buf[5]),
		Type:    r.buf[6],
		Number:  r.buf[7],
	}
}

// Read consumes one byte.
func (r *Receiver) Read(b byte) {
	if r.ready {
		return
	}
	switch {
	case r.length == 0:
		if !IsAddress(b) {
			return
		}
	case r.length == 1 && IsAddress(b) && !isCRCReplyCode(b):
		r.Reset()
	case r.length >= 2 && IsAddress(b):
		r.Reset()
	}
	r.buf[r.length] = b
	r.length++

	if r.length == replyHeaderLen {
		if !r.parseHeader() {
			r.resync()
		}
		return
	}
	if r.expect > 0 && r.length == r.expect {
		if r.verifyData() {
			r.ready = true
		} else {
			r.resync()
		}
	}
}

func (r *Receiver) parseHeader() bool {
	code := r.buf[1]
	r.crc = code >= CRCOffset
	if r.crc {
		code -= CRCOffset
	}
	dataLen, ok := replyDataLen(ReplyCode(code))
	if !ok {
		return false
	}
	if headerCode(r.crc, r.buf[:3]) != r.buf[3] {
		return false
	}
	r.expect = replyHeaderLen + dataLen + dataCodeLen(r.crc)
	return true
}

func (r *Receiver) verifyData() bool {
	data := r.buf[replyHeaderLen : r.expect-dataCodeLen(r.crc)]
	code := appendDataCode(nil, r.crc, data)
	for i, b := range code {
		if r.buf[replyHeaderLen+len(data)+i] != b {
			return false
		}
	}
	return true
}

// resync drops the first byte and rescans the rest for the next frame.
func (r *Receiver) resync() {
	var pending [MaxPacketLen]byte
	n := copy(pending[:], r.buf[1:r.length])
	r.Reset()
	for _, b := range pending[:n] {
		r.Read(b)
	}
}
