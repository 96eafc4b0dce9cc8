package packet

// CRC7 computes the 7-bit CRC protecting frame headers.
type CRC7 struct {
	crc byte
}

// Begin seeds the CRC.
func (c *CRC7) Begin() {
	c.crc = 0x7f
}

// Write feeds bytes into the CRC. It never fails.
func (c *CRC7) Write(p []byte) (int, error) {
	for _, b := range p {
		c.WriteByte(b)
	}
	return len(p), nil
}

// WriteByte feeds one byte into the CRC.
func (c *CRC7) WriteByte(b byte) error {
	c.crc ^= b
	for bit := 0; bit < 8; bit++ {
		if c.crc&1 != 0 {
			c.crc = (c.crc >> 1) ^ 0x76
		} else {
			c.crc >>= 1
		}
	}
	return nil
}

// End finalizes the CRC.
func (c *CRC7) End() {
	c.crc ^= 0x7f
}

// Value returns the current CRC value.
func (c *CRC7) Value() byte {
	return c.crc
}

// CRC7Value computes CRC7 of data in one call.
func CRC7Value(data []byte) byte {
	var c CRC7
	c.Begin()
	c.Write(data)
	c.End()
	return c.Value()
}

// CRC14 computes the 14-bit CRC protecting frame data.
type CRC14 struct {
	crc uint16
}

// Begin seeds the CRC.
func (c *CRC14) Begin() {
	c.crc = 0x3fff
}

// Write feeds bytes into the CRC. It never fails.
func (c *CRC14) Write(p []byte) (int, error) {
	for _, b := range p {
		c.WriteByte(b)
	}
	return len(p), nil
}

// WriteByte feeds one byte into the CRC.
func (c *CRC14) WriteByte(b byte) error {
	c.crc ^= uint16(b)
	for bit := 0; bit < 8; bit++ {
		if c.crc&1 != 0 {
			c.crc = (c.crc >> 1) ^ 0x22f0
		} else {
			c.crc >>= 1
		}
	}
	return nil
}

// End finalizes the CRC.
func (c *CRC14) End() {
	c.crc ^= 0x3fff
}

// Value returns the current CRC value.
func (c *CRC14) Value() uint16 {
	return c.crc
}

// CRC14Value computes CRC14 of data in one call.
func CRC14Value(data []byte) uint16 {
	var c CRC14
	c.Begin()
	c.Write(data)
	c.End()
	return c.Value()
}

// Checksum is the 7-bit additive checksum used when CRC is off.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum & 0x7f
}

// headerCode computes the integrity code of frame header bytes.
func headerCode(crc bool, header []byte) byte {
	if crc {
		return CRC7Value(header)
	}
	return Checksum(header)
}

// appendDataCode appends the integrity code of data to buf.
func appendDataCode(buf []byte, crc bool, data []byte) []byte {
	if !crc {
		return append(buf, Checksum(data))
	}
	v := CRC14Value(data)
	return append(buf, byte(v&0x7f), byte((v>>7)&0x7f))
}

func dataCodeLen(crc bool) int {
	if crc {
		return 2
	}
	return 1
}
