package packet

// MaxValue is the largest magnitude a 14-bit value can carry.
const MaxValue = 16383

// FlagNegative is the flag bit set for negative values.
const FlagNegative byte = 0x01

// EncodeValue splits value into flags and two 7-bit words.
// Out of range values saturate at ±MaxValue.
func EncodeValue(value int, flags byte) (byte, byte, byte) {
	if value > MaxValue {
		value = MaxValue
	} else if value < -MaxValue {
		value = -MaxValue
	}
	if value < 0 {
		value = -value
		flags |= FlagNegative
	}
	return flags, byte(value & 0x7f), byte((value >> 7) & 0x7f)
}

// DecodeValue reconstructs a value from flags and two 7-bit words.
func DecodeValue(flags, lo, hi byte) int {
	value := int(lo&0x7f) | int(hi&0x7f)<<7
	if flags&FlagNegative != 0 {
		return -value
	}
	return value
}
