package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueCodec(t *testing.T) {
	testCases := []struct {
		name  string
		value int
		flags byte
		words [3]byte
		back  int
	}{
		{"zero", 0, 0, [3]byte{0, 0, 0}, 0},
		{"positive", 2047, 0, [3]byte{0, 0x7f, 0x0f}, 2047},
		{"negative", -500, 0, [3]byte{1, 0x74, 0x03}, -500},
		{"max", MaxValue, 0, [3]byte{0, 0x7f, 0x7f}, MaxValue},
		{"saturate high", 20000, 0, [3]byte{0, 0x7f, 0x7f}, MaxValue},
		{"saturate low", -20000, 0, [3]byte{1, 0x7f, 0x7f}, -MaxValue},
		{"extra flags", -1, 0x20, [3]byte{0x21, 1, 0}, -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			flags, lo, hi := EncodeValue(tc.value, tc.flags)
			require.Equal(t, tc.words, [3]byte{flags, lo, hi})
			require.Equal(t, tc.back, DecodeValue(flags, lo, hi))
		})
	}
}

func TestValueRoundTrip(t *testing.T) {
	for v := -MaxValue; v <= MaxValue; v++ {
		flags, lo, hi := EncodeValue(v, 0)
		require.True(t, lo < 0x80 && hi < 0x80)
		if v != DecodeValue(flags, lo, hi) {
			require.Failf(t, "round trip", "value %d", v)
		}
	}
}
