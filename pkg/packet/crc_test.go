package packet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRC7(t *testing.T) {
	testCases := []struct {
		name   string
		data   []byte
		expect byte
	}{
		{"empty", nil, 0},
		{"zero", []byte{0}, 0x12},
		{"set header", []byte{128, 152}, 0x7d},
		{"check", []byte("123456789"), 0x32},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, CRC7Value(tc.data))
			var c CRC7
			c.Begin()
			for _, b := range tc.data {
				c.WriteByte(b)
			}
			c.End()
			require.Equal(t, tc.expect, c.Value())
		})
	}
}

func TestCRC7Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		data := make([]byte, 1+rnd.Intn(9))
		rnd.Read(data)
		v := CRC7Value(data)
		require.True(t, v < 0x80)
		require.Equal(t, v, CRC7Value(data))
		for n := range data {
			for bit := uint(0); bit < 8; bit++ {
				flipped := append([]byte(nil), data...)
				flipped[n] ^= 1 << bit
				require.NotEqualf(t, v, CRC7Value(flipped), "% x flip %d:%d", data, n, bit)
			}
		}
	}
}

func TestCRC14(t *testing.T) {
	require.Equal(t, uint16(0), CRC14Value(nil))
	require.Equal(t, uint16(0x2669), CRC14Value([]byte("123456789")))
	require.Equal(t, uint16(0x05<<7|0x20), CRC14Value([]byte{0x00, 0x7f, 0x0f, 'M', 1}))
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		data := make([]byte, 1+rnd.Intn(5))
		rnd.Read(data)
		require.True(t, CRC14Value(data) < 0x4000)
	}
}

func TestChecksum(t *testing.T) {
	require.Equal(t, byte(0), Checksum(nil))
	require.Equal(t, byte(0x28), Checksum([]byte{128, 40}))
	require.Equal(t, byte(0x5c), Checksum([]byte{0x00, 0x7f, 0x0f, 'M', 1}))
}
