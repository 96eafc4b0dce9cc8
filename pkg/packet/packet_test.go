package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacket(t *testing.T) {
	testCases := []struct {
		name   string
		packet *Packet
		expect []byte
	}{
		{"set crc", NewSet(128, true, 0, 'M', 1, 2047),
			[]byte{0x80, 0x98, 0x7d, 0x00, 0x7f, 0x0f, 0x4d, 0x01, 0x20, 0x05}},
		{"set checksum", NewSet(128, false, 0, 'M', 1, 2047),
			[]byte{0x80, 0x28, 0x28, 0x00, 0x7f, 0x0f, 0x4d, 0x01, 0x5c}},
		{"set negative", NewSet(128, true, 0, 'M', 1, -500),
			[]byte{0x80, 0x98, 0x7d, 0x01, 0x74, 0x03, 0x4d, 0x01, 0x6c, 0x30}},
		{"get crc", NewGet(128, true, 0, 'M', 1),
			[]byte{0x80, 0x99, 0x51, 0x00, 0x4d, 0x01, 0x6f, 0x51}},
		{"get checksum", NewGet(128, false, 0, 'M', 1),
			[]byte{0x80, 0x29, 0x29, 0x00, 0x4d, 0x01, 0x4e}},
		{"get battery", NewGet(128, true, 0x10, 'M', 1),
			[]byte{0x80, 0x99, 0x51, 0x10, 0x4d, 0x01, 0x02, 0x55}},
		{"no data", &Packet{Address: 128, Command: CmdSet},
			[]byte{0x80, 0x28, 0x28}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.packet.Bytes())
			require.True(t, len(tc.expect) <= MaxPacketLen)
			var buf bytes.Buffer
			n, err := tc.packet.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, tc.expect, buf.Bytes())
			require.Equal(t, int64(len(tc.expect)), n)
		})
	}
}

func TestPacketTooLong(t *testing.T) {
	p := &Packet{Address: 128, Command: CmdSet, Data: make([]byte, MaxDataLen+1)}
	require.Panics(t, func() { p.Bytes() })
}
