package port

import (
	"context"
	"io"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			require.FailNow(t, "condition not met")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBuffer(t *testing.T) {
	b := NewBuffer(4)
	_, ok := b.TryReadByte()
	require.False(t, ok)
	b.Push([]byte{1, 2, 3, 4, 5, 6})
	require.Equal(t, 4, b.Len())
	for i := byte(1); i <= 4; i++ {
		c, ok := b.TryReadByte()
		require.True(t, ok)
		require.Equal(t, i, c)
	}
	_, ok = b.TryReadByte()
	require.False(t, ok)
	require.Equal(t, DefaultBufferSize, cap(NewBuffer(0).ch))
}

func TestStream(t *testing.T) {
	local, remote := net.Pipe()
	s := NewStream("pipe", local)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	go remote.Write([]byte{0x80, 0xb9, 0x00})
	waitFor(t, func() bool { return s.Len() == 3 })
	c, ok := s.TryReadByte()
	require.True(t, ok)
	require.Equal(t, byte(0x80), c)

	go s.Write([]byte{1, 2})
	buf := make([]byte, 2)
	_, err := io.ReadFull(remote, buf)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, buf)

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestStreamOnData(t *testing.T) {
	local, remote := net.Pipe()
	s := NewStream("pipe", local)
	dataCh := make(chan []byte, 1)
	s.OnData = func(data []byte) { dataCh <- data }
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()

	go remote.Write([]byte{7, 8})
	require.Equal(t, []byte{7, 8}, <-dataCh)
	require.Zero(t, s.Len())
	remote.Close()
	require.Error(t, <-errCh)
}

func TestOpen(t *testing.T) {
	_, err := Open("nope://somewhere")
	require.Error(t, err)

	opened := make(chan *url.URL, 1)
	RegisterScheme("test", func(u *url.URL) (Conn, error) {
		opened <- u
		return NewStream(u.Host, nil), nil
	})
	conn, err := Open("test://line0?x=1")
	require.NoError(t, err)
	require.NotNil(t, conn)
	u := <-opened
	require.Equal(t, "line0", u.Host)
	require.Equal(t, "1", u.Query().Get("x"))

	_, err = Open("serial:///dev/null?baud=fast")
	require.Error(t, err)
}
