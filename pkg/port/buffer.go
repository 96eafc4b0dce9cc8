package port

import "github.com/golang/glog"

// DefaultBufferSize is the capacity of a Buffer created by NewBuffer(0).
const DefaultBufferSize = 256

// Buffer queues received bytes for non-blocking reads.
type Buffer struct {
	ch chan byte
}

// NewBuffer creates a Buffer holding up to size bytes.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{ch: make(chan byte, size)}
}

// Push queues received bytes. Bytes are dropped when the buffer is full.
func (b *Buffer) Push(p []byte) {
	for n, c := range p {
		select {
		case b.ch <- c:
		default:
			glog.Warningf("receive buffer full, dropped %d bytes", len(p)-n)
			return
		}
	}
}

// TryReadByte implements sabertooth.Port.
func (b *Buffer) TryReadByte() (byte, bool) {
	select {
	case c := <-b.ch:
		return c, true
	default:
		return 0, false
	}
}

// Len returns the number of queued bytes.
func (b *Buffer) Len() int {
	return len(b.ch)
}
