package port

import (
	"context"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	fx "github.com/robotalks/sabertooth/pkg/framework"
)

// Conn is an open line to a motor driver.
type Conn interface {
	io.Writer
	io.Closer
	fx.Runnable
	// TryReadByte returns the next received byte without blocking.
	TryReadByte() (byte, bool)
}

// DataHandler receives chunks read from a Stream.
type DataHandler func([]byte)

// Stream adapts a blocking io.ReadWriter into a Conn.
// Run reads in the background into the receive Buffer.
type Stream struct {
	*Buffer

	ReadWriter io.ReadWriter
	Name       string
	// OnData, when set, receives data instead of the Buffer.
	OnData DataHandler
	// ReadTimeout is true if Read returns periodically without data,
	// e.g. a serial port with read timeout.
	ReadTimeout bool
}

// NewStream creates a Stream.
func NewStream(name string, rw io.ReadWriter) *Stream {
	return &Stream{Buffer: NewBuffer(0), ReadWriter: rw, Name: name}
}

// Write implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	n, err := s.ReadWriter.Write(p)
	if err != nil {
		return n, errors.Wrapf(err, "write %s", s.Name)
	}
	return n, nil
}

// Close implements io.Closer.
func (s *Stream) Close() error {
	if closer, ok := s.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Run implements Runnable.
func (s *Stream) Run(ctx context.Context) error {
	if s.ReadTimeout {
		return s.readLoop(ctx)
	}
	return fx.RunWithContextCloser(ctx, s, func() error {
		return s.readLoop(ctx)
	})
}

func (s *Stream) readLoop(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := s.ReadWriter.Read(buf)
		if n > 0 {
			glog.V(3).Infof("%s RX % x", s.Name, buf[:n])
			if h := s.OnData; h != nil {
				h(append([]byte(nil), buf[:n]...))
			} else {
				s.Push(buf[:n])
			}
		}
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			if err == io.EOF {
				glog.Infof("%s closed", s.Name)
			}
			return errors.Wrapf(err, "read %s", s.Name)
		}
	}
}
