package mqtt

import (
	"context"
	"net/url"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/sabertooth/pkg/port"
)

// Topics relative to the line prefix.
const (
	// TopicTX carries bytes written to the motor driver.
	TopicTX = "tx"
	// TopicRX carries bytes received from the motor driver.
	TopicRX = "rx"
)

func init() {
	port.RegisterScheme("mqtt", func(u *url.URL) (port.Conn, error) {
		b, err := Dial(u.String())
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}

// Bridge is a line tunneled over MQTT, served by a Relay elsewhere.
type Bridge struct {
	*port.Buffer

	Queue *Queue
	sub   *Subscription
}

// NewBridge creates a Bridge on a Queue.
func NewBridge(q *Queue) *Bridge {
	b := &Bridge{Buffer: port.NewBuffer(0), Queue: q}
	b.sub = q.Sub(TopicRX, func(topic string, payload []byte) {
		b.Push(payload)
	})
	return b
}

// Dial connects the broker and creates a Bridge.
func Dial(brokerURL string) (*Bridge, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	b := NewBridge(q)
	if err = q.Connect(); err != nil {
		return nil, errors.Wrapf(err, "connect %s", brokerURL)
	}
	return b, nil
}

// Write implements io.Writer.
func (b *Bridge) Write(p []byte) (int, error) {
	if err := b.Queue.Pub(TopicTX, p); err != nil {
		return 0, errors.Wrap(err, "publish")
	}
	return len(p), nil
}

// Close implements io.Closer.
func (b *Bridge) Close() error {
	b.sub.Close()
	return b.Queue.Close()
}

// Run implements Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	<-ctx.Done()
	b.Close()
	return ctx.Err()
}

// Relay serves a local line over MQTT for Bridges.
type Relay struct {
	Queue  *Queue
	Stream *port.Stream
}

// NewRelay creates a Relay. It takes over data received on stream.
func NewRelay(q *Queue, stream *port.Stream) *Relay {
	r := &Relay{Queue: q, Stream: stream}
	stream.OnData = func(data []byte) {
		if err := q.Pub(TopicRX, data); err != nil {
			glog.Warningf("relay rx: %v", err)
		}
	}
	return r
}

// Run implements Runnable.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.Queue.Sub(TopicTX, func(topic string, payload []byte) {
		if _, err := r.Stream.Write(payload); err != nil {
			glog.Warningf("relay tx: %v", err)
		}
	})
	defer sub.Close()
	if err := r.Queue.Connect(); err != nil {
		return errors.Wrap(err, "connect")
	}
	defer r.Queue.Close()
	return r.Stream.Run(ctx)
}
