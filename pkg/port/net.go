package port

import (
	"net"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/websocket"
)

// DialTimeout is the timeout connecting network transports.
var DialTimeout = 5 * time.Second

// DialTCP connects a serial server (e.g. ser2net) over TCP.
func DialTCP(addr string) (*Stream, error) {
	conn, err := net.DialTimeout("tcp", addr, DialTimeout)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}
	return NewStream(addr, conn), nil
}

// DialWebsocket connects a serial line exposed over websocket.
// Data is carried in binary frames.
func DialWebsocket(url, origin string) (*Stream, error) {
	conf, err := websocket.NewConfig(url, origin)
	if err != nil {
		return nil, errors.Wrapf(err, "websocket config %s", url)
	}
	conn, err := websocket.DialConfig(conf)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	conn.PayloadType = websocket.BinaryFrame
	return NewStream(url, conn), nil
}
