package port

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Opener opens a Conn from URL.
type Opener func(u *url.URL) (Conn, error)

var (
	openers     = make(map[string]Opener)
	openersLock sync.RWMutex
)

func init() {
	RegisterScheme("serial", openSerialURL)
	RegisterScheme("file", openSerialURL)
	RegisterScheme("tcp", func(u *url.URL) (Conn, error) {
		return streamConn(DialTCP(u.Host))
	})
	openWS := func(u *url.URL) (Conn, error) {
		origin := u.Query().Get("origin")
		if origin == "" {
			origin = "http://localhost/"
		}
		return streamConn(DialWebsocket(u.String(), origin))
	}
	RegisterScheme("ws", openWS)
	RegisterScheme("wss", openWS)
}

// RegisterScheme registers an Opener for a URL scheme.
// It's intended to be called in init funcs.
func RegisterScheme(scheme string, opener Opener) {
	openersLock.Lock()
	openers[scheme] = opener
	openersLock.Unlock()
}

// Open opens a Conn from a URL, e.g.
//
//	/dev/ttyACM0
//	serial:///dev/ttyACM0?baud=9600
//	tcp://host:2000
//	ws://host/serial
//	mqtt://host:1883/sabertooth/line0/
//
// A plain path opens a serial port.
func Open(rawurl string) (Conn, error) {
	if !strings.Contains(rawurl, "://") {
		return streamConn(OpenSerial(SerialConfig{Device: rawurl}))
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}
	openersLock.RLock()
	opener := openers[u.Scheme]
	openersLock.RUnlock()
	if opener == nil {
		return nil, fmt.Errorf("unsupported port scheme %q", u.Scheme)
	}
	return opener(u)
}

func openSerialURL(u *url.URL) (Conn, error) {
	conf := SerialConfig{Device: u.Path}
	if u.Host != "" {
		conf.Device = u.Host + u.Path
	}
	if val := u.Query().Get("baud"); val != "" {
		baud, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid baud %q: %v", val, err)
		}
		conf.BaudRate = baud
	}
	return streamConn(OpenSerial(conf))
}

// streamConn avoids returning a typed nil Conn.
func streamConn(s *Stream, err error) (Conn, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
