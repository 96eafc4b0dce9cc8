package port

import (
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// DefaultBaudRate is the factory baud rate of USB Sabertooth.
const DefaultBaudRate = 9600

// SerialConfig configures a serial port.
type SerialConfig struct {
	Device      string
	BaudRate    int
	ReadTimeout time.Duration
}

// OpenSerial opens a serial port as a Stream.
func OpenSerial(conf SerialConfig) (*Stream, error) {
	if conf.Device == "" {
		return nil, errors.New("serial device is required")
	}
	if conf.BaudRate == 0 {
		conf.BaudRate = DefaultBaudRate
	}
	if conf.ReadTimeout == 0 {
		conf.ReadTimeout = 100 * time.Millisecond
	}
	mode := &serial.Mode{
		BaudRate: conf.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(conf.Device, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", conf.Device)
	}
	if err = p.SetReadTimeout(conf.ReadTimeout); err != nil {
		p.Close()
		return nil, errors.Wrapf(err, "set read timeout %s", conf.Device)
	}
	if err = p.ResetInputBuffer(); err != nil {
		p.Close()
		return nil, errors.Wrapf(err, "reset %s", conf.Device)
	}
	s := NewStream(conf.Device, p)
	s.ReadTimeout = true
	return s, nil
}

// ListSerial lists serial ports on the system.
func ListSerial() ([]string, error) {
	return serial.GetPortsList()
}
