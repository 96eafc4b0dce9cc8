package device

import (
	"encoding/binary"
	"io"
)

// Kind is the source of an Event.
type Kind uint8

// Event kinds.
const (
	KindButton Kind = 0x01
	KindAxis   Kind = 0x02

	kindInit uint8 = 0x80
)

// AxisMax is the magnitude of a fully deflected axis.
const AxisMax = 32767

// Event is a change on an axis or a button.
type Event struct {
	Kind  Kind
	Index int
	Value int
	// Init indicates the event reports the initial state.
	Init bool
}

// Pressed indicates a button is down.
func (e Event) Pressed() bool {
	return e.Kind == KindButton && e.Value != 0
}

// EventSize is the size of an event record read from a device.
const EventSize = 8

// DecodeEvent decodes an event record: 32-bit time, 16-bit value,
// 8-bit type and 8-bit number, little endian.
func DecodeEvent(b []byte) (ev Event, ok bool) {
	if len(b) < EventSize {
		return ev, false
	}
	typ := b[6]
	ev.Kind = Kind(typ &^ kindInit)
	if ev.Kind != KindButton && ev.Kind != KindAxis {
		return ev, false
	}
	ev.Init = typ&kindInit != 0
	ev.Value = int(int16(binary.LittleEndian.Uint16(b[4:6])))
	ev.Index = int(b[7])
	return ev, true
}

// Device is an opened joystick.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name of the device.
	Name() string
	// AxisCount returns the number of axes on the device.
	AxisCount() int
	// ButtonCount returns the number of buttons on the device.
	ButtonCount() int
	// ReadEvent blocks until the next axis or button event.
	ReadEvent() (Event, error)
}
