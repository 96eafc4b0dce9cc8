//go:build !linux
// +build !linux

package device

import "errors"

// ErrUnsupported is returned on platforms without joystick support.
var ErrUnsupported = errors.New("joystick not supported on this platform")

// Open opens a joystick device.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}

// DetectAndOpen opens the first available device from startIndex.
func DetectAndOpen(startIndex int) (Device, error) {
	return nil, ErrUnsupported
}
