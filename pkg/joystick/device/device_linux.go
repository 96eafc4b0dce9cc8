//go:build linux
// +build linux

package device

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"
)

type device struct {
	file        *os.File
	index       int
	name        string
	axisCount   uint8
	buttonCount uint8
}

// Open opens /dev/input/jsN.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &device{file: f, index: index}

	errno := d.ioctl(iocGAXES, unsafe.Pointer(&d.axisCount))
	if errno == 0 {
		errno = d.ioctl(iocGBUTTONS, unsafe.Pointer(&d.buttonCount))
	}
	if errno == 0 {
		var buf [256]byte
		if errno = d.ioctl(iocGNAME, unsafe.Pointer(&buf)); errno == 0 {
			if pos := bytes.IndexByte(buf[:], 0); pos >= 0 {
				d.name = string(buf[:pos])
			} else {
				d.name = string(buf[:])
			}
		}
	}
	if errno != 0 {
		d.file.Close()
		return nil, errno
	}
	return d, nil
}

// DetectAndOpen opens the first available device from startIndex.
// It returns nil without error if there's none.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < 256; index++ {
		d, err := Open(index)
		if err == nil {
			return d, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return nil, nil
}

func (d *device) Close() error {
	return d.file.Close()
}

func (d *device) Index() int {
	return d.index
}

func (d *device) Name() string {
	return d.name
}

func (d *device) AxisCount() int {
	return int(d.axisCount)
}

func (d *device) ButtonCount() int {
	return int(d.buttonCount)
}

func (d *device) ReadEvent() (Event, error) {
	var buf [EventSize]byte
	for {
		if _, err := io.ReadFull(d.file, buf[:]); err != nil {
			return Event{}, err
		}
		if ev, ok := DecodeEvent(buf[:]); ok {
			return ev, nil
		}
	}
}

const (
	iocGAXES    uint = 0x80016a11
	iocGBUTTONS uint = 0x80016a12
	iocGNAME    uint = 0x80ff6a13
)

func (d *device) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL, d.file.Fd(), uintptr(req), uintptr(ptr))
	return err
}
