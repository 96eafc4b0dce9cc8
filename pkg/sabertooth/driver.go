package sabertooth

import (
	"context"
	"fmt"
	"time"

	"github.com/robotalks/sabertooth/pkg/packet"
)

// Channel types and numbers understood by the motor driver.
const (
	TypeMotor     byte = 'M'
	TypePower     byte = 'P'
	TypeFreewheel byte = 'Q'
	TypeRamping   byte = 'R'

	NumberDrive byte = 'D'
	NumberTurn  byte = 'T'
	NumberAll   byte = '*'
)

// FreewheelDefault is the value which lets a motor freewheel.
const FreewheelDefault = 2048

// Driver is a motor driver at one address on a Serial.
// It holds no request state; all of that lives in the Serial.
type Driver struct {
	Serial *Serial

	address byte
	crc     bool
}

// NewDriver creates a Driver for address, which must be within 128..135.
func NewDriver(s *Serial, address byte) (*Driver, error) {
	if address < packet.MinAddress || address > packet.MaxAddress {
		return nil, fmt.Errorf("invalid address %d, expect %d..%d",
			address, packet.MinAddress, packet.MaxAddress)
	}
	return &Driver{Serial: s, address: address, crc: s.Config.UseCRC()}, nil
}

// Address returns the address of the driver.
func (d *Driver) Address() byte {
	return d.address
}

// UsingCRC indicates CRC is used instead of checksum.
func (d *Driver) UsingCRC() bool {
	return d.crc
}

// UseCRC switches to CRC protected frames.
func (d *Driver) UseCRC() {
	d.crc = true
}

// UseChecksum switches to checksum protected frames.
func (d *Driver) UseChecksum() {
	d.crc = false
}

// Command sends a raw command with data.
func (d *Driver) Command(cmd packet.Command, data ...byte) error {
	return d.Serial.Write(d.address, cmd, d.crc, data...)
}

// Set sets a value.
func (d *Driver) Set(typ, number byte, value int) error {
	return d.SetWith(typ, number, value, SetTypeValue)
}

// SetWith sends a set command of setType.
func (d *Driver) SetWith(typ, number byte, value int, setType SetType) error {
	return d.Serial.Set(d.address, d.crc, setType, typ, number, value)
}

// Motor sets the output of a motor, -2047..2047.
func (d *Driver) Motor(number byte, value int) error {
	return d.Set(TypeMotor, number, value)
}

// Power sets a power output, -2047..2047.
func (d *Driver) Power(number byte, value int) error {
	return d.Set(TypePower, number, value)
}

// Drive sets the forward speed in mixed mode.
func (d *Driver) Drive(value int) error {
	return d.Motor(NumberDrive, value)
}

// Turn sets the turning speed in mixed mode.
func (d *Driver) Turn(value int) error {
	return d.Motor(NumberTurn, value)
}

// Freewheel sets freewheeling of a motor; FreewheelDefault enables it.
func (d *Driver) Freewheel(number byte, value int) error {
	return d.Set(TypeFreewheel, number, value)
}

// ShutDown shuts down an output, or brings it back.
func (d *Driver) ShutDown(typ, number byte, shutdown bool) error {
	value := 0
	if shutdown {
		value = 2048
	}
	return d.SetWith(typ, number, value, SetTypeShutdown)
}

// SetRamping sets ramping of a motor, or all motors with NumberAll.
func (d *Driver) SetRamping(number byte, value int) error {
	return d.Set(TypeRamping, number, value)
}

// SetTimeout sets the serial timeout of the motor driver.
// The driver stops the motors if no command arrives in time.
func (d *Driver) SetTimeout(timeout time.Duration) error {
	ms := int(timeout / time.Millisecond)
	if timeout < 0 {
		ms = -1
	}
	return d.SetWith(TypeMotor, NumberAll, ms, SetTypeTimeout)
}

// KeepAlive resets the serial timeout of the motor driver.
func (d *Driver) KeepAlive() error {
	return d.SetWith(TypeMotor, NumberAll, 0, SetTypeKeepAlive)
}

// Request builds a get request for this driver.
func (d *Driver) Request(typ, number byte, getType GetType, unscaled bool) GetRequest {
	return GetRequest{
		Address:  d.address,
		CRC:      d.crc,
		GetType:  getType,
		Unscaled: unscaled,
		Type:     typ,
		Number:   number,
	}
}

// Get reads the value of a channel.
func (d *Driver) Get(ctx context.Context, typ, number byte) (int, error) {
	return d.Serial.Get(ctx, d.Request(typ, number, GetTypeValue, false))
}

// GetBattery reads the battery voltage of a motor output.
func (d *Driver) GetBattery(ctx context.Context, number byte, unscaled bool) (int, error) {
	return d.Serial.Get(ctx, d.Request(TypeMotor, number, GetTypeBattery, unscaled))
}

// GetCurrent reads the current of a motor output.
func (d *Driver) GetCurrent(ctx context.Context, number byte, unscaled bool) (int, error) {
	return d.Serial.Get(ctx, d.Request(TypeMotor, number, GetTypeCurrent, unscaled))
}

// GetTemperature reads the temperature of a motor output.
func (d *Driver) GetTemperature(ctx context.Context, number byte, unscaled bool) (int, error) {
	return d.Serial.Get(ctx, d.Request(TypeMotor, number, GetTypeTemperature, unscaled))
}

// AsyncGet arms a get of a channel value; reqContext comes back in the Result.
func (d *Driver) AsyncGet(typ, number byte, reqContext int) error {
	return d.asyncGet(d.Request(typ, number, GetTypeValue, false), reqContext)
}

// AsyncGetBattery arms a get of battery voltage.
func (d *Driver) AsyncGetBattery(number byte, reqContext int, unscaled bool) error {
	return d.asyncGet(d.Request(TypeMotor, number, GetTypeBattery, unscaled), reqContext)
}

// AsyncGetCurrent arms a get of motor current.
func (d *Driver) AsyncGetCurrent(number byte, reqContext int, unscaled bool) error {
	return d.asyncGet(d.Request(TypeMotor, number, GetTypeCurrent, unscaled), reqContext)
}

// AsyncGetTemperature arms a get of temperature.
func (d *Driver) AsyncGetTemperature(number byte, reqContext int, unscaled bool) error {
	return d.asyncGet(d.Request(TypeMotor, number, GetTypeTemperature, unscaled), reqContext)
}

func (d *Driver) asyncGet(req GetRequest, reqContext int) error {
	req.Context = reqContext
	return d.Serial.AsyncGet(req)
}
