package sabertooth

import (
	"fmt"
	"strings"

	"github.com/robotalks/sabertooth/pkg/packet"
)

// GetType selects what a get request reads.
type GetType byte

// Get types.
const (
	GetTypeValue       GetType = 0x00
	GetTypeBattery     GetType = 0x10
	GetTypeCurrent     GetType = 0x20
	GetTypeTemperature GetType = 0x40
)

// flagUnscaled asks for raw readings instead of scaled ones.
const flagUnscaled byte = 0x02

var getTypeNames = map[GetType]string{
	GetTypeValue:       "value",
	GetTypeBattery:     "battery",
	GetTypeCurrent:     "current",
	GetTypeTemperature: "temperature",
}

// String implements fmt.Stringer.
func (t GetType) String() string {
	if name, ok := getTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("get(%02x)", byte(t))
}

// ParseGetType parses the name of a GetType.
func ParseGetType(s string) (GetType, error) {
	s = strings.ToLower(s)
	for t, name := range getTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown get type %q", s)
}

// SetType selects what a set command writes.
type SetType byte

// Set types.
const (
	SetTypeValue     SetType = 0x00
	SetTypeKeepAlive SetType = 0x10
	SetTypeShutdown  SetType = 0x20
	SetTypeTimeout   SetType = 0x40
)

// GetRequest describes a get request.
type GetRequest struct {
	Address  byte
	CRC      bool
	GetType  GetType
	Unscaled bool
	Type     byte
	Number   byte
	// Context is returned unchanged with the Result.
	Context int
}

// Flags returns the flags byte sent on wire.
func (r GetRequest) Flags() byte {
	flags := byte(r.GetType)
	if r.Unscaled {
		flags |= flagUnscaled
	}
	return flags
}

// Packet builds the request frame.
func (r GetRequest) Packet() *packet.Packet {
	return packet.NewGet(r.Address, r.CRC, r.Flags(), r.Type, r.Number)
}

// Result is the outcome of a get request.
type Result struct {
	GetRequest
	// Value is the decoded value, or a sentinel if Err is set.
	Value int
	Err   error
}

type requestState int

const (
	stateIdle    requestState = iota // no request
	stateArmed                       // stored, not sent yet
	statePending                     // sent, waiting for reply
)

var requestStateNames = []string{"idle", "armed", "pending"}

func (s requestState) String() string {
	return requestStateNames[s]
}

// request tracks the single outstanding get request of a line.
type request struct {
	GetRequest
	state   requestState
	timeout *Timeout
	// seq identifies the armed request.
	seq uint64
}

func (r *request) busy() bool {
	return r.state != stateIdle
}

func (r *request) pending() bool {
	return r.state == statePending
}

func (r *request) expired() bool {
	return r.timeout.Expired()
}

func (r *request) arm(req GetRequest) {
	r.GetRequest, r.state = req, stateArmed
	r.seq++
}

// sent starts waiting for a reply.
func (r *request) sent() {
	r.state = statePending
	r.timeout.Reset()
}

// done completes the request.
func (r *request) done(value int, err error) Result {
	r.state = stateIdle
	r.timeout.Expire()
	return Result{GetRequest: r.GetRequest, Value: value, Err: err}
}

// ParseTypeNumber parses a channel selector like M1, P2, MD or R*.
// A digit is the channel number itself, other characters are sent as is.
func ParseTypeNumber(s string) (typ, number byte, err error) {
	if len(s) != 2 {
		return 0, 0, fmt.Errorf("invalid channel %q, expect type and number like M1", s)
	}
	typ, number = s[0], s[1]
	if number >= '0' && number <= '9' {
		number -= '0'
	}
	return typ, number, nil
}

// FormatTypeNumber formats a channel selector the way ParseTypeNumber accepts.
func FormatTypeNumber(typ, number byte) string {
	if number < 10 {
		return fmt.Sprintf("%c%d", typ, number)
	}
	return fmt.Sprintf("%c%c", typ, number)
}
