package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/sabertooth/pkg/packet"
	st "github.com/robotalks/sabertooth/pkg/sabertooth"
)

// Channel is a readable channel of a motor driver.
type Channel struct {
	Address  byte
	Type     byte
	Number   byte
	GetType  st.GetType
	Unscaled bool
}

// ParseChannel parses ADDR:TN[:KIND[:raw]], e.g. 128:M1:battery.
// TN is parsed by sabertooth.ParseTypeNumber.
func ParseChannel(s string) (ch Channel, err error) {
	fields := strings.Split(s, ":")
	if len(fields) < 2 || len(fields) > 4 {
		return ch, fmt.Errorf("invalid channel %q, expect ADDR:TN[:KIND[:raw]]", s)
	}
	addr, err := strconv.Atoi(fields[0])
	if err != nil || addr < int(packet.MinAddress) || addr > int(packet.MaxAddress) {
		return ch, fmt.Errorf("invalid address in channel %q", s)
	}
	ch.Address = byte(addr)
	if ch.Type, ch.Number, err = st.ParseTypeNumber(fields[1]); err != nil {
		return ch, err
	}
	if len(fields) > 2 {
		if ch.GetType, err = st.ParseGetType(fields[2]); err != nil {
			return ch, err
		}
	}
	if len(fields) > 3 {
		if fields[3] != "raw" {
			return ch, fmt.Errorf("invalid modifier %q in channel %q", fields[3], s)
		}
		ch.Unscaled = true
	}
	return ch, nil
}

// ParseChannels parses a list of channels.
func ParseChannels(strs []string) ([]Channel, error) {
	channels := make([]Channel, 0, len(strs))
	for _, str := range strs {
		ch, err := ParseChannel(str)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// String formats the channel the way ParseChannel accepts.
func (c Channel) String() string {
	s := fmt.Sprintf("%d:%s:%s", c.Address, st.FormatTypeNumber(c.Type, c.Number), c.GetType)
	if c.Unscaled {
		s += ":raw"
	}
	return s
}

// Topic is the relative topic readings of the channel are published to.
func (c Channel) Topic() string {
	topic := fmt.Sprintf("%d/%s/%s", c.Address, st.FormatTypeNumber(c.Type, c.Number), c.GetType)
	if c.Unscaled {
		topic += "/raw"
	}
	return topic
}

// Request builds the get request of the channel.
func (c Channel) Request(crc bool, reqContext int) st.GetRequest {
	return st.GetRequest{
		Address:  c.Address,
		CRC:      crc,
		GetType:  c.GetType,
		Unscaled: c.Unscaled,
		Type:     c.Type,
		Number:   c.Number,
		Context:  reqContext,
	}
}
