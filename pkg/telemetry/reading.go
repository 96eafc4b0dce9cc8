package telemetry

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/jsonpb"
	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"
)

// Reading is a value read from a Channel.
type Reading struct {
	Source  string
	Channel Channel
	Value   int
	// Error is set when the read failed, Value is then a sentinel.
	Error string
	Time  time.Time
}

// String implements fmt.Stringer.
func (r *Reading) String() string {
	if r.Error != "" {
		return fmt.Sprintf("%s %s: error %s", r.Source, r.Channel, r.Error)
	}
	return fmt.Sprintf("%s %s = %d", r.Source, r.Channel, r.Value)
}

func stringValue(s string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: s}}
}

func numberValue(n float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: n}}
}

// Struct converts the Reading to a protobuf Struct.
func (r *Reading) Struct() *structpb.Struct {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{
		"source":  stringValue(r.Source),
		"channel": stringValue(r.Channel.String()),
		"value":   numberValue(float64(r.Value)),
		"time":    numberValue(float64(r.Time.UnixNano() / int64(time.Millisecond))),
	}}
	if r.Error != "" {
		s.Fields["error"] = stringValue(r.Error)
	}
	return s
}

// ReadingFromStruct converts a protobuf Struct back to a Reading.
func ReadingFromStruct(s *structpb.Struct) (*Reading, error) {
	r := &Reading{
		Source: s.Fields["source"].GetStringValue(),
		Value:  int(s.Fields["value"].GetNumberValue()),
		Error:  s.Fields["error"].GetStringValue(),
	}
	ms := int64(s.Fields["time"].GetNumberValue())
	r.Time = time.Unix(0, ms*int64(time.Millisecond))
	ch, err := ParseChannel(s.Fields["channel"].GetStringValue())
	if err != nil {
		return nil, err
	}
	r.Channel = ch
	return r, nil
}

// Encode serializes the Reading in protobuf.
func (r *Reading) Encode() ([]byte, error) {
	return proto.Marshal(r.Struct())
}

// DecodeReading deserializes a Reading from protobuf.
func DecodeReading(data []byte) (*Reading, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return ReadingFromStruct(&s)
}

// JSON formats the Reading in JSON.
func (r *Reading) JSON() (string, error) {
	return (&jsonpb.Marshaler{}).MarshalToString(r.Struct())
}
