package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/sabertooth/pkg/framework"
	"github.com/robotalks/sabertooth/pkg/packet"
	st "github.com/robotalks/sabertooth/pkg/sabertooth"
)

func TestParseChannel(t *testing.T) {
	testCases := []struct {
		input  string
		expect Channel
		str    string
		topic  string
	}{
		{"128:M1", Channel{Address: 128, Type: 'M', Number: 1}, "128:M1:value", "128/M1/value"},
		{"129:M2:battery", Channel{Address: 129, Type: 'M', Number: 2, GetType: st.GetTypeBattery}, "129:M2:battery", "129/M2/battery"},
		{"130:P1:current:raw", Channel{Address: 130, Type: 'P', Number: 1, GetType: st.GetTypeCurrent, Unscaled: true}, "130:P1:current:raw", "130/P1/current/raw"},
		{"135:MD", Channel{Address: 135, Type: 'M', Number: 'D'}, "135:MD:value", "135/MD/value"},
		{"128:M1:Temperature", Channel{Address: 128, Type: 'M', Number: 1, GetType: st.GetTypeTemperature}, "128:M1:temperature", "128/M1/temperature"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			ch, err := ParseChannel(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expect, ch)
			require.Equal(t, tc.str, ch.String())
			require.Equal(t, tc.topic, ch.Topic())
		})
	}

	for _, input := range []string{"", "128", "127:M1", "abc:M1", "128:M", "128:M1:speed", "128:M1:battery:cooked", "1:2:3:4:5"} {
		_, err := ParseChannel(input)
		require.Errorf(t, err, "input %q", input)
	}

	channels, err := ParseChannels([]string{"128:M1", "128:M2:battery"})
	require.NoError(t, err)
	require.Len(t, channels, 2)
	_, err = ParseChannels([]string{"128:M1", "bad"})
	require.Error(t, err)
}

func TestReadingEncode(t *testing.T) {
	r := &Reading{
		Source:  "robot1",
		Channel: Channel{Address: 128, Type: 'M', Number: 1, GetType: st.GetTypeBattery},
		Value:   -120,
		Time:    time.Unix(1500000000, 123000000),
	}
	data, err := r.Encode()
	require.NoError(t, err)
	decoded, err := DecodeReading(data)
	require.NoError(t, err)
	require.Equal(t, r.Source, decoded.Source)
	require.Equal(t, r.Channel, decoded.Channel)
	require.Equal(t, r.Value, decoded.Value)
	require.Empty(t, decoded.Error)
	require.True(t, r.Time.Equal(decoded.Time))

	r.Error = st.ErrTimedOut.Error()
	decoded, err = DecodeReading(func() []byte { b, _ := r.Encode(); return b }())
	require.NoError(t, err)
	require.Equal(t, "get timed out", decoded.Error)

	out, err := r.JSON()
	require.NoError(t, err)
	require.Contains(t, out, `"channel":"128:M1:battery"`)
	require.Contains(t, out, `"error":"get timed out"`)

	_, err = DecodeReading([]byte{0xff, 0xff})
	require.Error(t, err)
}

type testPort struct {
	lock     sync.Mutex
	incoming []byte
	silent   map[byte]bool
}

func (p *testPort) Write(b []byte) (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(b) >= 6 && b[1] == byte(packet.CmdGet)+packet.CRCOffset && !p.silent[b[0]] {
		reply := packet.Reply{
			Address: b[0], Code: packet.ReplyGet, CRC: true,
			Flags: b[3], Type: b[4], Number: b[5],
			Value: int(b[5])*100 + int(b[3]),
		}
		p.incoming = append(p.incoming, reply.Bytes()...)
	}
	return len(b), nil
}

func (p *testPort) TryReadByte() (byte, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.incoming) == 0 {
		return 0, false
	}
	b := p.incoming[0]
	p.incoming = p.incoming[1:]
	return b, true
}

type testSink struct {
	topics   []string
	readings []*Reading
}

func (s *testSink) Pub(topic string, payload []byte) error {
	r, err := DecodeReading(payload)
	if err != nil {
		return err
	}
	s.topics = append(s.topics, topic)
	s.readings = append(s.readings, r)
	return nil
}

func TestPollerPublisher(t *testing.T) {
	c := clock.NewMock()
	port := &testPort{silent: map[byte]bool{130: true}}
	serial := st.NewSerial(port, st.Config{PollInterval: st.Infinite, Clock: c})
	channels, err := ParseChannels([]string{"128:M1", "129:M2:battery", "130:M1"})
	require.NoError(t, err)
	sink := &testSink{}
	l := fx.NewLoop().Add(NewPoller(serial, "robot1", channels...), &Publisher{Sink: sink})
	ctx := context.Background()

	l.RunOnce(ctx)
	l.RunOnce(ctx)
	l.RunOnce(ctx)
	require.True(t, serial.Pending())
	c.Add(st.DefaultTimeout)
	l.RunOnce(ctx)
	l.RunOnce(ctx)

	require.Equal(t, []string{
		"robot1/128/M1/value",
		"robot1/129/M2/battery",
		"robot1/130/M1/value",
		"robot1/128/M1/value",
	}, sink.topics)
	require.Equal(t, 100, sink.readings[0].Value)
	require.Equal(t, 200+0x10, sink.readings[1].Value)
	require.Equal(t, st.GetTimedOut, sink.readings[2].Value)
	require.Equal(t, st.ErrTimedOut.Error(), sink.readings[2].Error)
	require.Equal(t, channels[2], sink.readings[2].Channel)
}

func TestPollerResultTaken(t *testing.T) {
	c := clock.NewMock()
	port := &testPort{silent: map[byte]bool{130: true}}
	serial := st.NewSerial(port, st.Config{PollInterval: st.Infinite, Clock: c})
	sink := &testSink{}
	l := fx.NewLoop().Add(NewPoller(serial, "robot1", Channel{Address: 130, Type: 'M', Number: 1}), &Publisher{Sink: sink})
	ctx := context.Background()

	l.RunOnce(ctx)
	require.True(t, serial.Pending())
	c.Add(st.DefaultTimeout)
	res, ok := serial.Poll()
	require.True(t, ok)
	require.Equal(t, st.ErrTimedOut, res.Err)

	port.lock.Lock()
	delete(port.silent, 130)
	port.lock.Unlock()
	l.RunOnce(ctx)
	require.Equal(t, []string{"robot1/130/M1/value"}, sink.topics)
	require.Equal(t, 100, sink.readings[0].Value)
}

func TestPollerBusy(t *testing.T) {
	port := &testPort{}
	serial := st.NewSerial(port, st.Config{PollInterval: st.Infinite, Clock: clock.NewMock()})
	require.NoError(t, serial.AsyncGet(st.GetRequest{Address: 128, CRC: true, Type: 'M', Number: 2, Context: 99}))
	p := NewPoller(serial, "robot1", Channel{Address: 128, Type: 'M', Number: 1})
	sink := &testSink{}
	l := fx.NewLoop().Add(p, &Publisher{Sink: sink})

	// the foreign request completes but nothing is posted for it
	l.RunOnce(context.Background())
	require.Empty(t, sink.topics)
	require.False(t, serial.Busy())
	l.RunOnce(context.Background())
	require.Equal(t, []string{"robot1/128/M1/value"}, sink.topics)
}
