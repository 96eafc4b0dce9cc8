package telemetry

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/sabertooth/pkg/framework"
	st "github.com/robotalks/sabertooth/pkg/sabertooth"
)

// Poller reads Channels round-robin on a Serial and posts Readings.
// It must be the only caller of Poll on the Serial. Requests armed by
// others are driven to completion and their results dropped.
type Poller struct {
	Serial   *st.Serial
	Channels []Channel
	Source   string
	CRC      bool

	next  int
	armed bool
}

// NewPoller creates a Poller.
func NewPoller(s *st.Serial, source string, channels ...Channel) *Poller {
	return &Poller{Serial: s, Channels: channels, Source: source, CRC: s.Config.UseCRC()}
}

// AddToLoop implements LoopAdder.
func (p *Poller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.StageSense, p)
}

// Control implements Controller.
func (p *Poller) Control(ctx fx.ControlContext) error {
	if len(p.Channels) == 0 {
		return nil
	}
	if p.armed && !p.Serial.Busy() {
		glog.Warningf("result of %s taken by another caller, re-arming", p.Channels[p.next])
		p.armed = false
	}
	if !p.armed {
		ch := p.Channels[p.next]
		switch err := p.Serial.AsyncGet(ch.Request(p.CRC, p.next)); err {
		case nil:
			p.armed = true
		case st.ErrBusy:
		default:
			p.advance()
			return err
		}
	}
	res, ok := p.Serial.Poll()
	if !ok {
		return nil
	}
	if !p.armed {
		glog.V(2).Infof("drop result of foreign request %d %c%d", res.Address, res.Type, res.Number)
		return nil
	}
	p.armed = false
	if res.Context < 0 || res.Context >= len(p.Channels) {
		glog.Warningf("result of unknown channel %d", res.Context)
		return nil
	}
	reading := &Reading{
		Source:  p.Source,
		Channel: p.Channels[res.Context],
		Value:   res.Value,
		Time:    ctx.Time(),
	}
	if res.Err != nil {
		reading.Error = res.Err.Error()
	}
	ctx.Post(reading)
	p.advance()
	return nil
}

func (p *Poller) advance() {
	p.next = (p.next + 1) % len(p.Channels)
}
