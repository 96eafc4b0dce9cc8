package telemetry

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/sabertooth/pkg/framework"
)

// Sink publishes a payload to a topic.
type Sink interface {
	Pub(topic string, payload []byte) error
}

// Publisher publishes Readings posted in the loop to a Sink.
// Topics are SOURCE/ADDR/TN/KIND.
type Publisher struct {
	Sink Sink
}

// AddToLoop implements LoopAdder.
func (p *Publisher) AddToLoop(l *fx.Loop) {
	l.AddController(fx.StagePublish, p)
}

// Control implements Controller.
func (p *Publisher) Control(ctx fx.ControlContext) error {
	for _, msg := range ctx.Take(isReading) {
		r := msg.(*Reading)
		payload, err := r.Encode()
		if err != nil {
			return err
		}
		glog.V(2).Infof("PUB %s", r)
		if err = p.Sink.Pub(r.Source+"/"+r.Channel.Topic(), payload); err != nil {
			glog.Warningf("publish %s: %v", r.Channel, err)
		}
	}
	return nil
}

func isReading(msg fx.Message) bool {
	_, ok := msg.(*Reading)
	return ok
}
