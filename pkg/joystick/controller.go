package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/sabertooth/pkg/framework"
	"github.com/robotalks/sabertooth/pkg/joystick/device"
	st "github.com/robotalks/sabertooth/pkg/sabertooth"
)

// Teleop drives a motor driver in mixed mode from a joystick.
type Teleop struct {
	Config
	Driver *st.Driver
	// Open opens the joystick, device.Open/DetectAndOpen by default.
	Open func(index int) (device.Device, error)

	loop       fx.LoopControl
	drive      int
	turn       int
	changed    bool
	retryAfter time.Duration
}

// eventMsg carries a joystick event, or the loss of the device.
type eventMsg struct {
	event device.Event
	lost  bool
}

// NewTeleop creates a Teleop.
func NewTeleop(d *st.Driver) *Teleop {
	return &Teleop{
		Config:     defaultConfig,
		Driver:     d,
		Open:       openDevice,
		retryAfter: time.Second,
	}
}

func openDevice(index int) (device.Device, error) {
	if index >= 0 {
		return device.Open(index)
	}
	return device.DetectAndOpen(0)
}

// AddToLoop implements LoopAdder.
func (t *Teleop) AddToLoop(l *fx.Loop) {
	t.loop = l
	l.AddRunnable(t)
	l.AddController(fx.StageControl, t)
}

// Run implements Runnable. It keeps reopening the joystick when lost.
func (t *Teleop) Run(ctx context.Context) error {
	timer := time.After(0)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer:
		}
		js, err := t.Open(t.DeviceIndex)
		if err != nil || js == nil {
			if err != nil {
				glog.Warningf("open joystick: %v", err)
			} else {
				glog.V(1).Info("no joystick detected")
			}
			timer = time.After(t.retryAfter)
			continue
		}
		glog.Infof("joystick %d %q opened", js.Index(), js.Name())
		err = fx.RunWithContextCloser(ctx, js, func() error {
			return t.readEvents(js)
		})
		t.post(&eventMsg{lost: true})
		if err == context.Canceled {
			// closed on cancel already
			return err
		}
		glog.Warningf("joystick %d lost: %v", js.Index(), err)
		js.Close()
		timer = time.After(t.retryAfter)
	}
}

func (t *Teleop) readEvents(js device.Device) error {
	for {
		ev, err := js.ReadEvent()
		if err != nil {
			return err
		}
		if t.Verbose {
			glog.Infof("joystick %d kind=%d index=%d value=%d init=%v",
				js.Index(), ev.Kind, ev.Index, ev.Value, ev.Init)
		}
		t.post(&eventMsg{event: ev})
	}
}

func (t *Teleop) post(msg *eventMsg) {
	if t.loop != nil {
		t.loop.PostMessage(msg)
		t.loop.TriggerNext()
	}
}

// Control implements Controller.
func (t *Teleop) Control(ctx fx.ControlContext) error {
	for _, m := range ctx.Take(isEventMsg) {
		t.handle(m.(*eventMsg))
	}
	if !t.changed {
		return nil
	}
	t.changed = false
	glog.V(2).Infof("teleop drive=%d turn=%d", t.drive, t.turn)
	if err := t.Driver.Drive(t.drive); err != nil {
		return err
	}
	return t.Driver.Turn(t.turn)
}

func (t *Teleop) handle(msg *eventMsg) {
	if msg.lost {
		t.stop()
		return
	}
	ev := msg.event
	switch ev.Kind {
	case device.KindAxis:
		switch ev.Index {
		case t.DriveAxis:
			t.set(&t.drive, -t.scale(ev.Value))
		case t.TurnAxis:
			t.set(&t.turn, t.scale(ev.Value))
		}
	case device.KindButton:
		if ev.Index == t.StopButton && ev.Pressed() {
			t.stop()
		}
	}
}

func (t *Teleop) set(v *int, val int) {
	if *v != val {
		*v, t.changed = val, true
	}
}

func (t *Teleop) stop() {
	t.set(&t.drive, 0)
	t.set(&t.turn, 0)
}

// scale maps a deflection to -MaxSpeed..MaxSpeed outside the deadzone.
func (t *Teleop) scale(val int) int {
	if val > -t.Deadzone && val < t.Deadzone {
		return 0
	}
	return val * t.MaxSpeed / device.AxisMax
}

func isEventMsg(msg fx.Message) bool {
	_, ok := msg.(*eventMsg)
	return ok
}
