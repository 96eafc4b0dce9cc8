package framework

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the interval of a Loop if not specified.
const DefaultInterval = 10 * time.Millisecond

// Loop runs controllers periodically by stages.
type Loop struct {
	Interval time.Duration

	stages  [numStages][]Controller
	runners []Runnable

	lock     sync.Mutex
	messages []Message
	wakeUpCh chan struct{}
}

type iteration struct {
	*Loop
	ctx      context.Context
	time     time.Time
	stage    Stage
	messages []Message
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUpCh: make(chan struct{}, 1)}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a stage.
// Controllers which are also Runnable are run with the loop.
func (l *Loop) AddController(stage Stage, ctls ...Controller) *Loop {
	l.stages[stage] = append(l.stages[stage], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnables to run with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	var doneCh chan error
	if len(l.runners) > 0 {
		runner := NewRunnerWith(ctx).Go(l.runners...)
		doneCh = make(chan error, 1)
		go func() { doneCh <- runner.Wait() }()
	}

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if doneCh != nil {
				<-doneCh
			}
			return ctx.Err()
		case err := <-doneCh:
			// runners stopped on their own, the line is gone.
			return err
		case <-ticker.C:
			l.RunOnce(ctx)
		case <-l.wakeUpCh:
			l.RunOnce(ctx)
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail(ctx context.Context) {
	if err := l.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}

// RunOnce runs one iteration of all controllers.
func (l *Loop) RunOnce(ctx context.Context) {
	iter := &iteration{Loop: l, ctx: ctx, time: time.Now()}
	l.lock.Lock()
	iter.messages, l.messages = l.messages, nil
	l.lock.Unlock()
	for stage := range l.stages {
		iter.stage = Stage(stage)
		for _, ctl := range l.stages[stage] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
	if len(iter.messages) > 0 {
		glog.V(4).Infof("%d messages not taken", len(iter.messages))
	}
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages = append(l.messages, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

func (t *iteration) Context() context.Context {
	return t.ctx
}

func (t *iteration) Time() time.Time {
	return t.time
}

func (t *iteration) Stage() Stage {
	return t.stage
}

func (t *iteration) Post(msgs ...Message) {
	t.messages = append(t.messages, msgs...)
}

func (t *iteration) Take(fn func(Message) bool) (taken []Message) {
	remains := t.messages[:0]
	for _, msg := range t.messages {
		if fn(msg) {
			taken = append(taken, msg)
		} else {
			remains = append(remains, msg)
		}
	}
	t.messages = remains
	return
}
