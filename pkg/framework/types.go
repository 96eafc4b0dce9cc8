package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Message is anything passed between controllers within an iteration.
type Message interface{}

// Controller defines the abstract controlling logic.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// Stage orders controllers within an iteration.
type Stage int

// Stages, run in this order.
const (
	// StageSense is for controllers talking to devices.
	StageSense Stage = iota
	// StageControl is for controllers consuming readings.
	StageControl
	// StagePublish is for controllers sending results elsewhere.
	StagePublish

	numStages
)

// ControlContext provides the context of current iteration.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	// Stage is the stage being run.
	Stage() Stage
	// Post adds messages for controllers in the rest of the iteration.
	Post(msgs ...Message)
	// Take removes and returns the messages accepted by fn.
	Take(fn func(Message) bool) []Message

	LoopControl
}

// LoopControl exposes access to the controlling loop.
type LoopControl interface {
	// PostMessage enqueues a message for the next iteration.
	// It can be called from any goroutine.
	PostMessage(Message)
	// TriggerNext schedules the next iteration to run immediately.
	TriggerNext()
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}
