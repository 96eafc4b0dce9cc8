package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopStages(t *testing.T) {
	var order []string
	l := NewLoop()
	l.AddController(StagePublish, ControlFunc(func(ctx ControlContext) error {
		order = append(order, "publish")
		msgs := ctx.Take(func(msg Message) bool {
			_, ok := msg.(int)
			return ok
		})
		require.Equal(t, []Message{1, 2}, msgs)
		return nil
	}))
	l.AddController(StageSense, ControlFunc(func(ctx ControlContext) error {
		order = append(order, "sense")
		require.Equal(t, StageSense, ctx.Stage())
		ctx.Post(1, "x", 2)
		return nil
	}))
	l.AddController(StageControl, ControlFunc(func(ctx ControlContext) error {
		order = append(order, "control")
		taken := ctx.Take(func(msg Message) bool { return msg == "x" })
		require.Equal(t, []Message{"x"}, taken)
		return errors.New("logged only")
	}))
	l.RunOnce(context.Background())
	require.Equal(t, []string{"sense", "control", "publish"}, order)
}

func TestLoopPostMessage(t *testing.T) {
	l := NewLoop()
	var got []Message
	l.AddController(StageControl, ControlFunc(func(ctx ControlContext) error {
		got = append(got, ctx.Take(func(Message) bool { return true })...)
		return nil
	}))
	l.PostMessage("next")
	l.RunOnce(context.Background())
	l.RunOnce(context.Background())
	require.Equal(t, []Message{"next"}, got)
}

func TestLoopRun(t *testing.T) {
	l := NewLoop()
	l.Interval = time.Hour
	iterCh := make(chan struct{}, 1)
	l.AddController(StageSense, ControlFunc(func(ctx ControlContext) error {
		iterCh <- struct{}{}
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	l.TriggerNext()
	<-iterCh
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestLoopRunnerFailure(t *testing.T) {
	failure := errors.New("line closed")
	l := NewLoop().AddRunnable(RunFunc(func(ctx context.Context) error {
		return failure
	}), RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	require.Equal(t, failure, l.Run(context.Background()))
}

func TestRunner(t *testing.T) {
	e1, e2 := errors.New("e1"), errors.New("e2")
	r := NewRunner().Go(
		RunFunc(func(context.Context) error { return e1 }),
		NamedRun("e2", RunFunc(func(context.Context) error { return e2 })),
		RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.ElementsMatch(t, []error{e1, e2}, agg.Errors)
	require.Contains(t, err.Error(), "multiple errors:")
	require.NoError(t, NewRunner().Go(RunFunc(func(context.Context) error { return nil })).Wait())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	e := errors.New("only")
	require.Equal(t, e, errs.Add(e, nil).Aggregate())
}

func TestRunWithContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopCh := make(chan struct{})
	cancel()
	err := RunWithContextCancel(ctx, func() { close(stopCh) }, func() error {
		<-stopCh
		return errors.New("stopped")
	})
	require.Equal(t, context.Canceled, err)
}
