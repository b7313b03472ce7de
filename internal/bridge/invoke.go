package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
)

// invoke runs fn, turning panics into errors. With a positive timeout the
// call runs on its own goroutine and is abandoned when the timer fires; the
// goroutine is left to finish on its own.
func invoke[R any](ctx context.Context, clock quartz.Clock, timeout time.Duration, fn func(context.Context) (R, error)) (R, error) {
	if timeout <= 0 {
		return protect(ctx, fn)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		value R
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := protect(ctx, fn)
		done <- outcome{v, err}
	}()

	timedOut := make(chan struct{})
	timer := clock.AfterFunc(timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	var zero R
	select {
	case o := <-done:
		return o.value, o.err
	case <-timedOut:
		return zero, fmt.Errorf("no answer after %s: %w", timeout, context.DeadlineExceeded)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func protect[R any](ctx context.Context, fn func(context.Context) (R, error)) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panicked: %v", r)
		}
	}()
	return fn(ctx)
}
