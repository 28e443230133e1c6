package orchestration

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/jonboulle/clockwork"
)

type workerRun func(context.Context) error

func panicSafeNamedWorker(name string, run func(context.Context) error) workerRun {
	return func(ctx context.Context) (err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = fmt.Errorf("%w: %s worker panicked: %v", ErrUnexpected, name, recovered)
			}
		}()

		if err = run(ctx); err != nil {
			return fmt.Errorf("%s worker failed: %w", name, err)
		}

		return nil
	}
}

// sleepFor blocks for duration on clock. It returns early with the context
// error when ctx is done.
func sleepFor(ctx context.Context, clock clockwork.Clock, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}

	timer := clock.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isNilService detects nil and typed-nil services so a missing platform
// service is treated as unavailable instead of panicking on first use.
func isNilService(service audio.Service) bool {
	if service == nil {
		return true
	}

	v := reflect.ValueOf(service)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
