package retry

import (
	"context"
	"errors"
	"reflect"

	logging "github.com/ipfs/go-log/v2"
	"github.com/jpillora/backoff"
	"github.com/raulk/clock"
	"golang.org/x/xerrors"
)

var log = logging.Logger("retry")

func errorIsIn(err error, errorTypes []error) bool {
	for _, etype := range errorTypes {
		tmp := reflect.New(reflect.PointerTo(reflect.ValueOf(etype).Elem().Type())).Interface()
		if errors.As(err, tmp) {
			return true
		}
	}
	return false
}

// OnTypes returns a predicate matching errors that unwrap to any of the given
// error types. Types are passed as pointers, e.g. OnTypes(new(MyErr)) matches
// a *MyErr anywhere in the chain.
func OnTypes(errorTypes ...error) func(error) bool {
	return func(err error) bool {
		return errorIsIn(err, errorTypes)
	}
}

// Do calls f once, then up to retries more times while it fails with an error
// accepted by retryable. Waits between attempts follow b and are measured on
// clk. Context cancellation stops the loop and returns the context error
// wrapped around the last failure.
func Do[T any](ctx context.Context, clk clock.Clock, b *backoff.Backoff, retries int, retryable func(error) bool, f func() (T, error)) (result T, err error) {
	for i := 0; ; i++ {
		result, err = f()
		if err == nil {
			return result, nil
		}
		if i >= retries || !retryable(err) || ctx.Err() != nil {
			break
		}

		wait := b.Duration()
		log.Debugw("retrying after error", "attempt", i+1, "wait", wait, "error", err)

		t := clk.Timer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return result, xerrors.Errorf("retry aborted (%s): %w", ctx.Err(), err)
		}
	}

	if retries > 0 {
		log.Debugw("giving up", "retries", retries, "error", err)
	}
	return result, err
}
