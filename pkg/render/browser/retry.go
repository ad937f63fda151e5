package browser

import (
	"context"
	"errors"
	"time"
)

// retryableError marks a failure worth another attempt, such as a DevTools
// endpoint that is not accepting connections yet.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retry calls fn up to attempts times, doubling delay after each retryable
// failure. Other errors end the loop at once. The returned error is the
// unwrapped cause of the last failure, or ctx.Err() when ctx ends first.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var last error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var re *retryableError
		if !errors.As(err, &re) {
			return err
		}
		last = re.err

		if i == attempts-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
			delay *= 2
		}
	}
	return last
}
