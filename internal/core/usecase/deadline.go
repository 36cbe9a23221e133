package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

// runWithDeadline runs fn under a deadline and stops waiting once it passes.
// fn receives a context that is cancelled at the deadline. Cancellation of the
// parent context is returned as is, not as a timeout.
func runWithDeadline[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return zero, ctx.Err()
		}
		return zero, domain.WrapError(domain.ErrTimeout, "run with deadline", ctx.Err())
	}
}
