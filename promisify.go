package promisify

import (
	"context"
	"time"
)

// Go executes the given function in a new goroutine and returns a
// [Promise] representing its result.
//
// The function receives the provided context and should use ctx.Done()
// to detect cancellation. A context that is already done rejects the
// promise with ctx.Err() without invoking fn.
//
// It ensures:
//   - Panic handler: a panic in fn rejects the promise with a
//     [PanicError] wrapping the recovered value.
//   - Goexit handler: even if runtime.Goexit is called, the promise is
//     rejected (with [ErrGoexit]) rather than hanging indefinitely.
//   - Receiver binding: fn may be a method value; the bound receiver is
//     the one captured at the call site.
//   - Timeout: with [WithTimeout], the promise is rejected with a
//     [*TimeoutError] and fn's context is cancelled once the deadline
//     elapses.
//
// Go panics with [ErrNilFunction] if fn is nil.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error), opts ...Option) *Promise[T] {
	if fn == nil {
		panic(ErrNilFunction)
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		p := newPromise[T](defaultOptions())
		p.Reject(err)
		return p
	}

	p := newPromise[T](cfg)
	ctx, cancel, timer := p.armTimeout(ctx, cfg)

	go func() {
		defer cancel()
		if timer != nil {
			defer timer.Stop()
		}

		// Completion flag to distinguish normal return from Goexit.
		completed := false

		// Respect context cancellation before doing any work.
		select {
		case <-ctx.Done():
			completed = true
			p.Reject(ctx.Err())
			return
		default:
		}

		defer func() {
			r := recover()
			if r != nil {
				p.logger.recoveredPanic(r)
				p.Reject(PanicError{Value: r})
			} else if !completed {
				// Function ended but not via normal return: Goexit.
				p.logger.goexit()
				p.Reject(ErrGoexit)
			}
		}()

		v, err := fn(ctx)

		if err != nil {
			p.Reject(err)
		} else {
			p.Resolve(v)
		}
		completed = true
	}()

	return p
}

// armTimeout wires the WithTimeout behavior for an adapter call.
// When no timeout is configured it returns ctx unchanged with a no-op
// cancel and a nil timer. Otherwise the returned context is cancelled,
// and the promise rejected with a *TimeoutError, when the deadline
// elapses before settlement.
func (p *Promise[T]) armTimeout(ctx context.Context, cfg *options) (context.Context, context.CancelFunc, *time.Timer) {
	if cfg.timeout <= 0 {
		return ctx, func() {}, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	timer := time.AfterFunc(cfg.timeout, func() {
		p.Reject(&TimeoutError{Cause: context.DeadlineExceeded})
		cancel()
	})
	return ctx, cancel, timer
}
