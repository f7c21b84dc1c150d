package promisify

import (
	"context"
	"sync/atomic"
)

// Callback is the trailing error-first continuation accepted by
// callback-style asynchronous functions. A non-nil err rejects;
// otherwise v fulfills.
type Callback[T any] func(v T, err error)

// FromCallback adapts a callback-style asynchronous function into a
// [Promise].
//
// start is executed in a new goroutine and is handed a [Callback]; the
// first invocation of that callback settles the promise. Later
// invocations are ignored and logged at warning level. The callback
// may be invoked synchronously from start, or from any goroutine after
// start returns; a start that returns without invoking the callback
// leaves the promise pending.
//
// Panics escaping start reject the promise with a [PanicError], and
// runtime.Goexit before the callback was invoked rejects it with
// [ErrGoexit]. A context that is already done rejects the promise with
// ctx.Err() without invoking start. [WithTimeout] applies as for [Go].
//
// Because start is a closure or method value, any receiver it is bound
// to at the call site is preserved, mirroring call-time this binding
// in the callback idiom being adapted.
//
// FromCallback panics with [ErrNilFunction] if start is nil.
func FromCallback[T any](ctx context.Context, start func(context.Context, Callback[T]), opts ...Option) *Promise[T] {
	if start == nil {
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

	var invoked atomic.Bool
	callback := func(v T, err error) {
		if !invoked.CompareAndSwap(false, true) {
			p.logger.duplicateCallback(err)
			return
		}
		// The timeout covers time-to-settle, not start's lifetime.
		cancel()
		if timer != nil {
			timer.Stop()
		}
		if err != nil {
			p.Reject(err)
		} else {
			p.Resolve(v)
		}
	}

	go func() {
		completed := false

		select {
		case <-ctx.Done():
			completed = true
			invoked.Store(true)
			p.Reject(ctx.Err())
			cancel()
			return
		default:
		}

		defer func() {
			r := recover()
			if r != nil {
				p.logger.recoveredPanic(r)
				p.Reject(PanicError{Value: r})
				cancel()
			} else if !completed && !invoked.Load() {
				p.logger.goexit()
				p.Reject(ErrGoexit)
				cancel()
			}
		}()

		start(ctx, callback)
		completed = true
	}()

	return p
}
