package promisify

import (
	"context"
	"sync"
)

// PromiseState represents the lifecycle state of a [Promise].
// A promise starts in [Pending] state and transitions to either
// [Fulfilled] (also known as [Resolved]) or [Rejected].
// State transitions are irreversible.
type PromiseState int32

const (
	// Pending indicates the promise operation is still in progress.
	// The promise has not yet been fulfilled or rejected.
	Pending PromiseState = iota

	// Fulfilled indicates the promise completed successfully with a value.
	Fulfilled

	// Rejected indicates the promise failed with an error.
	Rejected
)

const (
	// Resolved is an alias for [Fulfilled], matching JavaScript terminology.
	Resolved = Fulfilled
)

// String returns the string representation of the promise state.
func (s PromiseState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome carries the settlement of a promise through channels.
// Exactly one of Value or Err is meaningful: Err is non-nil for
// rejected promises, and Value holds the fulfillment value otherwise.
// Note that a fulfilled promise can legitimately carry a zero Value.
type Outcome[T any] struct {
	Value T
	Err   error
}

// ResolveFunc is the function used to fulfill a promise with a value.
// Calling resolve on an already-settled promise has no effect.
// Can be called from any goroutine.
type ResolveFunc[T any] func(T)

// RejectFunc is the function used to reject a promise with an error.
// Calling reject on an already-settled promise has no effect.
// Can be called from any goroutine.
type RejectFunc func(error)

// Promise is a write-once container for the future result of an
// asynchronous operation. It settles exactly once, to either a
// fulfillment value or a rejection error.
//
// The zero value is not usable; create instances with [New],
// [FulfilledOf], [RejectedOf], or the adapter functions ([Go], [FromCallback],
// [CollectChan], [CollectSeq], [CollectReader]).
type Promise[T any] struct {
	value       T
	err         error
	subscribers []chan Outcome[T] // channels waiting for settlement
	done        chan struct{}     // closed on settlement
	state       PromiseState
	logger      loggerShim
	mu          sync.Mutex
}

// New creates a new pending promise along with resolve and reject
// functions.
//
// Returns:
//   - promise: the new [Promise] in [Pending] state
//   - resolve: function to fulfill the promise with a value
//   - reject: function to reject the promise with an error
//
// Example:
//
//	promise, resolve, reject := promisify.New[string]()
//	go func() {
//	    v, err := doWork()
//	    if err != nil {
//	        reject(err)
//	    } else {
//	        resolve(v)
//	    }
//	}()
//
// The resolve and reject functions can be called from any goroutine.
// Only the first call has an effect; subsequent calls are ignored.
//
// An invalid option yields an already-rejected promise whose resolve
// and reject functions have no effect.
func New[T any](opts ...Option) (*Promise[T], ResolveFunc[T], RejectFunc) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		p := newPromise[T](defaultOptions())
		p.Reject(err)
		return p, p.Resolve, p.Reject
	}
	p := newPromise[T](cfg)
	return p, p.Resolve, p.Reject
}

func newPromise[T any](cfg *options) *Promise[T] {
	return &Promise[T]{
		done:   make(chan struct{}),
		logger: cfg.loggerShim(),
	}
}

// Resolve fulfills the promise with the given value.
// It has no effect if the promise is already settled.
func (p *Promise[T]) Resolve(value T) {
	p.settle(Fulfilled, value, nil)
}

// Reject rejects the promise with the given error.
// It has no effect if the promise is already settled.
// A nil error is normalized to [ErrRejectedNilError] so rejected
// promises always carry a non-nil Err.
func (p *Promise[T]) Reject(err error) {
	if err == nil {
		err = ErrRejectedNilError
	}
	var zero T
	p.settle(Rejected, zero, err)
}

// settle performs the single irreversible state transition and fans
// the outcome out to subscribers. Returns false if already settled.
func (p *Promise[T]) settle(state PromiseState, value T, err error) bool {
	p.mu.Lock()
	if p.state != Pending {
		p.mu.Unlock()
		p.logger.duplicateSettle(state, err)
		return false
	}
	p.state = state
	p.value = value
	p.err = err
	subscribers := p.subscribers
	p.subscribers = nil // release memory
	close(p.done)
	p.mu.Unlock()

	out := Outcome[T]{Value: value, Err: err}
	for _, ch := range subscribers {
		ch <- out // buffered cap 1, owned by this promise
		close(ch)
	}
	return true
}

// State returns the current [PromiseState].
// Thread-safe and can be called from any goroutine.
func (p *Promise[T]) State() PromiseState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Value returns the fulfillment value and true if the promise is
// fulfilled, or the zero value and false otherwise.
func (p *Promise[T]) Value() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Fulfilled {
		var zero T
		return zero, false
	}
	return p.value, true
}

// Err returns the rejection error if the promise is rejected, or nil
// if it is pending or fulfilled.
func (p *Promise[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Done returns a channel that is closed when the promise settles.
// It reports nothing about the outcome; use [Promise.Value] and
// [Promise.Err] after it is closed.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// ToChannel returns a channel that will receive the [Outcome] when the
// promise settles. The channel is buffered (capacity 1) and closed
// after sending. If the promise is already settled, a pre-filled
// channel is returned.
func (p *Promise[T]) ToChannel() <-chan Outcome[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Outcome[T], 1)
	if p.state != Pending {
		ch <- Outcome[T]{Value: p.value, Err: p.err}
		close(ch)
		return ch
	}
	p.subscribers = append(p.subscribers, ch)
	return ch
}

// Await blocks until the promise settles or ctx is done.
//
// If the promise settles first, Await returns the fulfillment value
// and nil, or the zero value and the rejection error. If ctx is done
// first, Await returns the zero value and ctx.Err(); the promise
// itself is unaffected and remains observable.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		select {
		case <-p.done:
			// settled concurrently, prefer the settlement
		default:
			var zero T
			return zero, ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Rejected {
		var zero T
		return zero, p.err
	}
	return p.value, nil
}

// FulfilledOf returns a promise that is already fulfilled with value.
func FulfilledOf[T any](value T) *Promise[T] {
	p := newPromise[T](defaultOptions())
	p.Resolve(value)
	return p
}

// RejectedOf returns a promise that is already rejected with err.
func RejectedOf[T any](err error) *Promise[T] {
	p := newPromise[T](defaultOptions())
	p.Reject(err)
	return p
}
