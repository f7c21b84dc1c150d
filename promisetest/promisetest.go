// Package promisetest provides a small harness for tests exercising
// asynchronous, promise-producing code: a hard per-test timeout, and
// expected-assertion counting for callback-driven tests where it is
// otherwise easy for an assertion to be silently skipped.
package promisetest

import (
	"context"
	"runtime/debug"
	"sync"
	"testing"
	"time"

	promisify "github.com/joeycumines/go-promisify"
	"github.com/stretchr/testify/assert"
)

// DefaultTimeout is used by [Run] when no positive timeout is given.
const DefaultTimeout = 5 * time.Second

// H is the handle passed to a [Run] test body. Its assertion methods
// delegate to testify's assert package and record against the plan
// established by [H.Plan], if any.
//
// H is safe for concurrent use; assertions may be made from any
// goroutine spawned by the test body, so long as they complete before
// the body returns.
type H struct {
	tb      testing.TB
	ctx     context.Context
	planned int64
	count   int64
	mu      sync.Mutex
}

// Run executes fn with a hard deadline. The body runs on a separate
// goroutine; if it neither returns nor fails within timeout, the test
// is failed immediately. Panics in the body fail the test with the
// recovered value and stack rather than crashing the process.
//
// After the body returns, Run verifies any assertion plan declared via
// [H.Plan].
func Run(t testing.TB, timeout time.Duration, fn func(h *H)) {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	h := &H{tb: t, ctx: ctx, planned: -1}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("promisetest: panic in test body: %v\n%s", r, debug.Stack())
			}
		}()
		fn(h)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("promisetest: test body did not complete within %v", timeout)
	}

	h.mu.Lock()
	planned, count := h.planned, h.count
	h.mu.Unlock()
	if planned >= 0 && planned != count {
		t.Fatalf("promisetest: planned %d assertions, recorded %d", planned, count)
	}
}

// Context returns a context that is cancelled when the test deadline
// elapses. Pass it to the code under test so a hung operation unblocks
// cooperatively rather than leaking past the test.
func (h *H) Context() context.Context {
	return h.ctx
}

// Plan declares that exactly n assertions must be recorded by the end
// of the test body. Calling Plan again replaces the previous plan.
func (h *H) Plan(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.planned = int64(n)
}

// Count returns the number of assertions recorded so far.
func (h *H) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int(h.count)
}

// Errorf implements testify's assert.TestingT.
func (h *H) Errorf(format string, args ...any) {
	h.tb.Errorf(format, args...)
}

func (h *H) record() {
	h.mu.Lock()
	h.count++
	h.mu.Unlock()
}

// Equal records an assertion that expected and actual are equal.
func (h *H) Equal(expected, actual any, msgAndArgs ...any) bool {
	h.record()
	return assert.Equal(h, expected, actual, msgAndArgs...)
}

// True records an assertion that value is true.
func (h *H) True(value bool, msgAndArgs ...any) bool {
	h.record()
	return assert.True(h, value, msgAndArgs...)
}

// NoError records an assertion that err is nil.
func (h *H) NoError(err error, msgAndArgs ...any) bool {
	h.record()
	return assert.NoError(h, err, msgAndArgs...)
}

// IsError records an assertion that errors.Is(err, target).
func (h *H) IsError(err, target error, msgAndArgs ...any) bool {
	h.record()
	return assert.ErrorIs(h, err, target, msgAndArgs...)
}

// Fulfilled awaits p within the test deadline and records an assertion
// that it fulfilled, returning the fulfillment value.
func Fulfilled[T any](h *H, p *promisify.Promise[T]) T {
	h.record()
	v, err := p.Await(h.ctx)
	assert.NoError(h, err, "expected promise to fulfill")
	return v
}

// Rejected awaits p within the test deadline and records an assertion
// that it rejected, returning the rejection error.
func Rejected[T any](h *H, p *promisify.Promise[T]) error {
	h.record()
	_, err := p.Await(h.ctx)
	assert.Error(h, err, "expected promise to reject")
	return err
}
