package promisify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPromise_ResolveBasic(t *testing.T) {
	p, resolve, _ := New[int]()

	if got := p.State(); got != Pending {
		t.Fatalf("expected Pending, got: %v", got)
	}

	resolve(42)

	if got := p.State(); got != Fulfilled {
		t.Fatalf("expected Fulfilled, got: %v", got)
	}
	v, ok := p.Value()
	if !ok || v != 42 {
		t.Errorf("Value() = %v, %v; want 42, true", v, ok)
	}
	if err := p.Err(); err != nil {
		t.Errorf("Err() = %v; want nil", err)
	}
}

func TestPromise_RejectBasic(t *testing.T) {
	boom := errors.New("boom")
	p, _, reject := New[int]()

	reject(boom)

	if got := p.State(); got != Rejected {
		t.Fatalf("expected Rejected, got: %v", got)
	}
	if _, ok := p.Value(); ok {
		t.Error("Value() ok = true for rejected promise")
	}
	if err := p.Err(); !errors.Is(err, boom) {
		t.Errorf("Err() = %v; want %v", err, boom)
	}
}

func TestPromise_SettleIsIdempotent(t *testing.T) {
	p, resolve, reject := New[string]()

	resolve("first")
	resolve("second")
	reject(errors.New("too late"))

	v, ok := p.Value()
	if !ok || v != "first" {
		t.Errorf("Value() = %q, %v; want \"first\", true", v, ok)
	}
	if err := p.Err(); err != nil {
		t.Errorf("Err() = %v; want nil", err)
	}
}

func TestPromise_RejectNilNormalized(t *testing.T) {
	p, _, reject := New[int]()

	reject(nil)

	if err := p.Err(); !errors.Is(err, ErrRejectedNilError) {
		t.Errorf("Err() = %v; want ErrRejectedNilError", err)
	}
}

func TestPromise_ZeroValueFulfillment(t *testing.T) {
	// A fulfilled promise can legitimately carry a zero value.
	p := FulfilledOf(0)

	v, ok := p.Value()
	if !ok || v != 0 {
		t.Errorf("Value() = %v, %v; want 0, true", v, ok)
	}
	if got := p.State(); got != Fulfilled {
		t.Errorf("State() = %v; want Fulfilled", got)
	}
}

func TestPromise_RejectedOf(t *testing.T) {
	boom := errors.New("boom")
	p := RejectedOf[struct{}](boom)

	if err := p.Err(); !errors.Is(err, boom) {
		t.Errorf("Err() = %v; want %v", err, boom)
	}
}

func TestPromise_AwaitFulfilled(t *testing.T) {
	p, resolve, _ := New[string]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		resolve("value")
	}()

	v, err := p.Await(context.Background())
	if err != nil {
		t.Fatalf("Await() error: %v", err)
	}
	if v != "value" {
		t.Errorf("Await() = %q; want \"value\"", v)
	}
}

func TestPromise_AwaitRejected(t *testing.T) {
	boom := errors.New("boom")
	p, _, reject := New[string]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		reject(boom)
	}()

	_, err := p.Await(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Await() error = %v; want %v", err, boom)
	}
}

func TestPromise_AwaitContextCancelled(t *testing.T) {
	p, _, _ := New[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Await(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Await() error = %v; want context.Canceled", err)
	}
	if got := p.State(); got != Pending {
		t.Errorf("State() after failed Await = %v; want Pending", got)
	}
}

func TestPromise_Done(t *testing.T) {
	p, resolve, _ := New[int]()

	select {
	case <-p.Done():
		t.Fatal("Done() closed before settlement")
	default:
	}

	resolve(1)

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done() not closed after settlement")
	}
}

func TestToChannel_Simple(t *testing.T) {
	p, resolve, _ := New[string]()

	// Get channel before resolving
	ch := p.ToChannel()

	go func() {
		time.Sleep(10 * time.Millisecond)
		resolve("value")
	}()

	select {
	case out := <-ch:
		if out.Err != nil || out.Value != "value" {
			t.Errorf("Expected 'value', got: %+v", out)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for value")
	}
}

func TestToChannel_AlreadySettled(t *testing.T) {
	p, resolve, _ := New[string]()
	resolve("value")

	// Get channel after resolving
	ch := p.ToChannel()

	select {
	case out := <-ch:
		if out.Value != "value" {
			t.Errorf("Expected 'value', got: %+v", out)
		}
	default:
		t.Error("Channel should have value (non-blocking)")
	}

	// Channel must be closed after the send.
	if _, ok := <-ch; ok {
		t.Error("Channel should be closed after delivering the outcome")
	}
}

func TestToChannel_MultipleCalls(t *testing.T) {
	p, resolve, _ := New[string]()

	ch1 := p.ToChannel()
	ch2 := p.ToChannel()
	ch3 := p.ToChannel()

	resolve("value")

	received := 0
	for i, ch := range []<-chan Outcome[string]{ch1, ch2, ch3} {
		select {
		case out := <-ch:
			if out.Value != "value" {
				t.Errorf("Channel %d: Expected 'value', got: %+v", i, out)
			} else {
				received++
			}
		case <-time.After(2 * time.Second):
			t.Errorf("Channel %d: Timed out waiting for value", i)
		}
	}

	if received != 3 {
		t.Errorf("Expected 3 values received, got: %d", received)
	}
}

func TestToChannel_Rejected(t *testing.T) {
	boom := errors.New("boom")
	p, _, reject := New[string]()

	ch := p.ToChannel()
	reject(boom)

	select {
	case out := <-ch:
		if !errors.Is(out.Err, boom) {
			t.Errorf("Expected rejection with %v, got: %+v", boom, out)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for rejection")
	}
}

func TestPromise_ConcurrentSettle(t *testing.T) {
	p, resolve, reject := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				resolve(i)
			} else {
				reject(errors.New("nope"))
			}
		}(i)
	}
	wg.Wait()

	// Exactly one settlement won; state and result must agree.
	switch p.State() {
	case Fulfilled:
		if _, ok := p.Value(); !ok {
			t.Error("fulfilled promise without value")
		}
		if p.Err() != nil {
			t.Error("fulfilled promise with non-nil Err")
		}
	case Rejected:
		if p.Err() == nil {
			t.Error("rejected promise with nil Err")
		}
	default:
		t.Error("promise still pending after settles")
	}
}

func TestNew_InvalidOption(t *testing.T) {
	p, resolve, _ := New[int](WithTimeout(-1))

	if got := p.State(); got != Rejected {
		t.Fatalf("expected Rejected, got: %v", got)
	}

	// resolve must be a no-op on the already-rejected promise
	resolve(1)
	if p.Err() == nil {
		t.Error("expected option error to stick")
	}
}

func TestPromiseState_String(t *testing.T) {
	for want, state := range map[string]PromiseState{
		"pending":   Pending,
		"fulfilled": Fulfilled,
		"rejected":  Rejected,
		"unknown":   PromiseState(99),
	} {
		if got := state.String(); got != want {
			t.Errorf("String() = %q; want %q", got, want)
		}
	}
}
