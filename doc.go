// Package promisify adapts the common asynchronous idioms (plain
// functions, callback-accepting functions, and chunk-producing readable
// sources) into a single uniform asynchronous-value abstraction, the
// write-once [Promise].
//
// # Adapters
//
// Three families of adapters are provided:
//
//   - [Go] runs a (value, error) returning function on a new goroutine
//     and returns a [Promise] for its result, trapping panics and
//     runtime.Goexit so the promise always settles.
//   - [FromCallback] wraps a function that accepts a trailing
//     error-first continuation, settling the promise on the first
//     invocation of that continuation.
//   - [CollectChan], [CollectSeq], and [CollectReader] drain a
//     chunk-producing source, fulfilling with the accumulated output on
//     completion or rejecting with the first error encountered.
//
// # Promises
//
// A [Promise] starts [Pending] and settles exactly once, to either
// [Fulfilled] or [Rejected]. Settlement is irreversible and idempotent;
// later attempts are ignored. Results are observed via
// [Promise.Await], [Promise.ToChannel], or [Promise.Done] combined with
// [Promise.Value] / [Promise.Err].
//
// Promises are created externally with [New]:
//
//	promise, resolve, reject := promisify.New[int]()
//	go func() {
//	    v, err := doWork()
//	    if err != nil {
//	        reject(err)
//	        return
//	    }
//	    resolve(v)
//	}()
//
// # Thread Safety
//
// All exported types are safe for concurrent use. Resolve and reject
// functions may be called from any goroutine; only the first call has
// an effect.
//
// # Error Types
//
//   - [PanicError]: wraps panics recovered from adapted functions
//   - [ErrGoexit]: rejection reason when an adapted function exits via
//     runtime.Goexit
//   - [TimeoutError]: rejection reason produced by [WithTimeout]
//
// All error types implement the standard [error] interface and
// [errors.Unwrap] where a cause exists.
//
// # Logging
//
// Structured logging uses the logiface facade. A package-level default
// is configured with [SetLogger]; individual calls may override it via
// [WithLogger]. A nil logger disables logging.
package promisify
