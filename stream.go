package promisify

import (
	"context"
	"io"
	"iter"
)

// CollectChan drains a channel-backed stream into a [Promise] of the
// accumulated values.
//
// Values received on values are accumulated in order. Closing values
// fulfills the promise with the accumulated slice. The first receive
// on errs rejects the promise and stops consumption; accumulated
// values are discarded. errs may be nil when the stream cannot fail,
// and a closed errs is treated the same as a nil one.
//
// The promise is rejected with ctx.Err() if ctx is done before the
// stream completes. [WithTimeout] applies as for [Go].
//
// CollectChan panics with [ErrNilSource] if values is nil.
func CollectChan[T any](ctx context.Context, values <-chan T, errs <-chan error, opts ...Option) *Promise[[]T] {
	if values == nil {
		panic(ErrNilSource)
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		p := newPromise[[]T](defaultOptions())
		p.Reject(err)
		return p
	}

	p := newPromise[[]T](cfg)
	ctx, cancel, timer := p.armTimeout(ctx, cfg)

	go func() {
		defer cancel()
		if timer != nil {
			defer timer.Stop()
		}

		var acc []T
		for {
			select {
			case <-ctx.Done():
				p.Reject(ctx.Err())
				return
			case err, ok := <-errs:
				if !ok {
					// closed error channel, same as none at all
					errs = nil
					continue
				}
				p.Reject(err)
				return
			case v, ok := <-values:
				if !ok {
					p.logger.collected("chan", len(acc))
					p.Resolve(acc)
					return
				}
				acc = append(acc, v)
			}
		}
	}()

	return p
}

// CollectSeq drains a Go iterator into a [Promise] of the accumulated
// values.
//
// Pairs yielded by seq are accumulated in order until the sequence
// ends, which fulfills the promise with the accumulated slice. The
// first pair carrying a non-nil error rejects the promise and stops
// iteration. Context cancellation is checked between elements; panics
// in the iterator reject with a [PanicError].
//
// CollectSeq panics with [ErrNilSource] if seq is nil.
func CollectSeq[T any](ctx context.Context, seq iter.Seq2[T, error], opts ...Option) *Promise[[]T] {
	if seq == nil {
		panic(ErrNilSource)
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		p := newPromise[[]T](defaultOptions())
		p.Reject(err)
		return p
	}

	p := newPromise[[]T](cfg)
	ctx, cancel, timer := p.armTimeout(ctx, cfg)

	go func() {
		defer cancel()
		if timer != nil {
			defer timer.Stop()
		}

		completed := false
		defer func() {
			r := recover()
			if r != nil {
				p.logger.recoveredPanic(r)
				p.Reject(PanicError{Value: r})
			} else if !completed {
				p.logger.goexit()
				p.Reject(ErrGoexit)
			}
		}()

		select {
		case <-ctx.Done():
			p.Reject(ctx.Err())
			completed = true
			return
		default:
		}

		var acc []T
		for v, err := range seq {
			if err != nil {
				p.Reject(err)
				completed = true
				return
			}
			acc = append(acc, v)
			select {
			case <-ctx.Done():
				p.Reject(ctx.Err())
				completed = true
				return
			default:
			}
		}
		p.logger.collected("seq", len(acc))
		p.Resolve(acc)
		completed = true
	}()

	return p
}

// CollectReader drains an [io.Reader] into a [Promise] of the
// concatenated bytes.
//
// The reader is consumed in chunks of [WithChunkSize] bytes (32 KiB by
// default). [io.EOF] fulfills the promise with everything read; any
// other read error rejects it. [WithChunkObserver] sees each chunk
// before accumulation and may reject the promise by returning an
// error. Context cancellation is checked between reads; a blocked Read
// is not interrupted. Panics in the reader reject with a [PanicError].
//
// CollectReader panics with [ErrNilSource] if r is nil.
func CollectReader(ctx context.Context, r io.Reader, opts ...Option) *Promise[[]byte] {
	if r == nil {
		panic(ErrNilSource)
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		p := newPromise[[]byte](defaultOptions())
		p.Reject(err)
		return p
	}

	p := newPromise[[]byte](cfg)
	ctx, cancel, timer := p.armTimeout(ctx, cfg)

	go func() {
		defer cancel()
		if timer != nil {
			defer timer.Stop()
		}

		completed := false
		defer func() {
			rec := recover()
			if rec != nil {
				p.logger.recoveredPanic(rec)
				p.Reject(PanicError{Value: rec})
			} else if !completed {
				p.logger.goexit()
				p.Reject(ErrGoexit)
			}
		}()

		var (
			acc    []byte
			buf    = make([]byte, cfg.chunkSize)
			chunks int
		)
		for {
			select {
			case <-ctx.Done():
				p.Reject(ctx.Err())
				completed = true
				return
			default:
			}

			n, err := r.Read(buf)
			if n > 0 {
				chunks++
				if cfg.chunkObserver != nil {
					if obsErr := cfg.chunkObserver(buf[:n]); obsErr != nil {
						p.Reject(obsErr)
						completed = true
						return
					}
				}
				acc = append(acc, buf[:n]...)
			}
			if err == io.EOF {
				p.logger.collected("reader", chunks)
				p.Resolve(acc)
				completed = true
				return
			}
			if err != nil {
				p.Reject(err)
				completed = true
				return
			}
		}
	}()

	return p
}
