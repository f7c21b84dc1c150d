// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package promisify

import (
	"fmt"
	"time"

	"github.com/joeycumines/logiface"
)

const defaultChunkSize = 32 * 1024

// options holds resolved configuration for adapter calls.
type options struct {
	logger        *logiface.Logger[logiface.Event]
	loggerSet     bool
	timeout       time.Duration
	chunkSize     int
	chunkObserver func([]byte) error
}

// Option configures an adapter call or promise constructor.
type Option interface {
	apply(*options) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyFunc func(*options) error
}

func (o *optionImpl) apply(opts *options) error {
	return o.applyFunc(opts)
}

// WithLogger overrides the package-level logger (see [SetLogger]) for
// a single call. A nil logger disables logging for that call.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *options) error {
		opts.logger = logger
		opts.loggerSet = true
		return nil
	}}
}

// WithTimeout rejects the promise with a [*TimeoutError] if the
// adapted operation has not settled it within d. The context passed to
// the adapted function is cancelled when the deadline elapses.
// A non-positive d is an error.
func WithTimeout(d time.Duration) Option {
	return &optionImpl{func(opts *options) error {
		if d <= 0 {
			return fmt.Errorf("promisify: invalid timeout: %v", d)
		}
		opts.timeout = d
		return nil
	}}
}

// WithChunkSize sets the read buffer size used by [CollectReader].
// The default is 32 KiB. A non-positive size is an error.
func WithChunkSize(size int) Option {
	return &optionImpl{func(opts *options) error {
		if size <= 0 {
			return fmt.Errorf("promisify: invalid chunk size: %d", size)
		}
		opts.chunkSize = size
		return nil
	}}
}

// WithChunkObserver invokes fn with each chunk drained by
// [CollectReader], before the chunk is accumulated. The chunk must not
// be retained or modified. A non-nil error from fn rejects the promise
// and stops consumption.
func WithChunkObserver(fn func(chunk []byte) error) Option {
	return &optionImpl{func(opts *options) error {
		opts.chunkObserver = fn
		return nil
	}}
}

// resolveOptions applies Option instances to a fresh options struct.
// Nil options are skipped gracefully.
func resolveOptions(opts []Option) (*options, error) {
	cfg := &options{
		chunkSize: defaultChunkSize,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func defaultOptions() *options {
	return &options{chunkSize: defaultChunkSize}
}
