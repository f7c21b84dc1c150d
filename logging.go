// logging.go - structured logging configuration for the promisify module.
//
// The package integrates with the logiface facade. A package-level
// default logger covers the common case; individual adapter calls may
// override it via WithLogger. logiface loggers are safe to use via nil
// receivers, so an unset logger costs a nil check and nothing else.

package promisify

import (
	"sync"

	"github.com/joeycumines/logiface"
)

var globalLogger struct {
	sync.RWMutex
	logger *logiface.Logger[logiface.Event]
}

// SetLogger sets the package-level default logger, used by all
// promises and adapters that were not given [WithLogger].
// A nil logger disables logging.
func SetLogger(logger *logiface.Logger[logiface.Event]) {
	globalLogger.Lock()
	defer globalLogger.Unlock()
	globalLogger.logger = logger
}

func getLogger() *logiface.Logger[logiface.Event] {
	globalLogger.RLock()
	defer globalLogger.RUnlock()
	return globalLogger.logger
}

// loggerShim binds a promise or adapter to its effective logger.
// The zero value uses the package-level default at call time.
type loggerShim struct {
	logger *logiface.Logger[logiface.Event]
	fixed  bool // logger was set explicitly (possibly to nil)
}

func (s loggerShim) get() *logiface.Logger[logiface.Event] {
	if s.fixed {
		return s.logger
	}
	return getLogger()
}

func (s *options) loggerShim() loggerShim {
	return loggerShim{logger: s.logger, fixed: s.loggerSet}
}

func (s loggerShim) duplicateSettle(state PromiseState, err error) {
	s.get().Debug().
		Str("state", state.String()).
		Err(err).
		Log("promisify: ignored settle of already-settled promise")
}

func (s loggerShim) duplicateCallback(err error) {
	s.get().Warning().
		Err(err).
		Log("promisify: ignored duplicate callback invocation")
}

func (s loggerShim) recoveredPanic(value any) {
	s.get().Err().
		Any("panic", value).
		Log("promisify: recovered panic in adapted function")
}

func (s loggerShim) goexit() {
	s.get().Warning().
		Log("promisify: adapted function exited via runtime.Goexit")
}

func (s loggerShim) collected(kind string, n int) {
	s.get().Debug().
		Str("source", kind).
		Int("chunks", n).
		Log("promisify: collection complete")
}
