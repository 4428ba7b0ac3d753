package system

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Runtime carries the two process-wide hooks a lifecycle call needs:
// a trace callback invoked at can-run decisions, and an exception
// handler invoked when a handler raises. Bundling them on a struct
// passed into every lifecycle call — rather than as true package
// globals — keeps the core testable in isolation.
type Runtime struct {
	// Trace is called with a human-readable string at can-run
	// decisions and at the start of every handler invocation. Nil
	// means silence.
	Trace func(string)

	// ExceptionHandler is called with (system, error) when a handler
	// raises; its return value becomes the new system. Nil means
	// the default: log and return the system unchanged.
	ExceptionHandler func(*System, error) *System

	// Logger backs the default Trace/ExceptionHandler implementations.
	// A nil Logger falls back to logrus.StandardLogger.
	Logger *logrus.Entry
}

// NewRuntime returns a Runtime with the documented defaults: Trace logs
// at Debug level, ExceptionHandler logs at Error level and returns the
// system unchanged.
func NewRuntime(logger *logrus.Entry) *Runtime {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Runtime{Logger: logger}
}

func (rt *Runtime) tracef(format string, args...any) {
	msg := fmt.Sprintf(format, args...)
	if rt.Trace != nil {
		rt.Trace(msg)
		return
	}
	rt.logger().Debug(msg)
}

func (rt *Runtime) handleException(sys *System, err error) *System {
	if rt.ExceptionHandler != nil {
		return rt.ExceptionHandler(sys, err)
	}
	rt.logger().WithError(err).Error("action exception")
	return sys
}

func (rt *Runtime) logger() *logrus.Entry {
	if rt.Logger != nil {
		return rt.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
