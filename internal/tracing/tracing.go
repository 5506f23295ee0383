/*
Package tracing holds package-level tracing helpers for the formula packages.

All output goes to the schuko core tracer. Tests redirect it to the testing log
by calling SetTestingLog at the start of a test.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package tracing

import (
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// Debugf traces at debug level.
func Debugf(format string, args ...interface{}) {
	gtrace.CoreTracer.Debugf(format, args...)
}

// IsDebugging is true if the core tracer will output debug messages.
// Callers use it to skip building expensive trace output.
func IsDebugging() bool {
	return gtrace.CoreTracer.GetTraceLevel() >= tracing.LevelDebug
}

// SetTestingLog redirects the core tracer to the log of test t, at debug level.
// The returned teardown function restores the redirection; it may be ignored
// for tests which do not care.
func SetTestingLog(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	return teardown
}
