package javaruntime

import (
	"fmt"

	"github.com/giantswarm/javaruntime/internal/core"
)

// options holds the settings applied by Option values. They only take
// effect on the GetOrCreate call that boots the runtime.
type options struct {
	factory            VMFactory
	maxAttachedThreads int
	autoPort           bool
}

// Option configures the runtime during the first GetOrCreate call.
//
// With* functions panic on invalid input. Option values are typically
// compile-time constants, so an invalid value is a programmer error; the
// pattern mirrors [regexp.MustCompile].
type Option func(*options)

func (o options) toCoreOptions() core.Options {
	return core.Options{
		Factory:            o.factory,
		MaxAttachedThreads: o.maxAttachedThreads,
		AutoPort:           o.autoPort,
		Logger:             core.Logger(),
	}
}

// WithVMFactory sets the function that creates the JVM. Tests use it to boot
// against an in-memory JVM.
//
// Default: the JNI invocation API when built with cgo and the "jni" build
// tag, otherwise a factory that fails with ErrNoVMBackend.
//
// Panics if f is nil.
func WithVMFactory(f VMFactory) Option {
	if f == nil {
		panic("javaruntime: VM factory must not be nil")
	}
	return func(o *options) {
		o.factory = f
	}
}

// WithMaxAttachedThreads bounds the number of goroutines that may hold an
// attached JVM thread at once. Further calls wait until a slot frees up or
// their context is done. A value of 0 means unbounded.
//
// Default: 0.
//
// Panics if n < 0.
func WithMaxAttachedThreads(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("javaruntime: max attached threads must not be negative, got %d", n))
	}
	return func(o *options) {
		o.maxAttachedThreads = n
	}
}

// WithAutoPort makes GetOrCreate replace a zero RuntimeConfig.Port with a
// free localhost port before the JVM starts. Runtime.Port reports the port
// chosen. Without it, a zero port is passed to the Java side as is.
//
// The port is released again before the Java side binds it, so another
// process may take it in between.
func WithAutoPort() Option {
	return func(o *options) {
		o.autoPort = true
	}
}
