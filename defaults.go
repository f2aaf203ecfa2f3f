package javaruntime

import "github.com/giantswarm/javaruntime/internal/core"

// Default configuration values for GetOrCreate.
const (
	// DefaultMaxAttachedThreads leaves the number of attached goroutines
	// unbounded.
	DefaultMaxAttachedThreads = 0

	// DefaultBootstrapClass is the Java class whose static
	// createServiceRuntime(int) method creates the service runtime.
	DefaultBootstrapClass = core.BootstrapClass
)
