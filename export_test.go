package javaruntime

// ResetForTesting resets the singleton runtime state so that the next
// call to GetOrCreate boots again. This is exported only for use in test
// packages (package javaruntime_test).
func ResetForTesting() { resetForTesting() }

// OptionsSnapshot holds a copy of options fields for test assertions.
type OptionsSnapshot struct {
	HasFactory         bool
	MaxAttachedThreads int
	AutoPort           bool
}

// ApplyOptionsForTesting creates default options, applies opts, and returns
// a snapshot of the result without touching the singleton.
func ApplyOptionsForTesting(opts ...Option) OptionsSnapshot {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return OptionsSnapshot{
		HasFactory:         o.factory != nil,
		MaxAttachedThreads: o.maxAttachedThreads,
		AutoPort:           o.autoPort,
	}
}
