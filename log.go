package javaruntime

import (
	"log/slog"

	"github.com/giantswarm/javaruntime/internal/core"
)

// SetLogger replaces the package-level logger used by javaruntime.
// The provided logger should already have any desired attributes;
// javaruntime will not add additional attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with other javaruntime operations,
// but the runtime keeps the logger it was booted with for its own scopes.
// Call SetLogger before the first GetOrCreate.
//
// Example:
//
//	javaruntime.SetLogger(myLogger.With("component", "javaruntime"))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
