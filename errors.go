package javaruntime

import "github.com/giantswarm/javaruntime/internal/core"

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrJavaException matches every error caused by an exception thrown
	// on the Java side. Use errors.As with *JavaException for its
	// description.
	ErrJavaException = core.ErrJavaException

	// ErrServiceClosed is returned by Service methods after Close.
	ErrServiceClosed = core.ErrServiceClosed

	// ErrEmptyArtifactID is returned by LoadArtifact when the Java side
	// accepts an artifact but reports no identifier.
	ErrEmptyArtifactID = core.ErrEmptyArtifactID

	// ErrNoVMBackend is the bootstrap failure of builds without the cgo
	// JNI backend and no WithVMFactory option.
	ErrNoVMBackend = core.ErrNoVMBackend

	// ErrInvalidParameter is the bootstrap failure for an empty JVM flag or
	// one that starts with a dash.
	ErrInvalidParameter = core.ErrInvalidParameter

	// ErrForbiddenParameter is the bootstrap failure for a JVM flag that
	// overrides a property the runtime sets itself.
	ErrForbiddenParameter = core.ErrForbiddenParameter
)
