package javaruntime

import "context"

// Runtime is the process-wide Java service runtime.
//
// All methods are safe for concurrent use. Each call attaches the calling
// goroutine's OS thread to the JVM for its duration and detaches it again
// if it was not attached before.
type Runtime interface {
	// CreateService instantiates the service module of a loaded artifact.
	// artifactID must be a value returned by LoadArtifact; module is the
	// fully qualified name of the service module class.
	//
	// Returns a *JavaException (matching ErrJavaException) if the Java side
	// throws, or a *JNIError if the call itself cannot be made.
	CreateService(ctx context.Context, artifactID, module string) (Service, error)

	// LoadArtifact loads and verifies the service artifact at uri and
	// returns its identifier.
	//
	// If the artifact is rejected the error is a *JavaException whose
	// Description explains why. ErrEmptyArtifactID is returned if the
	// Java side accepts the artifact without naming it.
	LoadArtifact(ctx context.Context, uri string) (string, error)

	// Port returns the port passed to the Java service runtime: the
	// configured one, or the port picked by WithAutoPort.
	Port() int

	// Args returns a copy of the options the JVM was created with.
	Args() []string
}

// Service is a Java service instance created by Runtime.CreateService.
type Service interface {
	// ID returns the numeric service identifier.
	ID(ctx context.Context) (int16, error)

	// Name returns the service name.
	Name(ctx context.Context) (string, error)

	// Close releases the Go side's reference to the service once calls in
	// flight have finished. The service stays registered with the Java
	// runtime. Close is idempotent; ID and Name return ErrServiceClosed
	// afterwards.
	Close(ctx context.Context) error
}
