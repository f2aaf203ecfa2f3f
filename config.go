package javaruntime

import (
	"github.com/giantswarm/javaruntime/internal/core"
	"github.com/giantswarm/javaruntime/internal/jni"
)

// Configuration types. They alias the internal definitions so the public
// API and the bootstrapper share one set of validation rules.
type (
	// Config is the complete runtime configuration passed to GetOrCreate.
	Config = core.Config
	// JVMConfig holds user JVM flags (without the leading dash) and the
	// optional debugger socket.
	JVMConfig = core.JVMConfig
	// RuntimeConfig holds the service runtime port and log configuration.
	RuntimeConfig = core.RuntimeConfig
	// ServiceConfig holds the service class path.
	ServiceConfig = core.ServiceConfig
	// InternalConfig is supplied by the embedding host.
	InternalConfig = core.InternalConfig
)

// Boundary types for custom JVM factories (see WithVMFactory) and error
// inspection with errors.As.
type (
	// VMFactory creates the JVM from its initialization arguments.
	VMFactory = jni.Factory
	// InitArgs are the JVM initialization arguments.
	InitArgs = jni.InitArgs
	// VM is a created JVM.
	VM = jni.VM
	// Env is a JNI environment bound to one attached OS thread.
	Env = jni.Env
	// JNIError is a failure of the JNI binding itself.
	JNIError = jni.Error
	// JavaException is an exception thrown by Java code, carrying its
	// description.
	JavaException = jni.JavaException
)
