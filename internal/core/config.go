package core

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/giantswarm/javaruntime/internal/jni"
	"github.com/giantswarm/javaruntime/internal/jvmargs"
)

// Config is the complete runtime configuration. It is immutable once
// handed to Bootstrap.
type Config struct {
	JVM      JVMConfig
	Runtime  RuntimeConfig
	Service  ServiceConfig
	Internal InternalConfig
}

// JVMConfig holds user-supplied JVM settings.
type JVMConfig struct {
	// ArgsPrepend are raw JVM flags without the leading dash, placed before
	// the options set by the runtime.
	ArgsPrepend []string
	// ArgsAppend are placed last and may override anything before them.
	ArgsAppend []string
	// DebugSocket, if set, starts the JDWP agent on this address.
	DebugSocket string
}

// RuntimeConfig configures the Java service runtime.
type RuntimeConfig struct {
	// Port is passed to the service runtime as is. 0 leaves the choice to
	// the Java side unless Options.AutoPort is set.
	Port          int
	LogConfigPath string
}

// ServiceConfig is contributed by the service layer.
type ServiceConfig struct {
	ClassPath string
}

// InternalConfig is supplied by the embedding host, not by end users.
type InternalConfig struct {
	// SystemLibPath is the directory of the native library. Empty in
	// statically linked builds.
	SystemLibPath   string
	SystemClassPath string
}

// Validate checks the port range. Empty paths are accepted: the required
// JVM options are always emitted, and user JVM flags are validated later by
// jvmargs.Build.
func (c Config) Validate() error {
	if c.Runtime.Port < 0 || c.Runtime.Port > 65535 {
		return fmt.Errorf("runtime port must be between 0 and 65535, got %d", c.Runtime.Port)
	}
	return nil
}

// Equal reports whether c and o describe the same configuration.
func (c Config) Equal(o Config) bool {
	return slices.Equal(c.JVM.ArgsPrepend, o.JVM.ArgsPrepend) &&
		slices.Equal(c.JVM.ArgsAppend, o.JVM.ArgsAppend) &&
		c.JVM.DebugSocket == o.JVM.DebugSocket &&
		c.Runtime == o.Runtime &&
		c.Service == o.Service &&
		c.Internal == o.Internal
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.JVM.ArgsPrepend = slices.Clone(c.JVM.ArgsPrepend)
	c.JVM.ArgsAppend = slices.Clone(c.JVM.ArgsAppend)
	return c
}

func (c Config) argsInput() jvmargs.Input {
	return jvmargs.Input{
		Prepend:          c.JVM.ArgsPrepend,
		Append:           c.JVM.ArgsAppend,
		DebugSocket:      c.JVM.DebugSocket,
		SystemLibPath:    c.Internal.SystemLibPath,
		SystemClassPath:  c.Internal.SystemClassPath,
		ServiceClassPath: c.Service.ClassPath,
		LogConfigPath:    c.Runtime.LogConfigPath,
	}
}

// Options control how Bootstrap reaches the JVM.
type Options struct {
	// Factory creates the JVM. Required.
	Factory jni.Factory
	// MaxAttachedThreads bounds concurrently attached goroutines.
	// 0 means unbounded.
	MaxAttachedThreads int
	// AutoPort replaces a zero RuntimeConfig.Port with a free localhost
	// port before the JVM starts.
	AutoPort bool
	// Logger defaults to Logger().
	Logger *slog.Logger
}
