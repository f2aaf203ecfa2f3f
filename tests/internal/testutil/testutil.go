//go:build integration && jni

// Package testutil provides shared helpers for integration test packages.
package testutil

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"testing"

	"github.com/giantswarm/javaruntime"
)

// Environment variables read by the integration suite.
const (
	EnvSystemClassPath  = "JAVARUNTIME_SYSTEM_CLASS_PATH"
	EnvServiceClassPath = "JAVARUNTIME_SERVICE_CLASS_PATH"
	EnvSystemLibPath    = "JAVARUNTIME_SYSTEM_LIB_PATH"
	EnvLogConfigPath    = "JAVARUNTIME_LOG_CONFIG"
	EnvArtifactURI      = "JAVARUNTIME_TEST_ARTIFACT"
	EnvServiceModule    = "JAVARUNTIME_TEST_MODULE"
	EnvLogLevel         = "JAVARUNTIME_LOG_LEVEL"
)

// TestParallel returns the effective -test.parallel value, falling back to
// GOMAXPROCS. Flags must be parsed before calling it.
func TestParallel() int {
	f := flag.Lookup("test.parallel")
	if f == nil {
		return runtime.GOMAXPROCS(0)
	}
	n, err := strconv.Atoi(f.Value.String())
	if err != nil || n < 1 {
		fallback := runtime.GOMAXPROCS(0)
		slog.Warn("test.parallel flag unparseable, falling back to GOMAXPROCS",
			"raw", f.Value.String(), "error", err, "parallel", fallback)
		return fallback
	}
	return n
}

// SetupTestLogging configures slog based on the JAVARUNTIME_LOG_LEVEL
// environment variable.
func SetupTestLogging() {
	levelStr := os.Getenv(EnvLogLevel)
	if levelStr == "" {
		levelStr = "INFO"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	javaruntime.SetLogger(slog.Default().With("component", "javaruntime"))
}

// ConfigFromEnvOrExit builds the runtime configuration from the
// environment. It exits the test binary if a required variable is unset,
// because the JVM cannot be booted without the runtime's class path.
func ConfigFromEnvOrExit() javaruntime.Config {
	for _, name := range []string{EnvSystemClassPath, EnvLogConfigPath} {
		if os.Getenv(name) == "" {
			fmt.Fprintf(os.Stderr, "%s is not set\n"+
				"Build the Java service runtime and point %s at its jar and %s at a log4j2 configuration.\n",
				name, EnvSystemClassPath, EnvLogConfigPath)
			os.Exit(1)
		}
	}

	return javaruntime.Config{
		JVM: javaruntime.JVMConfig{
			ArgsPrepend: []string{"Xss1m"},
			ArgsAppend:  []string{"Dfile.encoding=UTF-8"},
		},
		Runtime: javaruntime.RuntimeConfig{
			LogConfigPath: os.Getenv(EnvLogConfigPath),
		},
		Service: javaruntime.ServiceConfig{
			ClassPath: os.Getenv(EnvServiceClassPath),
		},
		Internal: javaruntime.InternalConfig{
			SystemLibPath:   os.Getenv(EnvSystemLibPath),
			SystemClassPath: os.Getenv(EnvSystemClassPath),
		},
	}
}

// RequireArtifact returns the test artifact URI and service module, or
// skips the test when they are not configured.
func RequireArtifact(t *testing.T) (uri, module string) {
	t.Helper()

	uri, module = os.Getenv(EnvArtifactURI), os.Getenv(EnvServiceModule)
	if uri == "" || module == "" {
		t.Skipf("%s and %s must be set to run service tests", EnvArtifactURI, EnvServiceModule)
	}
	return uri, module
}
