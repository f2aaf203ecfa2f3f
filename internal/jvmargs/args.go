package jvmargs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/giantswarm/javaruntime/internal/sentinel"
)

const (
	// ErrInvalidParameter is returned for user flags that are empty or
	// start with a dash.
	ErrInvalidParameter = sentinel.Error("invalid JVM parameter")

	// ErrForbiddenParameter is returned for user flags that would replace
	// an option javaruntime sets itself.
	ErrForbiddenParameter = sentinel.Error("forbidden JVM parameter")
)

const (
	libraryPathOption = "-Djava.library.path="
	classPathOption   = "-Djava.class.path="
	logConfigOption   = "-Dlog4j.configurationFile="
	debugAgentOption  = "-agentlib:jdwp=transport=dt_socket,server=y,suspend=n,address="
)

// forbiddenPrefixes are the required options; users must configure them
// through Input, not as raw flags.
var forbiddenPrefixes = []string{
	"-Djava.library.path",
	"-Djava.class.path",
	"-Dlog4j.configurationFile",
}

// Input holds everything Build needs.
type Input struct {
	// Prepend and Append are raw user flags without the leading dash,
	// e.g. "Xmx2g" or "Dfoo=bar".
	Prepend []string
	Append  []string

	// DebugSocket enables the JDWP agent listening on this address.
	DebugSocket string

	// SystemLibPath is the native library directory. Empty omits the
	// option (test builds link the native library statically).
	SystemLibPath string

	SystemClassPath  string
	ServiceClassPath string
	LogConfigPath    string
}

// Build returns the JVM options for in. It fails if any user flag does not
// pass ValidateAndConvert; no partial list is returned.
func Build(in Input) ([]string, error) {
	args := make([]string, 0, len(in.Prepend)+len(in.Append)+4)

	args, err := appendUserArgs(args, in.Prepend)
	if err != nil {
		return nil, fmt.Errorf("prepend arguments: %w", err)
	}
	args = appendRequiredArgs(args, in)
	args = appendOptionalArgs(args, in)
	args, err = appendUserArgs(args, in.Append)
	if err != nil {
		return nil, fmt.Errorf("append arguments: %w", err)
	}
	return args, nil
}

func appendUserArgs(args, params []string) ([]string, error) {
	for _, p := range params {
		opt, err := ValidateAndConvert(p)
		if err != nil {
			return nil, err
		}
		args = append(args, opt)
	}
	return args, nil
}

func appendRequiredArgs(args []string, in Input) []string {
	if in.SystemLibPath != "" {
		args = append(args, libraryPathOption+in.SystemLibPath)
	}
	return append(args,
		classPathOption+JoinPaths(in.SystemClassPath, in.ServiceClassPath),
		logConfigOption+in.LogConfigPath,
	)
}

func appendOptionalArgs(args []string, in Input) []string {
	if in.DebugSocket != "" {
		args = append(args, debugAgentOption+in.DebugSocket)
	}
	return args
}

// ValidateAndConvert turns a raw user flag into a JVM option by adding the
// leading dash. Flags that are empty, already dashed, or that set one of the
// required options are rejected.
func ValidateAndConvert(param string) (string, error) {
	if strings.TrimSpace(param) == "" {
		return "", fmt.Errorf("%w: empty parameter", ErrInvalidParameter)
	}
	if strings.HasPrefix(param, "-") {
		return "", fmt.Errorf("%w: %q must not start with a dash", ErrInvalidParameter, param)
	}
	opt := "-" + param
	for _, prefix := range forbiddenPrefixes {
		if opt == prefix || strings.HasPrefix(opt, prefix+"=") {
			return "", fmt.Errorf("%w: %q is set by the runtime", ErrForbiddenParameter, param)
		}
	}
	return opt, nil
}

// JoinPaths joins class path entries with the platform list separator,
// skipping empty entries.
func JoinPaths(paths ...string) string {
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, string(filepath.ListSeparator))
}
