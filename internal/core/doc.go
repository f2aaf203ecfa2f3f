// Package core provides the internal implementation of javaruntime.
// It contains Bootstrap (config validation, JVM argument building, JVM
// creation and service runtime acquisition), the Runtime operations that
// call into the Java service runtime facade, and ServiceProxy, the Go handle
// of one Java service instance.
package core
