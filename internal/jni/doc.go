// Package jni defines the boundary between javaruntime and an embedded JVM.
//
// The JVM is reached through two small interfaces: VM (one per process,
// created by a Factory from InitArgs) and Env (a per-thread handle valid only
// inside an Executor scope). Object references are opaque handles. A call
// that fails because Java code threw is reported as an *Error of kind
// KindJavaException, and CheckException turns it into a *JavaException
// carrying the throwable's description.
//
// The cgo implementation lives in jni/native; jni/jnitest provides an
// in-memory fake for unit tests.
package jni
