//go:build cgo && jni

// Package native implements jni.VM and jni.Env on top of the JNI invocation
// API. It links against libjvm; the JDK headers must be on the C include
// path, for example:
//
//	CGO_CFLAGS="-I$JAVA_HOME/include -I$JAVA_HOME/include/linux"
//	CGO_LDFLAGS="-L$JAVA_HOME/lib/server"
package native
