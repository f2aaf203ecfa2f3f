//go:build cgo && jni

package javaruntime

import "github.com/giantswarm/javaruntime/internal/jni/native"

func defaultVMFactory() VMFactory {
	return native.CreateJavaVM
}
