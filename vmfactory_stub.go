//go:build !(cgo && jni)

package javaruntime

import "github.com/giantswarm/javaruntime/internal/core"

func defaultVMFactory() VMFactory {
	return func(InitArgs) (VM, error) {
		return nil, core.ErrNoVMBackend
	}
}
