//go:build cgo && jni

package native

// #include "jnihelpers.h"
import "C"

import (
	"runtime"
	"unsafe"

	"github.com/giantswarm/javaruntime/internal/jni"
)

// Compile-time interface satisfaction checks.
var (
	_ jni.Factory = CreateJavaVM
	_ jni.VM      = (*VM)(nil)
)

// VM is a JVM created through JNI_CreateJavaVM.
type VM struct {
	vm      *C.JavaVM
	version C.jint
}

// CreateJavaVM creates the process JVM. A failure code from
// JNI_CreateJavaVM is returned as a *jni.Error of kind jni.KindOther.
//
// The creating thread is detached again before CreateJavaVM returns so
// that attachment is always owned by an Executor scope.
func CreateJavaVM(args jni.InitArgs) (jni.VM, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var init C.JavaVMInitArgs
	init.version = C.jint(args.Version)
	init.ignoreUnrecognized = C.JNI_FALSE
	if args.IgnoreUnrecognized {
		init.ignoreUnrecognized = C.JNI_TRUE
	}

	if n := len(args.Options); n > 0 {
		p := (*C.JavaVMOption)(C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof(C.JavaVMOption{}))))
		defer C.free(unsafe.Pointer(p))
		opts := unsafe.Slice(p, n)
		for i, o := range args.Options {
			opts[i].optionString = C.CString(o)
			defer C.free(unsafe.Pointer(opts[i].optionString))
		}
		init.nOptions = C.jint(n)
		init.options = p
	}

	var (
		vm  *C.JavaVM
		env *C.JNIEnv
	)
	if code := C.create_vm(&vm, &env, &init); code != C.JNI_OK {
		return nil, &jni.Error{Kind: jni.KindOther, Code: int32(code)}
	}
	if code := C.detach(vm); code != C.JNI_OK {
		return nil, &jni.Error{Kind: jni.KindOther, Code: int32(code)}
	}
	return &VM{vm: vm, version: C.jint(args.Version)}, nil
}

// AttachCurrentThread returns the Env of the calling thread, attaching it
// first if needed.
func (v *VM) AttachCurrentThread() (jni.Env, bool, error) {
	var env *C.JNIEnv
	switch code := C.get_env(v.vm, &env, v.version); code {
	case C.JNI_OK:
		return &Env{env: env}, false, nil
	case C.JNI_EDETACHED:
	default:
		return nil, false, &jni.Error{Kind: jni.KindOther, Code: int32(code)}
	}
	if code := C.attach(v.vm, &env); code != C.JNI_OK {
		return nil, false, &jni.Error{Kind: jni.KindOther, Code: int32(code)}
	}
	return &Env{env: env}, true, nil
}

// DetachCurrentThread detaches the calling thread.
func (v *VM) DetachCurrentThread() error {
	if code := C.detach(v.vm); code != C.JNI_OK {
		if int32(code) == jni.CodeDetached {
			return &jni.Error{Kind: jni.KindThreadDetached}
		}
		return &jni.Error{Kind: jni.KindOther, Code: int32(code)}
	}
	return nil
}
