//go:build cgo && jni

package native

/*
#cgo LDFLAGS: -ljvm
#include "jnihelpers.h"
*/
import "C"

import (
	"unsafe"

	"github.com/giantswarm/javaruntime/internal/jni"
)

// ref converts a C reference to the opaque Go handle and back. JNI
// references are owned by the JVM and never point into Go memory.
func ref(o C.jobject) jni.Object { return jni.Object(uintptr(unsafe.Pointer(o))) }

func jobject(o jni.Object) C.jobject { return C.jobject(unsafe.Pointer(uintptr(o))) }

// marshal writes args into a C jvalue array. The caller frees it.
func marshal(args []jni.Value) (*C.jvalue, error) {
	if len(args) == 0 {
		return nil, nil
	}
	p := (*C.jvalue)(C.calloc(C.size_t(len(args)), C.size_t(unsafe.Sizeof(C.jvalue{}))))
	vals := unsafe.Slice(p, len(args))
	for i, a := range args {
		slot := unsafe.Pointer(&vals[i])
		switch a.Type() {
		case jni.TypeObject:
			obj, _ := a.Object()
			*(*C.jobject)(slot) = jobject(obj)
		case jni.TypeBoolean:
			*(*C.jboolean)(slot) = C.jboolean(a.Raw())
		case jni.TypeShort:
			*(*C.jshort)(slot) = C.jshort(a.Raw())
		case jni.TypeInt:
			*(*C.jint)(slot) = C.jint(a.Raw())
		case jni.TypeLong:
			*(*C.jlong)(slot) = C.jlong(a.Raw())
		default:
			C.free(unsafe.Pointer(p))
			return nil, &jni.Error{Kind: jni.KindWrongValueType, Msg: "argument " + a.Type().String()}
		}
	}
	return p, nil
}
