//go:build cgo && jni

package native

// #include "jnihelpers.h"
import "C"

import (
	"fmt"
	"runtime"
	"unicode/utf16"
	"unsafe"

	"github.com/giantswarm/javaruntime/internal/jni"
)

var _ jni.Env = (*Env)(nil)

// Env is the JNIEnv of one attached thread.
type Env struct {
	env *C.JNIEnv
}

// pending returns the error for a call that left an exception pending, or
// nil.
func (e *Env) pending() error {
	if C.exception_check(e.env) == C.JNI_FALSE {
		return nil
	}
	return &jni.Error{Kind: jni.KindJavaException}
}

// NewString creates a java.lang.String from the UTF-16 encoding of s, so
// embedded NULs and supplementary characters arrive unchanged. Invalid
// UTF-8 in s becomes U+FFFD.
func (e *Env) NewString(s string) (jni.Object, error) {
	chars := utf16.Encode([]rune(s))
	var p *C.jchar
	if len(chars) > 0 {
		p = (*C.jchar)(unsafe.Pointer(&chars[0]))
	}
	str := C.new_string(e.env, p, C.jsize(len(chars)))
	runtime.KeepAlive(chars)
	if err := e.pending(); err != nil {
		return jni.Null, err
	}
	if str == nil {
		return jni.Null, &jni.Error{Kind: jni.KindNullPointer, Msg: "NewString returned null"}
	}
	return ref(C.jobject(str)), nil
}

// GetString decodes the UTF-16 contents of a java.lang.String.
func (e *Env) GetString(obj jni.Object) (string, error) {
	if obj.IsNull() {
		return "", &jni.Error{Kind: jni.KindNullPointer, Msg: "GetString"}
	}
	str := C.jstring(jobject(obj))
	n := int(C.get_string_length(e.env, str))
	if err := e.pending(); err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	chars := C.get_string_chars(e.env, str)
	if chars == nil {
		if err := e.pending(); err != nil {
			return "", err
		}
		return "", &jni.Error{Kind: jni.KindNullPointer, Msg: "GetStringChars returned null"}
	}
	defer C.release_string_chars(e.env, str, chars)
	units := unsafe.Slice((*uint16)(unsafe.Pointer(chars)), n)
	return string(utf16.Decode(units)), nil
}

func (e *Env) CallMethod(obj jni.Object, name, sig string, args ...jni.Value) (jni.Value, error) {
	if obj.IsNull() {
		return jni.Value{}, &jni.Error{Kind: jni.KindNullPointer, Msg: "call " + name + " on null"}
	}
	ret, err := jni.ReturnType(sig)
	if err != nil {
		return jni.Value{}, err
	}
	cls := C.get_object_class(e.env, jobject(obj))
	defer C.delete_local_ref(e.env, C.jobject(cls))

	mid, err := e.methodID(cls, name, sig, false)
	if err != nil {
		return jni.Value{}, err
	}
	return e.call(ret, jobject(obj), mid, false, args)
}

func (e *Env) CallStaticMethod(class, name, sig string, args ...jni.Value) (jni.Value, error) {
	ret, err := jni.ReturnType(sig)
	if err != nil {
		return jni.Value{}, err
	}
	cname := C.CString(class)
	defer C.free(unsafe.Pointer(cname))
	cls := C.find_class(e.env, cname)
	if cls == nil {
		// NoClassDefFoundError is pending and reported as a Java exception.
		if err := e.pending(); err != nil {
			return jni.Value{}, err
		}
		return jni.Value{}, &jni.Error{Kind: jni.KindNullPointer, Msg: "FindClass " + class}
	}
	defer C.delete_local_ref(e.env, C.jobject(cls))

	mid, err := e.methodID(cls, name, sig, true)
	if err != nil {
		return jni.Value{}, err
	}
	return e.call(ret, C.jobject(cls), mid, true, args)
}

func (e *Env) methodID(cls C.jclass, name, sig string, static bool) (C.jmethodID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	csig := C.CString(sig)
	defer C.free(unsafe.Pointer(csig))

	var mid C.jmethodID
	if static {
		mid = C.get_static_method_id(e.env, cls, cname, csig)
	} else {
		mid = C.get_method_id(e.env, cls, cname, csig)
	}
	if mid == nil {
		// The pending NoSuchMethodError is replaced by a typed error.
		C.exception_clear(e.env)
		return nil, &jni.Error{Kind: jni.KindMethodNotFound, Msg: name + sig}
	}
	return mid, nil
}

func (e *Env) call(ret jni.Type, target C.jobject, mid C.jmethodID, static bool, args []jni.Value) (jni.Value, error) {
	cargs, err := marshal(args)
	if err != nil {
		return jni.Value{}, err
	}
	if cargs != nil {
		defer C.free(unsafe.Pointer(cargs))
	}

	var out jni.Value
	cls := C.jclass(target)
	switch ret {
	case jni.TypeVoid:
		if static {
			C.call_static_void(e.env, cls, mid, cargs)
		} else {
			C.call_void(e.env, target, mid, cargs)
		}
		out = jni.Void()
	case jni.TypeObject:
		var o C.jobject
		if static {
			o = C.call_static_object(e.env, cls, mid, cargs)
		} else {
			o = C.call_object(e.env, target, mid, cargs)
		}
		out = jni.ObjectValue(ref(o))
	case jni.TypeBoolean:
		var b C.jboolean
		if static {
			b = C.call_static_boolean(e.env, cls, mid, cargs)
		} else {
			b = C.call_boolean(e.env, target, mid, cargs)
		}
		out = jni.BoolValue(b != C.JNI_FALSE)
	case jni.TypeShort:
		var s C.jshort
		if static {
			s = C.call_static_short(e.env, cls, mid, cargs)
		} else {
			s = C.call_short(e.env, target, mid, cargs)
		}
		out = jni.ShortValue(int16(s))
	case jni.TypeInt:
		var i C.jint
		if static {
			i = C.call_static_int(e.env, cls, mid, cargs)
		} else {
			i = C.call_int(e.env, target, mid, cargs)
		}
		out = jni.IntValue(int32(i))
	case jni.TypeLong:
		var l C.jlong
		if static {
			l = C.call_static_long(e.env, cls, mid, cargs)
		} else {
			l = C.call_long(e.env, target, mid, cargs)
		}
		out = jni.LongValue(int64(l))
	default:
		return jni.Value{}, &jni.Error{Kind: jni.KindInvalidSignature, Msg: "return type " + ret.String()}
	}

	if err := e.pending(); err != nil {
		return jni.Value{}, err
	}
	return out, nil
}

func (e *Env) NewGlobalRef(obj jni.Object) (jni.Object, error) {
	if obj.IsNull() {
		return jni.Null, &jni.Error{Kind: jni.KindNullPointer, Msg: "NewGlobalRef"}
	}
	g := C.new_global_ref(e.env, jobject(obj))
	if g == nil {
		if err := e.pending(); err != nil {
			return jni.Null, err
		}
		return jni.Null, &jni.Error{Kind: jni.KindNullPointer, Msg: "NewGlobalRef returned null"}
	}
	return ref(g), nil
}

func (e *Env) DeleteGlobalRef(obj jni.Object) {
	if !obj.IsNull() {
		C.delete_global_ref(e.env, jobject(obj))
	}
}

func (e *Env) DeleteLocalRef(obj jni.Object) {
	if !obj.IsNull() {
		C.delete_local_ref(e.env, jobject(obj))
	}
}

func (e *Env) ExceptionCheck() bool {
	return C.exception_check(e.env) != C.JNI_FALSE
}

// TakeException clears the pending exception and describes it with its
// toString().
func (e *Env) TakeException() (string, bool, error) {
	thr := C.exception_occurred(e.env)
	if thr == nil {
		return "", false, nil
	}
	C.exception_clear(e.env)
	obj := ref(C.jobject(thr))
	defer e.DeleteLocalRef(obj)

	v, err := e.CallMethod(obj, "toString", "()Ljava/lang/String;")
	if err != nil {
		if e.ExceptionCheck() {
			C.exception_clear(e.env)
		}
		return "", true, fmt.Errorf("describe exception: %w", err)
	}
	str, _ := v.Object()
	if str.IsNull() {
		return "null", true, nil
	}
	defer e.DeleteLocalRef(str)

	desc, err := e.GetString(str)
	if err != nil {
		return "", true, fmt.Errorf("describe exception: %w", err)
	}
	return desc, true, nil
}
