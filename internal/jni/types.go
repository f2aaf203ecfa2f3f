package jni

import "fmt"

// Version is a JNI interface version as passed to JNI_CreateJavaVM.
type Version int32

// Version18 is JNI_VERSION_1_8, the version javaruntime requests.
const Version18 Version = 0x00010008

// InitArgs describes how to create the JVM.
type InitArgs struct {
	Version            Version
	Options            []string
	IgnoreUnrecognized bool
}

// Factory creates the process JVM. It is called at most once per process.
type Factory func(args InitArgs) (VM, error)

// VM is a created Java virtual machine.
type VM interface {
	// AttachCurrentThread attaches the calling OS thread to the JVM.
	// attached is false when the thread was already attached, in which case
	// the caller must not detach it.
	AttachCurrentThread() (env Env, attached bool, err error)

	// DetachCurrentThread detaches the calling OS thread.
	DetachCurrentThread() error
}

// Env is the per-thread JNI interface. An Env must only be used on the
// thread and within the scope it was obtained for.
type Env interface {
	NewString(s string) (Object, error)
	GetString(obj Object) (string, error)

	// CallMethod invokes an instance method. The return type is taken from
	// the JNI signature sig.
	CallMethod(obj Object, name, sig string, args ...Value) (Value, error)
	CallStaticMethod(class, name, sig string, args ...Value) (Value, error)

	NewGlobalRef(obj Object) (Object, error)
	DeleteGlobalRef(obj Object)
	DeleteLocalRef(obj Object)

	ExceptionCheck() bool

	// TakeException clears the pending exception and returns its
	// description. ok is false when no exception was pending.
	TakeException() (desc string, ok bool, err error)
}

// Object is an opaque JVM object reference. The zero value is null.
type Object uintptr

// Null is the null reference.
const Null Object = 0

// IsNull reports whether o is the null reference.
func (o Object) IsNull() bool {
	return o == Null
}

// Type identifies the Java type held by a Value.
type Type uint8

// Supported Java types. Byte, char, float and double are not used by the
// service runtime contract and have no Type.
const (
	TypeVoid    Type = iota // no value; the result of a void method
	TypeObject              // any reference, including strings and arrays
	TypeBoolean             // jboolean
	TypeShort               // jshort
	TypeInt                 // jint
	TypeLong                // jlong
)

// String returns the JNI signature letter of the type.
func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "V"
	case TypeObject:
		return "L"
	case TypeBoolean:
		return "Z"
	case TypeShort:
		return "S"
	case TypeInt:
		return "I"
	case TypeLong:
		return "J"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Value is a Java argument or return value.
type Value struct {
	typ  Type
	prim int64
	obj  Object
}

// Void returns the result of a void method.
func Void() Value { return Value{typ: TypeVoid} }

// ObjectValue wraps a reference. The Value does not own it.
func ObjectValue(o Object) Value { return Value{typ: TypeObject, obj: o} }

// IntValue wraps a Java int.
func IntValue(v int32) Value { return Value{typ: TypeInt, prim: int64(v)} }

// ShortValue wraps a Java short.
func ShortValue(v int16) Value { return Value{typ: TypeShort, prim: int64(v)} }

// LongValue wraps a Java long.
func LongValue(v int64) Value { return Value{typ: TypeLong, prim: v} }

// BoolValue wraps a Java boolean.
func BoolValue(b bool) Value {
	v := Value{typ: TypeBoolean}
	if b {
		v.prim = 1
	}
	return v
}

// Type returns the held type.
func (v Value) Type() Type { return v.typ }

// Raw returns the primitive payload widened to int64. Backends use it to
// marshal arguments; it is zero for object and void values.
func (v Value) Raw() int64 { return v.prim }

// Object returns the held reference, or an error of kind
// KindWrongValueType if v is not an object.
func (v Value) Object() (Object, error) {
	if v.typ != TypeObject {
		return Null, wrongType(TypeObject, v.typ)
	}
	return v.obj, nil
}

// Int returns the held int, or a KindWrongValueType error.
func (v Value) Int() (int32, error) {
	if v.typ != TypeInt {
		return 0, wrongType(TypeInt, v.typ)
	}
	return int32(v.prim), nil
}

// Short returns the held short, or a KindWrongValueType error.
func (v Value) Short() (int16, error) {
	if v.typ != TypeShort {
		return 0, wrongType(TypeShort, v.typ)
	}
	return int16(v.prim), nil
}

// Long returns the held long, or a KindWrongValueType error.
func (v Value) Long() (int64, error) {
	if v.typ != TypeLong {
		return 0, wrongType(TypeLong, v.typ)
	}
	return v.prim, nil
}

// Bool returns the held boolean, or a KindWrongValueType error.
func (v Value) Bool() (bool, error) {
	if v.typ != TypeBoolean {
		return false, wrongType(TypeBoolean, v.typ)
	}
	return v.prim != 0, nil
}

func wrongType(want, got Type) error {
	return &Error{Kind: KindWrongValueType, Msg: fmt.Sprintf("want %s, got %s", want, got)}
}

// ReturnType parses the return type out of a JNI method signature such as
// "(Ljava/lang/String;)Ljava/lang/String;". Arrays are objects.
func ReturnType(sig string) (Type, error) {
	for i := 0; i < len(sig); i++ {
		if sig[i] != ')' {
			continue
		}
		if i+1 >= len(sig) {
			break
		}
		switch sig[i+1] {
		case 'V':
			return TypeVoid, nil
		case 'L', '[':
			return TypeObject, nil
		case 'Z':
			return TypeBoolean, nil
		case 'S':
			return TypeShort, nil
		case 'I':
			return TypeInt, nil
		case 'J':
			return TypeLong, nil
		}
		return TypeVoid, &Error{Kind: KindInvalidSignature, Msg: fmt.Sprintf("unsupported return type in %q", sig)}
	}
	return TypeVoid, &Error{Kind: KindInvalidSignature, Msg: fmt.Sprintf("malformed signature %q", sig)}
}
