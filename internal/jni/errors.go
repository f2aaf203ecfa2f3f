package jni

import (
	"errors"
	"fmt"

	"github.com/giantswarm/javaruntime/internal/sentinel"
)

// JNI return codes (jni.h).
const (
	CodeOK       int32 = 0  // JNI_OK
	CodeErr      int32 = -1 // JNI_ERR
	CodeDetached int32 = -2 // JNI_EDETACHED
	CodeVersion  int32 = -3 // JNI_EVERSION
	CodeNoMem    int32 = -4 // JNI_ENOMEM
	CodeExists   int32 = -5 // JNI_EEXIST
	CodeInvalid  int32 = -6 // JNI_EINVAL
)

// ErrJavaException matches both a raw KindJavaException *Error and a
// *JavaException.
const ErrJavaException = sentinel.Error("java exception")

// ErrorKind classifies an *Error.
type ErrorKind int

const (
	// KindOther carries a raw JNI return code in Error.Code.
	KindOther ErrorKind = iota
	// KindMessage carries a human-readable message in Error.Msg.
	KindMessage
	KindThreadDetached
	// KindJavaException means the call returned with a Java exception
	// pending. Use CheckException to obtain its description.
	KindJavaException
	KindWrongValueType
	KindNullPointer
	KindMethodNotFound
	KindInvalidSignature
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindOther:
		return "Other"
	case KindMessage:
		return "Message"
	case KindThreadDetached:
		return "ThreadDetached"
	case KindJavaException:
		return "JavaException"
	case KindWrongValueType:
		return "WrongValueType"
	case KindNullPointer:
		return "NullPointer"
	case KindMethodNotFound:
		return "MethodNotFound"
	case KindInvalidSignature:
		return "InvalidSignature"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a failure reported by the JNI binding itself, as opposed to an
// exception thrown by Java code.
type Error struct {
	Kind ErrorKind
	Code int32  // KindOther only
	Msg  string // detail; the whole message for KindMessage
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindOther:
		return fmt.Sprintf("JNI error (code %d)", e.Code)
	case KindMessage:
		return e.Msg
	case KindThreadDetached:
		return "current thread is not attached to the JVM"
	case KindJavaException:
		return "java exception was thrown"
	}
	if e.Msg == "" {
		return "jni: " + e.Kind.String()
	}
	return "jni: " + e.Kind.String() + ": " + e.Msg
}

// Is makes a KindJavaException error match ErrJavaException.
func (e *Error) Is(target error) bool {
	return e.Kind == KindJavaException && target == ErrJavaException
}

// codeMessages holds the fixed descriptions of the JNI_CreateJavaVM failure
// codes that TranslateCreateError recognizes.
var codeMessages = map[int32]string{
	CodeInvalid: "invalid arguments",
	CodeExists:  "VM already created",
	CodeNoMem:   "not enough memory",
	CodeVersion: "JNI version error",
	CodeErr:     "unknown JNI error",
}

// TranslateCreateError replaces the numeric code of a KindOther *Error
// returned by JVM creation with a readable KindMessage error. Unknown
// codes, other kinds and foreign error types are returned unchanged.
func TranslateCreateError(err error) error {
	var jerr *Error
	if !errors.As(err, &jerr) || jerr.Kind != KindOther {
		return err
	}
	msg, ok := codeMessages[jerr.Code]
	if !ok {
		return err
	}
	return &Error{Kind: KindMessage, Msg: msg}
}

// JavaException is an exception thrown by Java code during a call, after it
// has been cleared from the thread.
type JavaException struct {
	// Description is the throwable's toString().
	Description string
}

func (e *JavaException) Error() string {
	return "java exception: " + e.Description
}

// Is makes a *JavaException match ErrJavaException.
func (e *JavaException) Is(target error) bool {
	return target == ErrJavaException
}

// CheckException must be applied to the result of every call that may throw,
// immediately after the call and on the same Env. If err reports a pending
// Java exception, the exception is cleared and returned as *JavaException;
// any other error passes through.
func CheckException[T any](env Env, v T, err error) (T, error) {
	var zero T
	if err == nil {
		return v, nil
	}
	var jerr *Error
	if !errors.As(err, &jerr) || jerr.Kind != KindJavaException {
		return zero, err
	}
	desc, ok, takeErr := env.TakeException()
	if takeErr != nil {
		return zero, fmt.Errorf("describe pending exception: %w", takeErr)
	}
	if !ok {
		return zero, err
	}
	return zero, &JavaException{Description: desc}
}
