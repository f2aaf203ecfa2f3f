package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/giantswarm/javaruntime/internal/jni"
	"github.com/giantswarm/javaruntime/internal/sentinel"
)

// ErrServiceClosed is returned by ServiceProxy methods after Close.
const ErrServiceClosed = sentinel.Error("service proxy is closed")

const (
	getIDMethod   = "getId"
	getIDSig      = "()S"
	getNameMethod = "getName"
	getNameSig    = "()Ljava/lang/String;"
)

// ServiceProxy is the Go handle of one Java service adapter. It owns its
// global reference; the executor is shared with the Runtime.
type ServiceProxy struct {
	exec *jni.Executor
	ref  *jni.GlobalRef
}

// NewServiceProxy wraps ref, which the proxy takes ownership of.
func NewServiceProxy(exec *jni.Executor, ref *jni.GlobalRef) *ServiceProxy {
	return &ServiceProxy{exec: exec, ref: ref}
}

// Ref returns the global reference to the service adapter.
func (s *ServiceProxy) Ref() *jni.GlobalRef {
	return s.ref
}

// ID returns the numeric service identifier.
func (s *ServiceProxy) ID(ctx context.Context) (int16, error) {
	v, err := s.call(ctx, getIDMethod, getIDSig)
	if err != nil {
		return 0, err
	}
	return v.Short()
}

// Name returns the service name.
func (s *ServiceProxy) Name(ctx context.Context) (string, error) {
	name, err := jni.UseRef(ctx, s.ref, func(env jni.Env, obj jni.Object) (string, error) {
		v, err := env.CallMethod(obj, getNameMethod, getNameSig)
		if v, err = jni.CheckException(env, v, err); err != nil {
			return "", err
		}
		str, err := v.Object()
		if err != nil {
			return "", err
		}
		if str.IsNull() {
			return "", &jni.Error{Kind: jni.KindNullPointer, Msg: getNameMethod + " returned null"}
		}
		defer env.DeleteLocalRef(str)
		return env.GetString(str)
	})
	if err != nil {
		return "", s.wrap(getNameMethod, err)
	}
	return name, nil
}

// call invokes a no-argument method returning a primitive.
func (s *ServiceProxy) call(ctx context.Context, method, sig string) (jni.Value, error) {
	v, err := jni.UseRef(ctx, s.ref, func(env jni.Env, obj jni.Object) (jni.Value, error) {
		v, err := env.CallMethod(obj, method, sig)
		return jni.CheckException(env, v, err)
	})
	if err != nil {
		return jni.Value{}, s.wrap(method, err)
	}
	return v, nil
}

func (s *ServiceProxy) wrap(method string, err error) error {
	if errors.Is(err, jni.ErrRefDeleted) {
		return ErrServiceClosed
	}
	return fmt.Errorf("service %s: %w", method, err)
}

// Close deletes the global reference once calls in flight have finished.
// The Java service object itself stays registered with the service
// runtime. Close is idempotent.
func (s *ServiceProxy) Close(ctx context.Context) error {
	if err := s.ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete service reference: %w", err)
	}
	return nil
}
