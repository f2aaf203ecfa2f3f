package jni

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/giantswarm/javaruntime/internal/sentinel"
)

// ErrRefDeleted is returned by UseRef after the reference was deleted.
const ErrRefDeleted = sentinel.Error("global reference deleted")

// GlobalRef owns one JNI global reference. Share it by pointer; the owner
// deletes it with Delete when the referenced Java object is no longer needed.
//
// Calls made through UseRef hold a read lock for their whole scope and
// Delete takes the write lock, so the reference is never deleted while a
// call is using it. Both take the lock before entering the executor.
type GlobalRef struct {
	obj     Object
	exec    *Executor
	mu      sync.RWMutex
	deleted atomic.Bool
}

// NewGlobalRef takes ownership of obj, which must already be a global
// reference created with Env.NewGlobalRef.
func NewGlobalRef(exec *Executor, obj Object) *GlobalRef {
	return &GlobalRef{obj: obj, exec: exec}
}

// Object returns the referenced object. It must not be used after Delete;
// prefer UseRef, which guards against a concurrent Delete.
func (r *GlobalRef) Object() Object {
	return r.obj
}

// Deleted reports whether Delete has completed.
func (r *GlobalRef) Deleted() bool {
	return r.deleted.Load()
}

// Delete releases the global reference, waiting for calls that are using
// it. Only the first successful call has an effect.
func (r *GlobalRef) Delete(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleted.Load() {
		return nil
	}
	err := r.exec.WithAttached(ctx, func(env Env) error {
		env.DeleteGlobalRef(r.obj)
		return nil
	})
	if err != nil {
		return err
	}
	r.deleted.Store(true)
	return nil
}

// UseRef runs fn in an attached scope with the referenced object. It
// returns ErrRefDeleted if r has been deleted.
func UseRef[T any](ctx context.Context, r *GlobalRef, fn func(env Env, obj Object) (T, error)) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.deleted.Load() {
		var zero T
		return zero, ErrRefDeleted
	}
	return Attached(ctx, r.exec, func(env Env) (T, error) {
		return fn(env, r.obj)
	})
}
