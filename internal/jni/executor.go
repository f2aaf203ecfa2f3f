package jni

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Executor hands out attached Env scopes. It is safe for concurrent use and
// meant to be shared by pointer.
type Executor struct {
	vm    VM
	slots *semaphore.Weighted // nil means unbounded
	log   *slog.Logger
}

// NewExecutor returns an Executor for vm. If maxAttached is positive, at most
// that many goroutines hold an attached scope at once; others wait in
// WithAttached. A nil logger falls back to slog.Default().
func NewExecutor(vm VM, maxAttached int, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Executor{vm: vm, log: logger}
	if maxAttached > 0 {
		e.slots = semaphore.NewWeighted(int64(maxAttached))
	}
	return e
}

// VM returns the underlying JVM.
func (e *Executor) VM() VM {
	return e.vm
}

// WithAttached runs fn with the calling goroutine locked to an OS thread
// that is attached to the JVM. The thread is detached afterwards only if
// this call attached it. ctx bounds the wait for an attach slot; once fn
// starts it runs to completion.
//
// An exception fn leaves pending is logged and cleared so it cannot leak into
// the next scope on the same thread.
func (e *Executor) WithAttached(ctx context.Context, fn func(env Env) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.slots != nil {
		if err := e.slots.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("wait for attach slot: %w", err)
		}
		defer e.slots.Release(1)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	env, attached, err := e.vm.AttachCurrentThread()
	if err != nil {
		return fmt.Errorf("attach current thread: %w", err)
	}
	if attached {
		defer func() {
			if err := e.vm.DetachCurrentThread(); err != nil {
				e.log.Warn("detach current thread", "error", err)
			}
		}()
	}
	defer e.clearLeakedException(env)

	return fn(env)
}

func (e *Executor) clearLeakedException(env Env) {
	if !env.ExceptionCheck() {
		return
	}
	desc, _, err := env.TakeException()
	if err != nil {
		e.log.Warn("clear leaked java exception", "error", err)
		return
	}
	e.log.Warn("cleared unchecked java exception", "exception", desc)
}

// Attached is WithAttached for callbacks that produce a value.
func Attached[T any](ctx context.Context, e *Executor, fn func(env Env) (T, error)) (T, error) {
	var out T
	err := e.WithAttached(ctx, func(env Env) error {
		v, err := fn(env)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
