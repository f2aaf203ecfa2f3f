// Package jnitest provides an in-memory JVM for unit tests. Java strings
// and objects are tracked by handle, Java methods are Go callbacks
// registered by name, and every call is recorded for assertions.
package jnitest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/giantswarm/javaruntime/internal/jni"
)

// Compile-time interface satisfaction checks.
var (
	_ jni.VM  = (*VM)(nil)
	_ jni.Env = (*Env)(nil)
)

// MethodFunc implements a Java method. this is jni.Null for static methods.
// Return Env.Throw(...) to simulate a thrown exception.
type MethodFunc func(env *Env, this jni.Object, args []jni.Value) (jni.Value, error)

// Call records one method invocation.
type Call struct {
	Class  string // static calls only
	Method string
	Sig    string
	This   jni.Object
	Args   []jni.Value
}

// VM is a fake jni.VM. The zero value is not usable; call NewVM.
type VM struct {
	mu sync.Mutex

	next    jni.Object
	strings map[jni.Object]string
	globals map[jni.Object]struct{}
	freed   map[jni.Object]struct{}
	statics map[string]MethodFunc
	methods map[string]MethodFunc
	calls   []Call

	createArgs []jni.InitArgs
	createErr  error
	attaches   int
	detaches   int
	attached   int
}

// NewVM returns an empty fake JVM.
func NewVM() *VM {
	return &VM{
		strings: make(map[jni.Object]string),
		globals: make(map[jni.Object]struct{}),
		freed:   make(map[jni.Object]struct{}),
		statics: make(map[string]MethodFunc),
		methods: make(map[string]MethodFunc),
	}
}

// Factory returns a jni.Factory that records its arguments and yields vm,
// or the error set with FailCreate.
func (vm *VM) Factory() jni.Factory {
	return func(args jni.InitArgs) (jni.VM, error) {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		args.Options = slices.Clone(args.Options)
		vm.createArgs = append(vm.createArgs, args)
		if vm.createErr != nil {
			return nil, vm.createErr
		}
		return vm, nil
	}
}

// FailCreate makes the factory return err.
func (vm *VM) FailCreate(err error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.createErr = err
}

// Creations returns the InitArgs of every factory call.
func (vm *VM) Creations() []jni.InitArgs {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return slices.Clone(vm.createArgs)
}

// HandleStatic registers a static method implementation.
func (vm *VM) HandleStatic(class, name string, fn MethodFunc) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.statics[class+"."+name] = fn
}

// HandleMethod registers an instance method implementation. Methods are
// looked up by name only, regardless of the receiver.
func (vm *VM) HandleMethod(name string, fn MethodFunc) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.methods[name] = fn
}

// NewObject allocates an opaque object handle.
func (vm *VM) NewObject() jni.Object {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.alloc()
}

func (vm *VM) alloc() jni.Object {
	vm.next++
	return vm.next
}

// Calls returns every recorded method call in order.
func (vm *VM) Calls() []Call {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return slices.Clone(vm.calls)
}

// CallsTo returns the recorded calls of the named method.
func (vm *VM) CallsTo(method string) []Call {
	var out []Call
	for _, c := range vm.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// IsGlobal reports whether obj is a live global reference.
func (vm *VM) IsGlobal(obj jni.Object) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, ok := vm.globals[obj]
	return ok
}

// GlobalRefs returns the number of live global references.
func (vm *VM) GlobalRefs() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.globals)
}

// Attachments returns how many times a thread was attached and detached.
func (vm *VM) Attachments() (attaches, detaches int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.attaches, vm.detaches
}

// StringValue returns the Go contents of a Java string handle.
func (vm *VM) StringValue(obj jni.Object) (string, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	s, ok := vm.strings[obj]
	return s, ok
}

// AttachCurrentThread always reports a fresh attachment; the fake does not
// track OS threads.
func (vm *VM) AttachCurrentThread() (jni.Env, bool, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.attaches++
	vm.attached++
	return &Env{vm: vm}, true, nil
}

func (vm *VM) DetachCurrentThread() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.attached == 0 {
		return &jni.Error{Kind: jni.KindThreadDetached}
	}
	vm.detaches++
	vm.attached--
	return nil
}

// Env is the fake per-thread environment.
type Env struct {
	vm      *VM
	pending *string
}

// Throw sets a pending exception with the given description and returns
// the error a real binding reports for a throwing call.
func (e *Env) Throw(desc string) error {
	e.pending = &desc
	return &jni.Error{Kind: jni.KindJavaException}
}

// NewString interns s under a new handle.
func (e *Env) NewString(s string) (jni.Object, error) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	obj := e.vm.alloc()
	e.vm.strings[obj] = s
	return obj, nil
}

// NewStringValue is NewString for use inside MethodFunc callbacks.
func (e *Env) NewStringValue(s string) jni.Value {
	obj, _ := e.NewString(s)
	return jni.ObjectValue(obj)
}

func (e *Env) GetString(obj jni.Object) (string, error) {
	if obj.IsNull() {
		return "", &jni.Error{Kind: jni.KindNullPointer, Msg: "GetString"}
	}
	s, ok := e.vm.StringValue(obj)
	if !ok {
		return "", &jni.Error{Kind: jni.KindWrongValueType, Msg: fmt.Sprintf("object %d is not a string", obj)}
	}
	return s, nil
}

func (e *Env) CallMethod(obj jni.Object, name, sig string, args ...jni.Value) (jni.Value, error) {
	if obj.IsNull() {
		return jni.Value{}, &jni.Error{Kind: jni.KindNullPointer, Msg: "call " + name + " on null"}
	}
	e.vm.mu.Lock()
	if _, gone := e.vm.freed[obj]; gone {
		e.vm.mu.Unlock()
		return jni.Value{}, &jni.Error{Kind: jni.KindNullPointer, Msg: "call " + name + " on deleted global reference"}
	}
	fn, ok := e.vm.methods[name]
	e.vm.calls = append(e.vm.calls, Call{Method: name, Sig: sig, This: obj, Args: slices.Clone(args)})
	e.vm.mu.Unlock()
	return e.invoke(fn, ok, obj, name, sig, args)
}

func (e *Env) CallStaticMethod(class, name, sig string, args ...jni.Value) (jni.Value, error) {
	e.vm.mu.Lock()
	fn, ok := e.vm.statics[class+"."+name]
	e.vm.calls = append(e.vm.calls, Call{Class: class, Method: name, Sig: sig, Args: slices.Clone(args)})
	e.vm.mu.Unlock()
	return e.invoke(fn, ok, jni.Null, name, sig, args)
}

func (e *Env) invoke(fn MethodFunc, ok bool, this jni.Object, name, sig string, args []jni.Value) (jni.Value, error) {
	if !ok {
		return jni.Value{}, &jni.Error{Kind: jni.KindMethodNotFound, Msg: name + sig}
	}
	if _, err := jni.ReturnType(sig); err != nil {
		return jni.Value{}, err
	}
	return fn(e, this, args)
}

func (e *Env) NewGlobalRef(obj jni.Object) (jni.Object, error) {
	if obj.IsNull() {
		return jni.Null, &jni.Error{Kind: jni.KindNullPointer, Msg: "NewGlobalRef"}
	}
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	ref := e.vm.alloc()
	if s, ok := e.vm.strings[obj]; ok {
		e.vm.strings[ref] = s
	}
	e.vm.globals[ref] = struct{}{}
	return ref, nil
}

func (e *Env) DeleteGlobalRef(obj jni.Object) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	delete(e.vm.globals, obj)
	e.vm.freed[obj] = struct{}{}
}

func (e *Env) DeleteLocalRef(jni.Object) {}

func (e *Env) ExceptionCheck() bool {
	return e.pending != nil
}

func (e *Env) TakeException() (string, bool, error) {
	if e.pending == nil {
		return "", false, nil
	}
	desc := *e.pending
	e.pending = nil
	return desc, true, nil
}
