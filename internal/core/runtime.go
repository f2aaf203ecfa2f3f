package core

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/giantswarm/javaruntime/internal/jni"
	"github.com/giantswarm/javaruntime/internal/jvmargs"
	"github.com/giantswarm/javaruntime/internal/netutil"
	"github.com/giantswarm/javaruntime/internal/sentinel"
)

// Java-side contract of the service runtime.
const (
	BootstrapClass = "com/exonum/binding/runtime/ServiceRuntimeBootstrap"

	createRuntimeMethod = "createServiceRuntime"
	createRuntimeSig    = "(I)Lcom/exonum/binding/runtime/ServiceRuntime;"

	loadArtifactMethod = "loadArtifact"
	loadArtifactSig    = "(Ljava/lang/String;)Ljava/lang/String;"

	createServiceMethod = "createService"
	createServiceSig    = "(Ljava/lang/String;Ljava/lang/String;)Lcom/exonum/binding/service/adapters/UserServiceAdapter;"
)

const (
	// ErrNoVMBackend is returned by the default factory of builds without
	// the cgo JNI backend.
	ErrNoVMBackend = sentinel.Error("no JVM backend compiled in (build with cgo and -tags jni)")

	// ErrEmptyArtifactID is returned when the service runtime accepts an
	// artifact but reports no identifier for it.
	ErrEmptyArtifactID = sentinel.Error("service runtime returned an empty artifact id")

	// ErrJavaException matches every error caused by a Java exception.
	ErrJavaException = jni.ErrJavaException

	// ErrInvalidParameter and ErrForbiddenParameter report malformed user
	// JVM flags.
	ErrInvalidParameter   = jvmargs.ErrInvalidParameter
	ErrForbiddenParameter = jvmargs.ErrForbiddenParameter
)

// Runtime is the Go side of the Java service runtime: the executor of the
// process JVM plus a global reference to the runtime facade. All fields are
// immutable after Bootstrap and Runtime is safe for concurrent use.
type Runtime struct {
	cfg    Config
	args   []string
	port   int
	exec   *jni.Executor
	facade *jni.GlobalRef
}

// Bootstrap creates the JVM described by cfg and acquires the service
// runtime facade. It must be called at most once per process; a JVM cannot
// be created twice.
func Bootstrap(cfg Config, opts Options) (*Runtime, error) {
	if opts.Factory == nil {
		return nil, errors.New("bootstrap: JVM factory must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runtime config: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	cfg = cfg.Clone()

	port := cfg.Runtime.Port
	if port == 0 && opts.AutoPort {
		p, err := netutil.FreePort()
		if err != nil {
			return nil, fmt.Errorf("pick service runtime port: %w", err)
		}
		port = p
	}

	args, err := jvmargs.Build(cfg.argsInput())
	if err != nil {
		return nil, fmt.Errorf("build JVM arguments: %w", err)
	}
	log.Debug("creating JVM", "args", args)

	vm, err := opts.Factory(jni.InitArgs{Version: jni.Version18, Options: slices.Clone(args)})
	if err != nil {
		return nil, fmt.Errorf("create JVM: %w", jni.TranslateCreateError(err))
	}

	exec := jni.NewExecutor(vm, opts.MaxAttachedThreads, log)
	facade, err := createServiceRuntime(exec, port)
	if err != nil {
		return nil, fmt.Errorf("create service runtime: %w", err)
	}

	log.Info("java service runtime started", "port", port)
	return &Runtime{
		cfg:    cfg,
		args:   args,
		port:   port,
		exec:   exec,
		facade: facade,
	}, nil
}

func createServiceRuntime(exec *jni.Executor, port int) (*jni.GlobalRef, error) {
	obj, err := jni.Attached(context.Background(), exec, func(env jni.Env) (jni.Object, error) {
		v, err := env.CallStaticMethod(BootstrapClass, createRuntimeMethod, createRuntimeSig, jni.IntValue(int32(port)))
		if v, err = jni.CheckException(env, v, err); err != nil {
			return jni.Null, err
		}
		local, err := v.Object()
		if err != nil {
			return jni.Null, err
		}
		if local.IsNull() {
			return jni.Null, &jni.Error{Kind: jni.KindNullPointer, Msg: createRuntimeMethod + " returned null"}
		}
		defer env.DeleteLocalRef(local)
		return env.NewGlobalRef(local)
	})
	if err != nil {
		return nil, err
	}
	return jni.NewGlobalRef(exec, obj), nil
}

// Config returns a copy of the configuration the runtime was booted with.
func (r *Runtime) Config() Config {
	return r.cfg.Clone()
}

// Args returns a copy of the options the JVM was created with.
func (r *Runtime) Args() []string {
	return slices.Clone(r.args)
}

// Port returns the port passed to the service runtime.
func (r *Runtime) Port() int {
	return r.port
}

// Executor returns the shared executor.
func (r *Runtime) Executor() *jni.Executor {
	return r.exec
}

// CreateService instantiates the service module of a loaded artifact and
// returns a proxy owning a global reference to it. artifactID must be a
// value returned by LoadArtifact.
func (r *Runtime) CreateService(ctx context.Context, artifactID, module string) (*ServiceProxy, error) {
	obj, err := jni.UseRef(ctx, r.facade, func(env jni.Env, facade jni.Object) (jni.Object, error) {
		jid, err := env.NewString(artifactID)
		if err != nil {
			return jni.Null, err
		}
		defer env.DeleteLocalRef(jid)
		jmodule, err := env.NewString(module)
		if err != nil {
			return jni.Null, err
		}
		defer env.DeleteLocalRef(jmodule)

		v, err := env.CallMethod(facade, createServiceMethod, createServiceSig,
			jni.ObjectValue(jid), jni.ObjectValue(jmodule))
		if v, err = jni.CheckException(env, v, err); err != nil {
			return jni.Null, err
		}
		local, err := v.Object()
		if err != nil {
			return jni.Null, err
		}
		if local.IsNull() {
			return jni.Null, &jni.Error{Kind: jni.KindNullPointer, Msg: createServiceMethod + " returned null"}
		}
		defer env.DeleteLocalRef(local)
		return env.NewGlobalRef(local)
	})
	if err != nil {
		return nil, fmt.Errorf("create service %s from artifact %s: %w", module, artifactID, err)
	}
	return NewServiceProxy(r.exec, jni.NewGlobalRef(r.exec, obj)), nil
}

// LoadArtifact loads and verifies the artifact at uri and returns its
// identifier. If the service runtime rejects the artifact, the returned
// error is a *jni.JavaException describing why; any other error is a
// binding failure.
func (r *Runtime) LoadArtifact(ctx context.Context, uri string) (string, error) {
	id, err := jni.UseRef(ctx, r.facade, func(env jni.Env, facade jni.Object) (string, error) {
		juri, err := env.NewString(uri)
		if err != nil {
			return "", err
		}
		defer env.DeleteLocalRef(juri)

		v, err := env.CallMethod(facade, loadArtifactMethod, loadArtifactSig, jni.ObjectValue(juri))
		if v, err = jni.CheckException(env, v, err); err != nil {
			return "", err
		}
		local, err := v.Object()
		if err != nil {
			return "", err
		}
		if local.IsNull() {
			return "", nil
		}
		defer env.DeleteLocalRef(local)
		return env.GetString(local)
	})
	if err != nil {
		return "", fmt.Errorf("load artifact %s: %w", uri, err)
	}
	if id == "" {
		return "", fmt.Errorf("load artifact %s: %w", uri, ErrEmptyArtifactID)
	}
	return id, nil
}
