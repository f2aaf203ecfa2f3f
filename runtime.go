package javaruntime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/giantswarm/javaruntime/internal/core"
)

// Singleton state for GetOrCreate. The first call boots the JVM; every later
// call returns the same runtime.
//
// singletonMu serializes first callers and protects singletonOnce so that
// resetForTesting (used in tests) is concurrency-safe with GetOrCreate.
// singletonRT is read without the lock once the runtime exists.
var (
	singletonMu   sync.Mutex
	singletonOnce sync.Once
	singletonRT   atomic.Pointer[runtimeWrapper]
)

// Compile-time interface satisfaction checks.
var (
	_ Runtime = (*runtimeWrapper)(nil)
	_ Service = (*serviceWrapper)(nil)
)

// runtimeWrapper wraps core.Runtime to implement the Runtime interface.
//
// The core.Runtime is stored as a named (unexported) field rather than
// embedded so callers cannot reach Executor or Config through a type
// assertion.
type runtimeWrapper struct {
	rt *core.Runtime
}

// CreateService implements Runtime.CreateService, returning the Service
// interface.
//
//nolint:ireturn // Returns Service interface by design for testability (mockable).
func (w *runtimeWrapper) CreateService(ctx context.Context, artifactID, module string) (Service, error) {
	svc, err := w.rt.CreateService(ctx, artifactID, module)
	if err != nil {
		return nil, err
	}
	return &serviceWrapper{svc: svc}, nil
}

// LoadArtifact wraps core.Runtime.LoadArtifact.
func (w *runtimeWrapper) LoadArtifact(ctx context.Context, uri string) (string, error) {
	return w.rt.LoadArtifact(ctx, uri)
}

// Port wraps core.Runtime.Port.
func (w *runtimeWrapper) Port() int {
	return w.rt.Port()
}

// Args wraps core.Runtime.Args.
func (w *runtimeWrapper) Args() []string {
	return w.rt.Args()
}

// serviceWrapper wraps core.ServiceProxy to implement the Service interface.
type serviceWrapper struct {
	svc *core.ServiceProxy
}

func (w *serviceWrapper) ID(ctx context.Context) (int16, error) {
	return w.svc.ID(ctx)
}

func (w *serviceWrapper) Name(ctx context.Context) (string, error) {
	return w.svc.Name(ctx)
}

func (w *serviceWrapper) Close(ctx context.Context) error {
	return w.svc.Close(ctx)
}

// defaultOptions returns an options value populated with all default
// values. Both GetOrCreate and test helpers use it.
func defaultOptions() options {
	return options{
		factory:            defaultVMFactory(),
		maxAttachedThreads: DefaultMaxAttachedThreads,
	}
}

// resetForTesting forgets the singleton so that the next GetOrCreate boots
// again. Only fake JVMs can be booted twice; it must only be called from
// tests.
func resetForTesting() {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	singletonRT.Store(nil)
	singletonOnce = sync.Once{}
}

// GetOrCreate returns the process-wide Runtime, creating the JVM and the
// Java service runtime on the first call.
//
// Concurrent first callers block until bootstrap completes and all receive
// the same Runtime. Later calls return it without locking; cfg and opts are
// ignored, and a warning is logged if cfg differs from the configuration
// the runtime was booted with.
//
// A JVM can be created only once per process, so bootstrap failure is
// fatal: GetOrCreate panics with an error wrapping the cause, and every
// later call panics because the runtime is uninitialized. Options panic on
// invalid values as well.
//
//nolint:ireturn // Returns Runtime interface by design for testability (mockable).
func GetOrCreate(cfg Config, opts ...Option) Runtime {
	if w := singletonRT.Load(); w != nil {
		warnIfIgnored(w, cfg)
		return w
	}

	singletonMu.Lock()
	defer singletonMu.Unlock()

	// created is written inside the Do closure and read after Do returns.
	// sync.Once guarantees the closure completes (happens-before) Do returns.
	created := false
	singletonOnce.Do(func() {
		o := defaultOptions()
		for _, opt := range opts {
			opt(&o)
		}
		rt, err := core.Bootstrap(cfg, o.toCoreOptions())
		if err != nil {
			panic(fmt.Errorf("javaruntime: bootstrap failed: %w", err))
		}
		singletonRT.Store(&runtimeWrapper{rt: rt})
		created = true
	})

	w := singletonRT.Load()
	if w == nil {
		panic("javaruntime: runtime is uninitialized")
	}
	if !created {
		warnIfIgnored(w, cfg)
	}
	return w
}

func warnIfIgnored(w *runtimeWrapper, cfg Config) {
	if w.rt.Config().Equal(cfg) {
		return
	}
	core.Logger().Warn("GetOrCreate called with a different config; returning existing runtime (config and options ignored)")
}
