package javaruntime_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/javaruntime"
	"github.com/giantswarm/javaruntime/internal/jni"
	"github.com/giantswarm/javaruntime/internal/jni/jnitest"
)

// Tests in this file share the process singleton and therefore do not call
// t.Parallel. Each one resets it through useFreshSingleton.

func useFreshSingleton(t *testing.T) {
	t.Helper()
	javaruntime.ResetForTesting()
	t.Cleanup(javaruntime.ResetForTesting)
}

func testConfig() javaruntime.Config {
	return javaruntime.Config{
		JVM:      javaruntime.JVMConfig{ArgsPrepend: []string{"Xss1m"}},
		Runtime:  javaruntime.RuntimeConfig{Port: 6300, LogConfigPath: "/etc/node/log4j2.xml"},
		Service:  javaruntime.ServiceConfig{ClassPath: "/opt/node/services"},
		Internal: javaruntime.InternalConfig{SystemClassPath: "/opt/node/runtime.jar"},
	}
}

// newServiceJVM returns a fake JVM with a working service runtime that
// accepts file:// artifacts only.
func newServiceJVM() *jnitest.VM {
	vm := jnitest.NewVM()
	facade := vm.NewObject()
	vm.HandleStatic(javaruntime.DefaultBootstrapClass, "createServiceRuntime", func(*jnitest.Env, jni.Object, []jni.Value) (jni.Value, error) {
		return jni.ObjectValue(facade), nil
	})
	vm.HandleMethod("loadArtifact", func(env *jnitest.Env, _ jni.Object, args []jni.Value) (jni.Value, error) {
		obj, _ := args[0].Object()
		uri, _ := env.GetString(obj)
		if !strings.HasPrefix(uri, "file://") {
			return jni.Value{}, env.Throw("java.lang.IllegalArgumentException: unsupported scheme in " + uri)
		}
		return env.NewStringValue("com.acme:timestamping:1.0.0"), nil
	})
	vm.HandleMethod("createService", func(*jnitest.Env, jni.Object, []jni.Value) (jni.Value, error) {
		return jni.ObjectValue(vm.NewObject()), nil
	})
	vm.HandleMethod("getId", func(*jnitest.Env, jni.Object, []jni.Value) (jni.Value, error) {
		return jni.ShortValue(7), nil
	})
	vm.HandleMethod("getName", func(env *jnitest.Env, _ jni.Object, _ []jni.Value) (jni.Value, error) {
		return env.NewStringValue("timestamping"), nil
	})
	return vm
}

// recoverPanic runs fn and returns the value it panicked with, or nil.
func recoverPanic(fn func()) (r any) {
	defer func() { r = recover() }()
	fn()
	return nil
}

func TestGetOrCreate_ConcurrentFirstCalls(t *testing.T) {
	useFreshSingleton(t)

	vm := newServiceJVM()
	const callers = 16
	results := make([]javaruntime.Runtime, callers)

	var g errgroup.Group
	for i := range callers {
		g.Go(func() error {
			results[i] = javaruntime.GetOrCreate(testConfig(), javaruntime.WithVMFactory(vm.Factory()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if n := len(vm.Creations()); n != 1 {
		t.Fatalf("JVM created %d times, want 1", n)
	}
	if n := len(vm.CallsTo("createServiceRuntime")); n != 1 {
		t.Fatalf("service runtime bootstrapped %d times, want 1", n)
	}
	for i, rt := range results {
		if rt != results[0] {
			t.Fatalf("caller %d got a different runtime", i)
		}
	}
}

func TestGetOrCreate_LaterConfigIgnored(t *testing.T) {
	useFreshSingleton(t)

	var buf bytes.Buffer
	javaruntime.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { javaruntime.SetLogger(nil) })

	first := newServiceJVM()
	rt := javaruntime.GetOrCreate(testConfig(), javaruntime.WithVMFactory(first.Factory()))
	wantArgs := rt.Args()

	if again := javaruntime.GetOrCreate(testConfig()); again != rt {
		t.Fatal("second call with the same config returned a different runtime")
	}
	if strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("identical config logged a warning:\n%s", buf.String())
	}

	second := newServiceJVM()
	other := testConfig()
	other.Runtime.Port = 7000
	other.JVM.ArgsAppend = []string{"Xmx4g"}
	if again := javaruntime.GetOrCreate(other, javaruntime.WithVMFactory(second.Factory())); again != rt {
		t.Fatal("second call with another config returned a different runtime")
	}

	if n := len(second.Creations()); n != 0 {
		t.Errorf("later factory called %d times, want 0", n)
	}
	if rt.Port() != 6300 {
		t.Errorf("Port() = %d, want the boot config's 6300", rt.Port())
	}
	if got := rt.Args(); strings.Join(got, " ") != strings.Join(wantArgs, " ") {
		t.Errorf("Args() changed from %q to %q", wantArgs, got)
	}
	if !strings.Contains(buf.String(), "config and options ignored") {
		t.Errorf("expected a warning about the ignored config, log:\n%s", buf.String())
	}
}

func TestGetOrCreate_BootstrapFailureIsFatal(t *testing.T) {
	useFreshSingleton(t)

	vm := newServiceJVM()
	vm.FailCreate(&jni.Error{Kind: jni.KindOther, Code: jni.CodeNoMem})

	r := recoverPanic(func() {
		javaruntime.GetOrCreate(testConfig(), javaruntime.WithVMFactory(vm.Factory()))
	})
	err, ok := r.(error)
	if !ok {
		t.Fatalf("GetOrCreate panicked with %v (%T), want an error", r, r)
	}
	if !strings.Contains(err.Error(), "not enough memory") {
		t.Errorf("panic error = %v, want translated creation failure", err)
	}

	r = recoverPanic(func() {
		javaruntime.GetOrCreate(testConfig(), javaruntime.WithVMFactory(newServiceJVM().Factory()))
	})
	if fmt.Sprint(r) != "javaruntime: runtime is uninitialized" {
		t.Errorf("second call panicked with %v, want uninitialized runtime", r)
	}
	if n := len(vm.Creations()); n != 1 {
		t.Errorf("JVM creation attempted %d times, want 1", n)
	}
}

func TestGetOrCreate_InvalidConfigIsFatal(t *testing.T) {
	tests := map[string]struct {
		modify  func(c *javaruntime.Config)
		wantErr error
	}{
		"dash-prefixed flag": {
			modify:  func(c *javaruntime.Config) { c.JVM.ArgsPrepend = []string{"-Xmx1g"} },
			wantErr: javaruntime.ErrInvalidParameter,
		},
		"class path override": {
			modify:  func(c *javaruntime.Config) { c.JVM.ArgsAppend = []string{"Djava.class.path=/tmp"} },
			wantErr: javaruntime.ErrForbiddenParameter,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			useFreshSingleton(t)

			vm := newServiceJVM()
			cfg := testConfig()
			tc.modify(&cfg)

			r := recoverPanic(func() {
				javaruntime.GetOrCreate(cfg, javaruntime.WithVMFactory(vm.Factory()))
			})
			err, ok := r.(error)
			if !ok || !errors.Is(err, tc.wantErr) {
				t.Fatalf("GetOrCreate panicked with %v, want %v", r, tc.wantErr)
			}
			if n := len(vm.Creations()); n != 0 {
				t.Errorf("JVM created %d times despite invalid flags", n)
			}
		})
	}
}

func TestRuntime_ServiceLifecycle(t *testing.T) {
	useFreshSingleton(t)

	rt := javaruntime.GetOrCreate(testConfig(),
		javaruntime.WithVMFactory(newServiceJVM().Factory()),
		javaruntime.WithMaxAttachedThreads(2),
	)
	ctx := context.Background()

	_, err := rt.LoadArtifact(ctx, "ftp://artifacts/timestamping.jar")
	var jex *javaruntime.JavaException
	if !errors.As(err, &jex) {
		t.Fatalf("LoadArtifact() error = %v, want *JavaException", err)
	}
	if !strings.Contains(jex.Description, "unsupported scheme") {
		t.Errorf("Description = %q", jex.Description)
	}

	id, err := rt.LoadArtifact(ctx, "file:///opt/node/artifacts/timestamping.jar")
	if err != nil {
		t.Fatalf("LoadArtifact() error = %v", err)
	}

	svc, err := rt.CreateService(ctx, id, "com.acme.TimestampingModule")
	if err != nil {
		t.Fatalf("CreateService() error = %v", err)
	}
	if got, err := svc.ID(ctx); err != nil || got != 7 {
		t.Errorf("ID() = (%d, %v), want (7, nil)", got, err)
	}
	if got, err := svc.Name(ctx); err != nil || got != "timestamping" {
		t.Errorf("Name() = (%q, %v), want (\"timestamping\", nil)", got, err)
	}
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := svc.ID(ctx); !errors.Is(err, javaruntime.ErrServiceClosed) {
		t.Errorf("ID() after Close error = %v, want ErrServiceClosed", err)
	}
}

func TestRuntime_ConcurrentCalls(t *testing.T) {
	useFreshSingleton(t)

	vm := newServiceJVM()
	rt := javaruntime.GetOrCreate(testConfig(),
		javaruntime.WithVMFactory(vm.Factory()),
		javaruntime.WithMaxAttachedThreads(4),
	)

	g, ctx := errgroup.WithContext(context.Background())
	for range 32 {
		g.Go(func() error {
			id, err := rt.LoadArtifact(ctx, "file:///opt/node/artifacts/timestamping.jar")
			if err != nil {
				return err
			}
			svc, err := rt.CreateService(ctx, id, "com.acme.TimestampingModule")
			if err != nil {
				return err
			}
			return svc.Close(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if attaches, detaches := vm.Attachments(); attaches != detaches {
		t.Errorf("attaches/detaches = %d/%d, scopes left open", attaches, detaches)
	}
	// Only the facade reference survives.
	if n := vm.GlobalRefs(); n != 1 {
		t.Errorf("live global references = %d, want 1", n)
	}
}

func TestGetOrCreate_Port(t *testing.T) {
	tests := map[string]struct {
		opts     []javaruntime.Option
		wantZero bool
	}{
		"zero port passed through": {wantZero: true},
		"auto port":                {opts: []javaruntime.Option{javaruntime.WithAutoPort()}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			useFreshSingleton(t)

			vm := newServiceJVM()
			cfg := testConfig()
			cfg.Runtime.Port = 0
			rt := javaruntime.GetOrCreate(cfg, append(tc.opts, javaruntime.WithVMFactory(vm.Factory()))...)

			sent, err := vm.CallsTo("createServiceRuntime")[0].Args[0].Int()
			if err != nil {
				t.Fatal(err)
			}
			if int(sent) != rt.Port() {
				t.Errorf("service runtime got port %d, Port() = %d", sent, rt.Port())
			}
			if (sent == 0) != tc.wantZero {
				t.Errorf("service runtime got port %d, want zero = %v", sent, tc.wantZero)
			}
		})
	}
}
