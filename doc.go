// Package javaruntime embeds a Java service runtime in a Go process.
//
// The first GetOrCreate call creates the JVM with an argument list built
// from the supplied Config, then asks the Java side to start its service
// runtime on the configured port. The resulting Runtime is a process-wide
// singleton: a JVM can be created only once per process and is never torn
// down.
//
// # Basic Usage
//
//	import "github.com/giantswarm/javaruntime"
//
//	rt := javaruntime.GetOrCreate(javaruntime.Config{
//	    JVM: javaruntime.JVMConfig{ArgsPrepend: []string{"Xmx2g"}},
//	    Runtime: javaruntime.RuntimeConfig{
//	        Port:          6400,
//	        LogConfigPath: "/etc/node/log4j2.xml",
//	    },
//	    Service:  javaruntime.ServiceConfig{ClassPath: "/opt/node/services"},
//	    Internal: javaruntime.InternalConfig{SystemClassPath: "/opt/node/runtime.jar"},
//	})
//
//	id, err := rt.LoadArtifact(ctx, "file:///opt/node/artifacts/cryptocurrency.jar")
//	var jex *javaruntime.JavaException
//	if errors.As(err, &jex) {
//	    log.Printf("artifact rejected: %s", jex.Description)
//	}
//
//	svc, err := rt.CreateService(ctx, id, "com.acme.CryptocurrencyModule")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close(ctx)
//
// # JVM Arguments
//
// User flags in JVMConfig are given without their leading dash and are
// placed around the options the runtime needs (library path, class path,
// log configuration and the optional JDWP agent):
//
//	[prepend...] -Djava.library.path=... -Djava.class.path=... -Dlog4j.configurationFile=... [-agentlib:jdwp=...] [append...]
//
// Flags that would override one of those properties are rejected.
//
// # Building
//
// The JNI backend needs cgo and the "jni" build tag, with the JDK headers
// and libjvm visible to the C toolchain:
//
//	CGO_CFLAGS="-I$JAVA_HOME/include -I$JAVA_HOME/include/linux" \
//	CGO_LDFLAGS="-L$JAVA_HOME/lib/server" go build -tags jni ./...
//
// Without it, GetOrCreate fails with ErrNoVMBackend unless WithVMFactory
// supplies a JVM.
package javaruntime
