package jvmargs

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestValidateAndConvert(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		param   string
		want    string
		wantErr error
	}{
		"heap size":              {param: "Xmx2g", want: "-Xmx2g"},
		"system property":        {param: "Dfoo=bar", want: "-Dfoo=bar"},
		"similar property name":  {param: "Djava.class.path.extra=x", want: "-Djava.class.path.extra=x"},
		"empty":                  {param: "", wantErr: ErrInvalidParameter},
		"blank":                  {param: "  ", wantErr: ErrInvalidParameter},
		"leading dash":           {param: "-Xmx2g", wantErr: ErrInvalidParameter},
		"class path":             {param: "Djava.class.path=/tmp", wantErr: ErrForbiddenParameter},
		"library path":           {param: "Djava.library.path=/lib", wantErr: ErrForbiddenParameter},
		"log config":             {param: "Dlog4j.configurationFile=log.xml", wantErr: ErrForbiddenParameter},
		"class path without val": {param: "Djava.class.path", wantErr: ErrForbiddenParameter},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ValidateAndConvert(tc.param)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ValidateAndConvert(%q) error = %v, want %v", tc.param, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAndConvert(%q) unexpected error: %v", tc.param, err)
			}
			if got != tc.want {
				t.Errorf("ValidateAndConvert(%q) = %q, want %q", tc.param, got, tc.want)
			}
		})
	}
}

func TestJoinPaths(t *testing.T) {
	t.Parallel()

	sep := string(filepath.ListSeparator)

	tests := map[string]struct {
		in   []string
		want string
	}{
		"two entries":   {in: []string{"/sys/a.jar", "/svc/b.jar"}, want: "/sys/a.jar" + sep + "/svc/b.jar"},
		"empty service": {in: []string{"/sys/a.jar", ""}, want: "/sys/a.jar"},
		"empty system":  {in: []string{"", "/svc/b.jar"}, want: "/svc/b.jar"},
		"none":          {in: nil, want: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := JoinPaths(tc.in...); got != tc.want {
				t.Errorf("JoinPaths(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestBuild_Order(t *testing.T) {
	t.Parallel()

	sep := string(filepath.ListSeparator)
	base := Input{
		Prepend:          []string{"Xmx2g", "Dpre=1"},
		Append:           []string{"Dpost=2"},
		SystemClassPath:  "/opt/ejb/system.jar",
		ServiceClassPath: "/opt/ejb/services",
		LogConfigPath:    "/etc/ejb/log4j2.xml",
	}

	tests := map[string]struct {
		modify func(in *Input)
		want   []string
	}{
		"required only": {
			modify: func(in *Input) { in.Prepend, in.Append = nil, nil },
			want: []string{
				"-Djava.class.path=/opt/ejb/system.jar" + sep + "/opt/ejb/services",
				"-Dlog4j.configurationFile=/etc/ejb/log4j2.xml",
			},
		},
		"user flags around required": {
			modify: func(*Input) {},
			want: []string{
				"-Xmx2g",
				"-Dpre=1",
				"-Djava.class.path=/opt/ejb/system.jar" + sep + "/opt/ejb/services",
				"-Dlog4j.configurationFile=/etc/ejb/log4j2.xml",
				"-Dpost=2",
			},
		},
		"library path and debugger": {
			modify: func(in *Input) {
				in.SystemLibPath = "/opt/ejb/lib"
				in.DebugSocket = "localhost:8000"
			},
			want: []string{
				"-Xmx2g",
				"-Dpre=1",
				"-Djava.library.path=/opt/ejb/lib",
				"-Djava.class.path=/opt/ejb/system.jar" + sep + "/opt/ejb/services",
				"-Dlog4j.configurationFile=/etc/ejb/log4j2.xml",
				"-agentlib:jdwp=transport=dt_socket,server=y,suspend=n,address=localhost:8000",
				"-Dpost=2",
			},
		},
		"append overrides prepend": {
			modify: func(in *Input) {
				in.Prepend = []string{"Xmx1g"}
				in.Append = []string{"Xmx4g"}
			},
			want: []string{
				"-Xmx1g",
				"-Djava.class.path=/opt/ejb/system.jar" + sep + "/opt/ejb/services",
				"-Dlog4j.configurationFile=/etc/ejb/log4j2.xml",
				"-Xmx4g",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := base
			tc.modify(&in)
			got, err := Build(in)
			if err != nil {
				t.Fatalf("Build() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Build() =\n  %q\nwant\n  %q", got, tc.want)
			}
		})
	}
}

func TestBuild_LibraryPathPresence(t *testing.T) {
	t.Parallel()

	for _, libPath := range []string{"", "/usr/lib/ejb"} {
		got, err := Build(Input{SystemLibPath: libPath, SystemClassPath: "a.jar", LogConfigPath: "log.xml"})
		if err != nil {
			t.Fatalf("Build() unexpected error: %v", err)
		}
		found := 0
		for _, arg := range got {
			if len(arg) >= len(libraryPathOption) && arg[:len(libraryPathOption)] == libraryPathOption {
				found++
			}
		}
		want := 0
		if libPath != "" {
			want = 1
		}
		if found != want {
			t.Errorf("SystemLibPath=%q: library path options = %d, want %d (%q)", libPath, found, want, got)
		}
	}
}

func TestBuild_RejectsMalformedUserFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      Input
		wantErr error
	}{
		"dashed prepend":    {in: Input{Prepend: []string{"Xss1m", "-Xmx2g"}}, wantErr: ErrInvalidParameter},
		"forbidden append":  {in: Input{Append: []string{"Djava.class.path=/x"}}, wantErr: ErrForbiddenParameter},
		"empty append flag": {in: Input{Append: []string{""}}, wantErr: ErrInvalidParameter},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Build(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tc.wantErr)
			}
			if got != nil {
				t.Errorf("Build() returned partial arguments %q", got)
			}
		})
	}
}
