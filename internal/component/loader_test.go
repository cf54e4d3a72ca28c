package component

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nerrad567/piplant-core/internal/modulepath"
	"github.com/nerrad567/piplant-core/internal/pathvalue"
)

// recordingLogger captures warnings for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func named(name string) Factory {
	return func(context.Context, Args) (any, error) { return name, nil }
}

func testCatalogue(t *testing.T, paths ...string) *Catalogue {
	t.Helper()
	cat := NewCatalogue()
	for _, p := range paths {
		if err := cat.Register(p, named(p)); err != nil {
			t.Fatalf("Register(%q) error = %v", p, err)
		}
	}
	return cat
}

func TestCatalogue_Register(t *testing.T) {
	cat := NewCatalogue()

	if err := cat.Register("sensor.hygrometer.mock", named("x")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := cat.Register("sensor.hygrometer.mock", named("y")); !errors.Is(err, ErrDuplicateFactory) {
		t.Errorf("duplicate Register() error = %v, want ErrDuplicateFactory", err)
	}
	if err := cat.Register("nodots", named("z")); !errors.Is(err, modulepath.ErrInvalidPath) {
		t.Errorf("Register(nodots) error = %v, want ErrInvalidPath", err)
	}
	if err := cat.Register("a.b", nil); !errors.Is(err, ErrNilFactory) {
		t.Errorf("Register(nil) error = %v, want ErrNilFactory", err)
	}

	paths := cat.Paths()
	if len(paths) != 1 || paths[0] != "sensor.hygrometer.mock" {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestCatalogue_LookupErrors(t *testing.T) {
	cat := testCatalogue(t, "sensor.hygrometer.aideepen.capacitive")

	_, err := cat.Lookup(modulepath.MustParse("sensor.hygrometer"))
	var classErr *ClassNotFoundError
	if !errors.As(err, &classErr) {
		t.Fatalf("Lookup(namespace) error = %v, want *ClassNotFoundError", err)
	}
	if !errors.Is(err, ErrClassNotFound) {
		t.Error("ClassNotFoundError should unwrap to ErrClassNotFound")
	}

	_, err = cat.Lookup(modulepath.MustParse("light.device.mock"))
	var modErr *ModuleNotFoundError
	if !errors.As(err, &modErr) {
		t.Fatalf("Lookup(unknown) error = %v, want *ModuleNotFoundError", err)
	}
	if modErr.Path.String() != "light.device.mock" {
		t.Errorf("ModuleNotFoundError.Path = %q", modErr.Path)
	}
}

func TestLoader_Resolve(t *testing.T) {
	const module = "pkg.sensor.hygrometer.hygrometer"

	tests := []struct {
		name       string
		registered []string
		ref        Reference
		globalMock bool
		wantPath   string
		wantSource Source
		wantErr    error
		wantWarn   bool
	}{
		{
			name:       "normal resolution",
			registered: []string{module},
			ref:        Reference{Module: modulepath.MustParse(module)},
			wantPath:   module,
			wantSource: SourceModule,
		},
		{
			name:       "remote module overrides module",
			registered: []string{module, "vendor.hygrometer.remote"},
			ref: Reference{
				Module:       modulepath.MustParse(module),
				RemoteModule: modulepath.MustParse("vendor.hygrometer.remote"),
			},
			wantPath:   "vendor.hygrometer.remote",
			wantSource: SourceRemoteModule,
		},
		{
			name:       "global mock climbs two levels",
			registered: []string{module, "pkg.sensor.mock", "pkg.sensor.hygrometer.mock"},
			ref:        Reference{Module: modulepath.MustParse(module)},
			globalMock: true,
			wantPath:   "pkg.sensor.mock",
			wantSource: SourceGlobalMock,
		},
		{
			name:       "custom mock beats global mock",
			registered: []string{module, "pkg.sensor.mock", "pkg.sensor.hygrometer.mock"},
			ref:        Reference{Module: modulepath.MustParse(module), CustomMock: true},
			globalMock: true,
			wantPath:   "pkg.sensor.hygrometer.mock",
			wantSource: SourceCustomMock,
		},
		{
			name:       "missing custom mock degrades to module",
			registered: []string{module},
			ref:        Reference{Module: modulepath.MustParse(module), CustomMock: true},
			wantPath:   module,
			wantSource: SourceModule,
			wantWarn:   true,
		},
		{
			name:       "missing global mock is fatal",
			registered: []string{module},
			ref:        Reference{Module: modulepath.MustParse(module)},
			globalMock: true,
			wantErr:    ErrModuleNotFound,
		},
		{
			name:       "missing module is fatal",
			registered: []string{"other.thing"},
			ref:        Reference{Module: modulepath.MustParse(module)},
			wantErr:    ErrModuleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			loader := NewLoader(testCatalogue(t, tt.registered...))
			loader.SetLogger(log)

			res, err := loader.Resolve(tt.ref, tt.globalMock)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if res.Path.String() != tt.wantPath {
				t.Errorf("Resolve() path = %q, want %q", res.Path, tt.wantPath)
			}
			if res.Source != tt.wantSource {
				t.Errorf("Resolve() source = %s, want %s", res.Source, tt.wantSource)
			}
			if got := len(log.warns) > 0; got != tt.wantWarn {
				t.Errorf("warned = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestLoader_LoadPropagatesFactoryError(t *testing.T) {
	boom := errors.New("i2c bus unavailable")
	cat := NewCatalogue()
	cat.MustRegister("sensor.hygrometer.broken", func(context.Context, Args) (any, error) {
		return nil, boom
	})

	loader := NewLoader(cat)
	_, err := loader.Load(context.Background(),
		Reference{Module: modulepath.MustParse("sensor.hygrometer.broken")}, nil, false)
	if err != boom {
		t.Errorf("Load() error = %v, want the factory error unmodified", err)
	}
}

func TestLoader_LoadPassesKwargs(t *testing.T) {
	cat := NewCatalogue()
	cat.MustRegister("light.device.echo", func(_ context.Context, args Args) (any, error) {
		name := args.String("name", "")
		return name, args.Err()
	})

	kwargs := pathvalue.Mapping().Put("name", pathvalue.String("porch"))
	obj, err := NewLoader(cat).Load(context.Background(),
		Reference{Module: modulepath.MustParse("light.device.echo")}, kwargs, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if obj != "porch" {
		t.Errorf("Load() = %v, want %q", obj, "porch")
	}
}

func TestLoader_NilInstance(t *testing.T) {
	cat := NewCatalogue()
	cat.MustRegister("a.b", func(context.Context, Args) (any, error) { return nil, nil })

	_, err := NewLoader(cat).Load(context.Background(), Reference{Module: modulepath.MustParse("a.b")}, nil, false)
	if !errors.Is(err, ErrNilInstance) {
		t.Errorf("Load() error = %v, want ErrNilInstance", err)
	}
}
