package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openplan/openplan/pkg/engine"
	"github.com/openplan/openplan/pkg/factory"
)

const testModule = "example.com/planners"

type testPlanner struct {
	name string
}

func (p *testPlanner) Name() string { return p.name }

func (p *testPlanner) Solve(ctx context.Context, problem engine.Problem) (*engine.PlanResult, error) {
	return &engine.PlanResult{Status: engine.StatusSolvedSatisficing, EngineName: p.name}, nil
}

func plannerDefinition(name string) *factory.Definition {
	return &factory.Definition{
		Capabilities: engine.Profile{
			Modes: []engine.OperationMode{engine.ModeOneshotPlanner},
			Kind:  engine.NewProblemKind(engine.FeatureActionBased),
		},
		Credits: &engine.Credits{Name: name, Author: "The test suite"},
		New: func(params map[string]string) (engine.Engine, error) {
			return &testPlanner{name: name}, nil
		},
	}
}

func wrapperMeta() *factory.MetaDefinition {
	return &factory.MetaDefinition{
		Credits: &engine.Credits{Name: "wrapper", Author: "The test suite"},
		IsCompatible: func(base *factory.Descriptor) bool {
			return base.Capabilities().HasMode(engine.ModeOneshotPlanner)
		},
		Compose: func(base *factory.Descriptor) (*factory.Definition, error) {
			return plannerDefinition(fmt.Sprintf("wrapper[%s]", base.Name())), nil
		},
	}
}

func newTestFactory() *factory.Factory {
	c := factory.NewCatalog()
	c.RegisterEngine(testModule, "Sat", plannerDefinition("sat"))
	c.RegisterEngine(testModule, "Opt", plannerDefinition("opt"))
	c.RegisterMetaEngine(testModule, "Wrapper", wrapperMeta())
	return factory.New(c)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "up.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestApplyRegistersEngines(t *testing.T) {
	f := newTestFactory()
	path := writeConfig(t, `
[engine sat]
module_name = example.com/planners
class_name = Sat

[engine opt]
module_name = example.com/planners
class_name = Opt
`)

	l := NewLoader(zerolog.Nop())
	if err := l.Apply(f, path); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	for _, name := range []string{"sat", "opt"} {
		if !f.HasEngine(name) {
			t.Errorf("Expected engine '%s' to be registered", name)
		}
	}
	if got := f.PreferenceList(); !reflect.DeepEqual(got, []string{"sat", "opt"}) {
		t.Errorf("Expected preference list [sat opt], got %v", got)
	}
}

func TestApplyAgainIsIdempotent(t *testing.T) {
	f := newTestFactory()
	path := writeConfig(t, `
[engine sat]
module_name = example.com/planners
class_name = Sat

[meta-engine wrapper]
module_name = example.com/planners
class_name = Wrapper
`)

	// A watch-triggered reload re-applies the same file; neither the
	// preference list nor the snapshot may grow.
	l := NewLoader(zerolog.Nop())
	if err := l.Apply(f, path); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	prefs := f.PreferenceList()
	snap := f.Snapshot()

	for i := 0; i < 3; i++ {
		if err := l.Apply(f, path); err != nil {
			t.Fatalf("Re-apply returned error: %v", err)
		}
	}

	if got := f.PreferenceList(); !reflect.DeepEqual(got, prefs) {
		t.Errorf("Expected preference list %v after re-apply, got %v", prefs, got)
	}
	got := f.Snapshot()
	if len(got.Engines) != len(snap.Engines) {
		t.Errorf("Expected %d engine instructions after re-apply, got %d", len(snap.Engines), len(got.Engines))
	}
	if len(got.MetaEngines) != len(snap.MetaEngines) {
		t.Errorf("Expected %d meta-engine instructions after re-apply, got %d", len(snap.MetaEngines), len(got.MetaEngines))
	}
}

func TestApplyMetaEngineComposes(t *testing.T) {
	f := newTestFactory()
	path := writeConfig(t, `
[engine sat]
module_name = example.com/planners
class_name = Sat

[meta-engine wrapper]
module_name = example.com/planners
class_name = Wrapper
`)

	l := NewLoader(zerolog.Nop())
	if err := l.Apply(f, path); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if !f.HasEngine("wrapper[sat]") {
		t.Errorf("Expected composed engine 'wrapper[sat]', engines: %v", f.Engines())
	}
}

func TestApplyPreferenceListFiltersUnknown(t *testing.T) {
	f := newTestFactory()
	path := writeConfig(t, `
[global]
engine_preference_list = opt ghost sat

[engine sat]
module_name = example.com/planners
class_name = Sat

[engine opt]
module_name = example.com/planners
class_name = Opt
`)

	l := NewLoader(zerolog.Nop())
	if err := l.Apply(f, path); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if got := f.PreferenceList(); !reflect.DeepEqual(got, []string{"opt", "sat"}) {
		t.Errorf("Expected preference list [opt sat], got %v", got)
	}
}

func TestApplyMissingRefKeys(t *testing.T) {
	f := newTestFactory()
	path := writeConfig(t, `
[engine sat]
module_name = example.com/planners
`)

	l := NewLoader(zerolog.Nop())
	err := l.Apply(f, path)
	if err == nil {
		t.Fatal("Expected error for section without class_name, got nil")
	}
	if !factory.IsContractViolation(err) {
		t.Errorf("Expected contract violation, got %v", err)
	}
}

func TestApplyUnloadableRef(t *testing.T) {
	f := newTestFactory()
	path := writeConfig(t, `
[engine ghost]
module_name = example.com/planners
class_name = Missing
`)

	l := NewLoader(zerolog.Nop())
	err := l.Apply(f, path)
	if err == nil {
		t.Fatal("Expected error for unloadable reference, got nil")
	}
	if !factory.IsRegistrationFailure(err) {
		t.Errorf("Expected registration failure, got %v", err)
	}
	if f.HasEngine("ghost") {
		t.Error("Expected no residue from the failed registration")
	}
}

func TestApplyMissingFile(t *testing.T) {
	f := newTestFactory()
	l := NewLoader(zerolog.Nop())

	if err := l.Apply(f, filepath.Join(t.TempDir(), "absent.ini")); err == nil {
		t.Error("Expected error for missing config file, got nil")
	}
}

func TestLocationsOrder(t *testing.T) {
	paths := Locations()
	if len(paths) < 2 {
		t.Fatalf("Expected at least the working directory entries, got %v", paths)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd returned error: %v", err)
	}
	if paths[0] != filepath.Join(wd, "up.ini") {
		t.Errorf("Expected first location %s, got %s", filepath.Join(wd, "up.ini"), paths[0])
	}
	if paths[1] != filepath.Join(wd, ".up.ini") {
		t.Errorf("Expected second location %s, got %s", filepath.Join(wd, ".up.ini"), paths[1])
	}
	if home, err := os.UserHomeDir(); err == nil {
		last := paths[len(paths)-1]
		if last != filepath.Join(home, ".uprc") {
			t.Errorf("Expected last location %s, got %s", filepath.Join(home, ".uprc"), last)
		}
	}
}
