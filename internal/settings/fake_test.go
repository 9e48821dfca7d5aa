package settings

import (
	"fmt"

	"github.com/yanizio/platformsettings/internal/platform"
)

// fakeEnv satisfies Environment with injectable fields.
type fakeEnv struct {
	valid, runtime, production, dedicated bool

	branch          string
	environmentType string
	appDir          string
	entropy         string
	treeID          string

	relationships map[string][]platform.Credentials
	routes        []platform.Route
	variables     []platform.Variable
}

func runtimeEnv() *fakeEnv {
	return &fakeEnv{
		valid:           true,
		runtime:         true,
		branch:          "feature-x",
		environmentType: "development",
		appDir:          "/app",
		entropy:         "entropy-value",
		treeID:          "tree-123",
		relationships:   map[string][]platform.Credentials{},
	}
}

func (f *fakeEnv) IsValidPlatform() bool   { return f.valid }
func (f *fakeEnv) InRuntime() bool         { return f.runtime }
func (f *fakeEnv) OnProduction() bool      { return f.production }
func (f *fakeEnv) OnDedicated() bool       { return f.dedicated }
func (f *fakeEnv) EnvironmentType() string { return f.environmentType }
func (f *fakeEnv) AppDir() string          { return f.appDir }
func (f *fakeEnv) ProjectEntropy() string  { return f.entropy }
func (f *fakeEnv) TreeID() string          { return f.treeID }

func (f *fakeEnv) Branch() (string, bool) { return f.branch, f.branch != "" }

func (f *fakeEnv) HasRelationship(name string) bool {
	_, ok := f.relationships[name]
	return ok
}

func (f *fakeEnv) Credentials(name string, index int) (platform.Credentials, error) {
	inst, ok := f.relationships[name]
	if !ok || index >= len(inst) {
		return platform.Credentials{}, fmt.Errorf("%s[%d]: %w", name, index, platform.ErrNotFound)
	}
	return inst[index], nil
}

func (f *fakeEnv) Routes() []platform.Route       { return f.routes }
func (f *fakeEnv) Variables() []platform.Variable { return f.variables }

// mapEnviron is an in-memory Environ.
type mapEnviron map[string]string

func (m mapEnviron) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapEnviron) Setenv(key, value string) error {
	m[key] = value
	return nil
}
