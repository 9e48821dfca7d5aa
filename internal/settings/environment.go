package settings

import (
	"os"

	"github.com/yanizio/platformsettings/internal/platform"
)

// Environment is the read-only view the engine derives settings from.
// *platform.Config satisfies it.
type Environment interface {
	IsValidPlatform() bool
	InRuntime() bool
	OnProduction() bool
	OnDedicated() bool
	Branch() (string, bool)
	EnvironmentType() string

	HasRelationship(name string) bool
	Credentials(name string, index int) (platform.Credentials, error)
	Routes() []platform.Route
	Variables() []platform.Variable

	AppDir() string
	ProjectEntropy() string
	TreeID() string
}

// Environ is the process-environment seam used by the application
// environment rule.
type Environ interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
}

type osEnviron struct{}

func (osEnviron) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (osEnviron) Setenv(key, value string) error      { return os.Setenv(key, value) }

var _ Environment = (*platform.Config)(nil)
