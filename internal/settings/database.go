// internal/settings/database.go
//
// Relationship → database connection block.
//
// Context
// -------
// The first credential set of the database relationship becomes one
// connection block.  Fields are copied verbatim; the only derived value is
// the compression flag, read from the credential's query map.
//
// Every connection also carries a fixed session isolation directive.  It is
// a policy constant of this engine, not something a deployment can tune.
package settings

import (
	"errors"

	"go.uber.org/zap"

	"github.com/yanizio/platformsettings/internal/platform"
)

// IsolationReadCommitted is run at connection init on every database
// connection derived here.
const IsolationReadCommitted = "SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED"

// DatabaseConfig is one derived database connection block.
type DatabaseConfig struct {
	Driver       string
	Database     string
	Username     string
	Password     string
	Host         string
	Port         int
	Compression  bool
	InitCommands map[string]string
}

// MapDatabase derives a connection block from relationship.  A missing
// relationship is not an error; it yields (nil, false).
func MapDatabase(env Environment, relationship string) (*DatabaseConfig, bool) {
	return mapDatabase(env, relationship, zap.L())
}

func mapDatabase(env Environment, relationship string, log *zap.Logger) (*DatabaseConfig, bool) {
	if !env.HasRelationship(relationship) {
		return nil, false
	}
	creds, err := env.Credentials(relationship, 0)
	if err != nil {
		if !errors.Is(err, platform.ErrNotFound) && !errors.Is(err, platform.ErrNotApplicable) {
			log.Warn("database credentials unreadable", zap.String("relationship", relationship), zap.Error(err))
		}
		return nil, false
	}

	return &DatabaseConfig{
		Driver:      creds.Scheme,
		Database:    creds.Path,
		Username:    creds.Username,
		Password:    creds.Password,
		Host:        creds.Host,
		Port:        creds.Port,
		Compression: truthy(creds.Query["compression"]),
		InitCommands: map[string]string{
			"isolation_level": IsolationReadCommitted,
		},
	}, true
}

// Tree renders the block in the shape the application reads from its
// databases setting.
func (d *DatabaseConfig) Tree() map[string]any {
	cmds := make(map[string]any, len(d.InitCommands))
	for k, v := range d.InitCommands {
		cmds[k] = v
	}
	return map[string]any{
		"driver":   d.Driver,
		"database": d.Database,
		"username": d.Username,
		"password": d.Password,
		"host":     d.Host,
		"port":     d.Port,
		"pdo": map[string]any{
			"mysql_attr_compress": d.Compression,
		},
		"init_commands": cmds,
	}
}
