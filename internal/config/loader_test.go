package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	root := t.TempDir()
	t.Setenv("PLATFORMSETTINGS_ROOT", root)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Paths.Root)
	assert.Equal(t, "PLATFORM_", cfg.Platform.Prefix)
	assert.Equal(t, "database", cfg.Database.Relationship)
	assert.Equal(t, "redis", cfg.Cache.Relationship)
	assert.True(t, cfg.Cache.RedisExtension)
	assert.Equal(t, filepath.Join(root, ".drush", "drush.yml"), cfg.Drush.File)
	assert.Equal(t, 5*time.Second, cfg.Check.Timeout)
	assert.Same(t, cfg, Get())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("PLATFORMSETTINGS_ROOT", root)

	yml := `
database:
  relationship: mysqldb
cache:
  installing: true
drush:
  format: env
  file: /tmp/drush.env
check:
  timeout: 2s
`
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFile), []byte(yml), 0o600))
	t.Setenv("PLATFORMSETTINGS_DATABASE__KEY", "legacy")
	t.Setenv("PLATFORMSETTINGS_CACHE__REDIS_EXTENSION", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mysqldb", cfg.Database.Relationship)
	assert.Equal(t, "legacy", cfg.Database.Key)
	assert.True(t, cfg.Cache.Installing)
	assert.False(t, cfg.Cache.RedisExtension)
	assert.Equal(t, "env", cfg.Drush.Format)
	assert.Equal(t, "/tmp/drush.env", cfg.Drush.File)
	assert.Equal(t, 2*time.Second, cfg.Check.Timeout)
}

func TestLoad_DotEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("PLATFORMSETTINGS_ROOT", root)
	// Registered so the value godotenv sets is cleared after the test.
	t.Setenv("PLATFORMSETTINGS_APP__ENV_VAR", "")
	require.NoError(t, os.Unsetenv("PLATFORMSETTINGS_APP__ENV_VAR"))

	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"),
		[]byte("PLATFORMSETTINGS_APP__ENV_VAR=DRUPAL_ENV\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "DRUPAL_ENV", cfg.App.EnvVar)
}

func TestLoad_ValidationFails(t *testing.T) {
	root := t.TempDir()
	t.Setenv("PLATFORMSETTINGS_ROOT", root)
	t.Setenv("PLATFORMSETTINGS_DRUSH__FORMAT", "toml")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv("PLATFORMSETTINGS_ROOT", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvNameRules(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"PLATFORMSETTINGS_APP__ENV_VAR", "APP-ENV"},
		{"PLATFORMSETTINGS_PLATFORM__PREFIX", "PLATFORM"},
		{"PLATFORMSETTINGS_PLATFORM__PREFIX", "1PLATFORM_"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv("PLATFORMSETTINGS_ROOT", t.TempDir())
			t.Setenv(tc.key, tc.value)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
