package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/platformsettings/internal/config"
	"github.com/yanizio/platformsettings/internal/platform"
	"github.com/yanizio/platformsettings/internal/settings"
)

const runtimeFixture = `{
  // a runtime container for the "app" application
  "application_name": "app",
  "environment": "main-bvxea6i",
  "branch": "main",
  "environment_type": "production",
  "app_dir": "/app",
  "project_entropy": "salt",
  "tree_id": "tree-1",
  "routes": {
    "http://example.com/": {"type": "upstream", "upstream": "app:http", "primary": false},
    "https://www.example.com/": {"type": "upstream", "upstream": "app:http", "primary": false},
    "https://api.example.com/": {"type": "upstream", "upstream": "api:http", "primary": true},
  },
  "variables": {"drupalconfig:system.site:name": "Example"},
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Drush.File = filepath.Join(t.TempDir(), ".drush", "drush.yml")
	cfg.Check.Retries = 0
	return &cfg
}

func fixtureEnv(t *testing.T, data string) *platform.Config {
	t.Helper()
	env, err := platform.FromFixture([]byte(data))
	require.NoError(t, err)
	return env
}

func TestRunSiteURL_WritesDrushFile(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	require.NoError(t, runSiteURL(cfg, fixtureEnv(t, runtimeFixture), &out))
	assert.Contains(t, out.String(), "Created Drush configuration file: "+cfg.Drush.File)

	data, err := os.ReadFile(cfg.Drush.File)
	require.NoError(t, err)

	var doc struct {
		Options struct {
			URI string `yaml:"uri"`
		} `yaml:"options"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	// The api route is primary but belongs to another application.
	assert.Equal(t, "https://www.example.com/", doc.Options.URI)
}

func TestRunSiteURL_NamedUpstream(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.Name = "api"

	require.NoError(t, runSiteURL(cfg, fixtureEnv(t, runtimeFixture), &bytes.Buffer{}))

	data, err := os.ReadFile(cfg.Drush.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://api.example.com/")
}

func TestRunSiteURL_NoRoutes(t *testing.T) {
	cfg := testConfig(t)
	env := fixtureEnv(t, `{"application_name": "app", "environment": "main"}`)

	err := runSiteURL(cfg, env, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "failed to find a site URL", err.Error())
	assert.NoFileExists(t, cfg.Drush.File)

	// A stale file is mentioned so the operator can inspect it.
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Drush.File), 0o755))
	require.NoError(t, os.WriteFile(cfg.Drush.File, []byte("old"), 0o600))
	err = runSiteURL(cfg, env, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), cfg.Drush.File)
}

func TestRunRender_JSON(t *testing.T) {
	var out bytes.Buffer
	s := settings.Tree{"hash_salt": "pinned"}

	err := runRender(fixtureEnv(t, runtimeFixture), s, settings.Tree{}, "json", &out,
		settings.WithEnviron(envMap{}),
		settings.WithLogger(zap.NewNop()),
	)
	require.NoError(t, err)

	var doc struct {
		Settings map[string]any `json:"settings"`
		Config   map[string]any `json:"config"`
		Applied  []string       `json:"applied"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))

	assert.Equal(t, "pinned", doc.Settings["hash_salt"])
	assert.Equal(t, "tree-1", doc.Settings["deployment_identifier"])
	assert.Equal(t, "/app/private", doc.Settings["file_private_path"])
	assert.Equal(t, []any{".*"}, doc.Settings["trusted_host_patterns"])
	assert.Equal(t, map[string]any{"error_level": "hide"}, doc.Config["system.logging"])
	assert.Equal(t, map[string]any{"name": "Example"}, doc.Config["system.site"])
	assert.Contains(t, doc.Applied, settings.RuleVariables)
	assert.NotContains(t, doc.Applied, settings.RuleDatabase)
}

func TestRunRender_OffPlatformPrintsSeed(t *testing.T) {
	var out bytes.Buffer
	env := fixtureEnv(t, `{}`)

	err := runRender(env, settings.Tree{"hash_salt": "local"}, settings.Tree{}, "yaml", &out,
		settings.WithEnviron(envMap{}),
		settings.WithLogger(zap.NewNop()),
	)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, map[string]any{"hash_salt": "local"}, doc["settings"])
	assert.Empty(t, doc["applied"])
}

func TestRunRender_UnknownFormat(t *testing.T) {
	err := runRender(fixtureEnv(t, `{}`), settings.Tree{}, settings.Tree{}, "toml", &bytes.Buffer{},
		settings.WithLogger(zap.NewNop()))
	assert.Error(t, err)
}

func TestReadSeed(t *testing.T) {
	tree, err := readSeed("")
	require.NoError(t, err)
	assert.Empty(t, tree)

	path := filepath.Join(t.TempDir(), "seed.yml")
	require.NoError(t, os.WriteFile(path, []byte("hash_salt: abc\ncontainer_yamls: [services.yml]\n"), 0o600))
	tree, err = readSeed(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", tree["hash_salt"])
	assert.Equal(t, []any{"services.yml"}, tree["container_yamls"])

	_, err = readSeed(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestRunCheck_Redis(t *testing.T) {
	s := miniredis.RunT(t)
	env := fixtureEnv(t, fmt.Sprintf(`{
  "application_name": "app",
  "environment": "main",
  "relationships": {"redis": [{"scheme": "redis", "host": %q, "port": %q}]},
}`, s.Host(), s.Port()))

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), testConfig(t), env, &out))
	assert.Contains(t, out.String(), "cache     ok")
}

func TestRunCheck_Failures(t *testing.T) {
	env := fixtureEnv(t, `{
  "application_name": "app",
  "environment": "main",
  "relationships": {
    "database": [{"scheme": "mongodb", "host": "db.internal", "port": 27017}],
    "redis": [{"scheme": "redis", "host": "127.0.0.1", "port": 1}],
  },
}`)

	var out bytes.Buffer
	err := runCheck(context.Background(), testConfig(t), env, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database:")
	assert.Contains(t, err.Error(), "cache:")
	assert.Contains(t, out.String(), "database  FAIL")
	assert.Contains(t, out.String(), "cache     FAIL")
}

func TestRunCheck_NothingToCheck(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, runCheck(context.Background(), testConfig(t), fixtureEnv(t, `{}`), &out))
	assert.Contains(t, out.String(), "not running on the platform")

	out.Reset()
	env := fixtureEnv(t, `{"application_name": "app", "environment": "main"}`)
	require.NoError(t, runCheck(context.Background(), testConfig(t), env, &out))
	assert.Contains(t, out.String(), "no database or cache relationship")
}

type envMap map[string]string

func (m envMap) LookupEnv(k string) (string, bool) {
	v, ok := m[k]
	return v, ok
}

func (m envMap) Setenv(k, v string) error {
	m[k] = v
	return nil
}
