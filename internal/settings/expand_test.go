package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yanizio/platformsettings/internal/platform"
)

func TestExpandVariables(t *testing.T) {
	cases := []struct {
		name         string
		vars         []platform.Variable
		wantSettings Tree
		wantConfig   Tree
	}{
		{
			name:         "config object property",
			vars:         []platform.Variable{{Name: "drupalconfig:system.site:name", Value: "MySite"}},
			wantSettings: Tree{},
			wantConfig:   Tree{"system.site": map[string]any{"name": "MySite"}},
		},
		{
			name:         "config name without property is skipped",
			vars:         []platform.Variable{{Name: "drupalconfig:system.site", Value: "MySite"}},
			wantSettings: Tree{},
			wantConfig:   Tree{},
		},
		{
			name:         "bare config prefix is skipped",
			vars:         []platform.Variable{{Name: "drupalconfig", Value: "x"}},
			wantSettings: Tree{},
			wantConfig:   Tree{},
		},
		{
			name:         "settings key",
			vars:         []platform.Variable{{Name: "drupalsettings:foo", Value: "bar"}},
			wantSettings: Tree{"foo": "bar"},
			wantConfig:   Tree{},
		},
		{
			name:         "short settings prefix",
			vars:         []platform.Variable{{Name: "drupal:foo", Value: "bar"}},
			wantSettings: Tree{"foo": "bar"},
			wantConfig:   Tree{},
		},
		{
			name:         "bare settings prefix writes empty key",
			vars:         []platform.Variable{{Name: "drupalsettings", Value: "v"}},
			wantSettings: Tree{"": "v"},
			wantConfig:   Tree{},
		},
		{
			name:         "settings value passes through verbatim",
			vars:         []platform.Variable{{Name: "drupalsettings:list", Value: map[string]any{"a:b": []any{"x"}}}},
			wantSettings: Tree{"list": map[string]any{"a:b": []any{"x"}}},
			wantConfig:   Tree{},
		},
		{
			name: "deep config path",
			vars: []platform.Variable{
				{Name: "drupalconfig:search_api.server.solr:backend_config:connector_config:host", Value: "solr.internal"},
				{Name: "drupalconfig:search_api.server.solr:backend_config:connector_config:port", Value: float64(8080)},
			},
			wantSettings: Tree{},
			wantConfig: Tree{"search_api.server.solr": map[string]any{
				"backend_config": map[string]any{
					"connector_config": map[string]any{"host": "solr.internal", "port": float64(8080)},
				},
			}},
		},
		{
			name: "path creation replaces scalar",
			vars: []platform.Variable{
				{Name: "drupalconfig:cfg:a", Value: "scalar"},
				{Name: "drupalconfig:cfg:a:b", Value: "deep"},
			},
			wantSettings: Tree{},
			wantConfig:   Tree{"cfg": map[string]any{"a": map[string]any{"b": "deep"}}},
		},
		{
			name: "last write wins",
			vars: []platform.Variable{
				{Name: "drupalsettings:k", Value: "first"},
				{Name: "drupal:k", Value: "second"},
			},
			wantSettings: Tree{"k": "second"},
			wantConfig:   Tree{},
		},
		{
			name: "unknown prefixes ignored",
			vars: []platform.Variable{
				{Name: "env:FOO", Value: "x"},
				{Name: "php:memory_limit", Value: "256M"},
			},
			wantSettings: Tree{},
			wantConfig:   Tree{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, c := Tree{}, Tree{}
			ExpandVariables(tc.vars, s, c)
			assert.Equal(t, tc.wantSettings, s)
			assert.Equal(t, tc.wantConfig, c)
		})
	}
}

func TestExpandVariables_MergesIntoExistingConfig(t *testing.T) {
	c := Tree{"system.site": Tree{"slogan": "kept"}}
	ExpandVariables([]platform.Variable{{Name: "drupalconfig:system.site:name", Value: "MySite"}}, Tree{}, c)

	assert.Equal(t, Tree{"slogan": "kept", "name": "MySite"}, c["system.site"])
}
