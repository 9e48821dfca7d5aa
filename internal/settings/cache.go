// internal/settings/cache.go
//
// Relationship → cache backend block.
//
// Context
// -------
// Only one backend is supported (redis).  Activation needs three things:
// the relationship exists, the application is not mid-install, and the
// runtime has the redis client extension.  The last two are external
// facts handed in as Capabilities; the engine never probes for them.
//
// The bootstrap container definition lets the application resolve its
// cache backend before the main service container is built.  It is a fixed
// template whose only parameter is the client factory class.
package settings

import (
	"go.uber.org/zap"
)

// DefaultRedisFactory is the client factory class wired into the bootstrap
// container when Capabilities.FactoryClass is empty.
const DefaultRedisFactory = `Drupal\redis\ClientFactory`

// RedisCacheBackend is the service id selected as the default cache bin.
const RedisCacheBackend = "cache.backend.redis"

// Capabilities carries the external predicates the cache rule depends on.
type Capabilities struct {
	Installing     bool   // application install in progress
	RedisExtension bool   // runtime has the redis client extension
	FactoryClass   string // defaults to DefaultRedisFactory
}

// CacheConfig is one derived cache backend block.
type CacheConfig struct {
	Backend        string // always "redis"
	Interface      string
	Host           string
	Port           int
	Password       string
	ContainerYAMLs []string
	Bootstrap      map[string]any
}

// MapCacheBackend derives the cache block, or (nil, false) when any
// activation condition fails.
func MapCacheBackend(env Environment, relationship string, caps Capabilities) (*CacheConfig, bool) {
	return mapCacheBackend(env, relationship, caps, zap.L())
}

func mapCacheBackend(env Environment, relationship string, caps Capabilities, log *zap.Logger) (*CacheConfig, bool) {
	if !env.HasRelationship(relationship) || caps.Installing || !caps.RedisExtension {
		return nil, false
	}
	creds, err := env.Credentials(relationship, 0)
	if err != nil {
		log.Debug("cache credentials unavailable", zap.String("relationship", relationship), zap.Error(err))
		return nil, false
	}

	factory := caps.FactoryClass
	if factory == "" {
		factory = DefaultRedisFactory
	}

	return &CacheConfig{
		Backend:   "redis",
		Interface: "PhpRedis",
		Host:      creds.Host,
		Port:      creds.Port,
		Password:  creds.Password,
		ContainerYAMLs: []string{
			"modules/contrib/redis/example.services.yml",
			"modules/contrib/redis/redis.services.yml",
		},
		Bootstrap: bootstrapContainer(factory),
	}, true
}

// Apply writes the block into settings.  Existing container_yamls entries
// are kept and the redis overlays appended after them.
func (c *CacheConfig) Apply(settings Tree) {
	conn := child(settings, "redis.connection")
	conn["interface"] = c.Interface
	conn["host"] = c.Host
	conn["port"] = c.Port

	child(settings, "cache")["default"] = RedisCacheBackend

	switch existing := settings["container_yamls"].(type) {
	case []string:
		settings["container_yamls"] = append(existing, c.ContainerYAMLs...)
	case []any:
		for _, y := range c.ContainerYAMLs {
			existing = append(existing, y)
		}
		settings["container_yamls"] = existing
	default:
		settings["container_yamls"] = append([]string(nil), c.ContainerYAMLs...)
	}

	settings["bootstrap_container_definition"] = c.Bootstrap
}

func bootstrapContainer(factory string) map[string]any {
	return map[string]any{
		"parameters": map[string]any{},
		"services": map[string]any{
			"redis.factory": map[string]any{
				"class": factory,
			},
			RedisCacheBackend: map[string]any{
				"class":     `Drupal\redis\Cache\CacheBackendFactory`,
				"arguments": []any{"@redis.factory", "@cache_tags_provider.container", "@serialization.phpserialize"},
			},
			"cache.container": map[string]any{
				"class":     `\Drupal\redis\Cache\PhpRedis`,
				"factory":   []any{"@" + RedisCacheBackend, "get"},
				"arguments": []any{"container"},
			},
			"cache_tags_provider.container": map[string]any{
				"class":     `Drupal\redis\Cache\RedisCacheTagsChecksum`,
				"arguments": []any{"@redis.factory"},
			},
			"serialization.phpserialize": map[string]any{
				"class": `Drupal\Component\Serialization\PhpSerialize`,
			},
		},
	}
}
