// internal/drush/drush.go
//
// Site-URL file writer.
//
// Context
// -------
// Drush needs the canonical site URL to build absolute links from the
// command line.  `Write` stores it either as a drush.yml (`options.uri`) or
// as a dotenv file (`DRUSH_OPTIONS_URI`).  Both are restricted to the owner
// because deploy hooks run with a shared umask.
//
// Notes
// -----
//   • Permissions are enforced with an explicit chmod, so a pre-existing
//     file with looser bits is tightened too.
package drush

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported file formats.
const (
	FormatYAML = "yaml"
	FormatEnv  = "env"
)

// EnvKey is the variable Drush reads the default URI from.
const EnvKey = "DRUSH_OPTIONS_URI"

// FileMode is applied to every file written here.
const FileMode os.FileMode = 0o600

var (
	// ErrWrite wraps failures creating or writing the file.
	ErrWrite = errors.New("failed to write file")
	// ErrSecure wraps failures restricting the file mode.
	ErrSecure = errors.New("failed to modify file permissions")
)

// Write stores url at path in the given format.  generator is recorded in
// the YAML header so readers know which command to re-run.
func Write(path, url, format, generator string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	switch format {
	case FormatEnv:
		if err := godotenv.Write(map[string]string{EnvKey: url}, path); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
		}
	case FormatYAML, "":
		data, err := yamlDocument(url, generator)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
		}
		if err := os.WriteFile(path, data, FileMode); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
		}
	default:
		return fmt.Errorf("%w: %s: unknown format %q", ErrWrite, path, format)
	}

	if err := os.Chmod(path, FileMode); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSecure, path, err)
	}
	return nil
}

func yamlDocument(url, generator string) ([]byte, error) {
	key := func(v string) *yaml.Node { return &yaml.Node{Kind: yaml.ScalarNode, Value: v} }

	uri := key("uri")
	uri.HeadComment = "# Set the default site URL."

	options := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		uri,
		{Kind: yaml.ScalarNode, Value: url, Style: yaml.DoubleQuotedStyle},
	}}

	doc := &yaml.Node{
		Kind: yaml.DocumentNode,
		HeadComment: "# Drush configuration file.\n" +
			"# This was automatically generated by: " + generator,
		Content: []*yaml.Node{{
			Kind:    yaml.MappingNode,
			Content: []*yaml.Node{key("options"), options},
		}},
	}
	return yaml.Marshal(doc)
}
