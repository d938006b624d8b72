package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the bootstrap file wiring aliases, the class map and message
// catalogs.
//
//	aliases:
//	  "@app": /srv/app
//	  "@app/plugins": "@app/vendor/plugins"   # may reference earlier entries
//	classmap:
//	  'app\models\User': "@app/models/User.go"
//	messages:
//	  de-DE:
//	    app:
//	      "Hello, {name}": "Hallo, {name}"
type Manifest struct {
	// Aliases keeps the file order so entries can refer to earlier ones.
	Aliases  []AliasEntry
	ClassMap map[string]string
	Messages map[string]map[string]map[string]string
}

// AliasEntry is one alias → path line of the manifest.
type AliasEntry struct {
	Alias string
	Path  string
}

type rawManifest struct {
	Aliases  yaml.Node                               `yaml:"aliases"`
	ClassMap map[string]string                       `yaml:"classmap"`
	Messages map[string]map[string]map[string]string `yaml:"messages"`
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	m := &Manifest{
		ClassMap: raw.ClassMap,
		Messages: raw.Messages,
	}

	switch raw.Aliases.Kind {
	case 0:
	case yaml.MappingNode:
		nodes := raw.Aliases.Content
		for i := 0; i+1 < len(nodes); i += 2 {
			key, val := nodes[i], nodes[i+1]
			if val.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("parse manifest: alias %q: line %d: path must be a string", key.Value, val.Line)
			}
			m.Aliases = append(m.Aliases, AliasEntry{Alias: key.Value, Path: val.Value})
		}
	default:
		return nil, fmt.Errorf("parse manifest: line %d: aliases must be a mapping", raw.Aliases.Line)
	}

	return m, nil
}
