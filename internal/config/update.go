package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/koltont40/networkmonitoring/internal/errors"
	"gopkg.in/yaml.v3"
)

// keyKind describes how a settable key's value is parsed and tagged.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
	kindDuration
)

// settableKeys lists every dotted key accepted by Set.
var settableKeys = map[string]keyKind{
	"server.url":             kindString,
	"server.timeout":         kindDuration,
	"poll.interval_seconds":  kindInt,
	"poll.manual_timeout":    kindDuration,
	"list.reachable_only":    kindBool,
	"history.sparkline_size": kindInt,
	"tunnel.host":            kindString,
	"tunnel.timeout":         kindDuration,
	"log.file":               kindString,
	"log.level":              kindString,
	"output.color":           kindString,
	"output.format":          kindString,
}

// SettableKeys returns the sorted list of keys accepted by Set.
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory",
			"Check permissions on "+filepath.Dir(path))
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check permissions on "+path)
	}
	return nil
}

// Set updates a single dotted key (e.g. "poll.interval_seconds") in the
// config file at path. It edits the YAML node tree so existing comments and
// key order survive, and creates missing sections.
func Set(path, key, value string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown config key '%s'", key),
			"Valid keys: "+strings.Join(SettableKeys(), ", "))
	}

	tag, err := tagFor(kind, value)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid value for %s: %q", key, value),
			"Check the value type for this key")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	for _, section := range parts[:len(parts)-1] {
		child := findMapValue(node, section)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalarNode("!!str", section), child)
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	if existing := findMapValue(node, leaf); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = tag
		existing.Value = value
		existing.Content = nil
	} else {
		node.Content = append(node.Content, scalarNode("!!str", leaf), scalarNode(tag, value))
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// tagFor validates value against kind and returns the YAML tag to write.
func tagFor(kind keyKind, value string) (string, error) {
	switch kind {
	case kindInt:
		if _, err := strconv.Atoi(value); err != nil {
			return "", err
		}
		return "!!int", nil
	case kindBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return "", err
		}
		return "!!bool", nil
	case kindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return "", err
		}
		return "!!str", nil
	default:
		return "!!str", nil
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
