// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Registry loading from package.json or a YAML file

package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when no path is given
const DefaultConfigFile = "package.json"

// ConfigEnvVar overrides DefaultConfigFile
const ConfigEnvVar = "NB_CONFIG"

// ConfigPath returns the configuration path with precedence: flag > env > default
func ConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env
	}
	return DefaultConfigFile
}

// Load reads the projects mapping from path. Relative project paths are
// resolved against baseDir.
func Load(path, baseDir string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Path: path, Reason: "file not found", Err: err}
		}
		return nil, &ConfigError{Path: path, Reason: "cannot read file", Err: err}
	}

	var projects []Project
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		projects, err = parseYAML(data)
	default:
		projects, err = parseJSON(data)
	}
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
			return nil, cfgErr
		}
		return nil, &ConfigError{Path: path, Reason: "malformed document", Err: err}
	}

	if len(projects) == 0 {
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("%q field is empty", ProjectsField)}
	}

	return New(baseDir, projects), nil
}

// parseJSON walks the top-level object with a token decoder so that the
// projects keep their declaration order
func parseJSON(data []byte) ([]Project, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var projects []Project
	found := false
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if key != ProjectsField {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}
		found = true
		projects, err = parseJSONProjects(dec)
		if err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level object")
	}

	if !found {
		return nil, &ConfigError{Reason: fmt.Sprintf("missing %q field", ProjectsField)}
	}
	return projects, nil
}

func parseJSONProjects(dec *json.Decoder) ([]Project, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &ConfigError{Reason: fmt.Sprintf("%q must be an object of name → path", ProjectsField)}
	}

	var projects []Project
	seen := make(map[string]bool)
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		path, ok := tok.(string)
		if !ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("project %q: path must be a string", name)}
		}
		if err := addProject(&projects, seen, name, path); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return projects, nil
}

func parseYAML(data []byte) ([]Project, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("top-level value must be a mapping")
	}

	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != ProjectsField {
			continue
		}
		node := root.Content[i+1]
		if node.Kind != yaml.MappingNode {
			return nil, &ConfigError{Reason: fmt.Sprintf("%q must be a mapping of name → path", ProjectsField)}
		}

		var projects []Project
		seen := make(map[string]bool)
		for j := 0; j+1 < len(node.Content); j += 2 {
			k, v := node.Content[j], node.Content[j+1]
			if v.Kind != yaml.ScalarNode || v.ShortTag() != "!!str" {
				return nil, &ConfigError{Reason: fmt.Sprintf("project %q: path must be a string", k.Value)}
			}
			if err := addProject(&projects, seen, k.Value, v.Value); err != nil {
				return nil, err
			}
		}
		return projects, nil
	}

	return nil, &ConfigError{Reason: fmt.Sprintf("missing %q field", ProjectsField)}
}

func addProject(projects *[]Project, seen map[string]bool, name, path string) error {
	if name == "" {
		return &ConfigError{Reason: "project name must not be empty"}
	}
	if seen[name] {
		return &ConfigError{Reason: fmt.Sprintf("duplicate project %q", name)}
	}
	if strings.TrimSpace(path) == "" {
		return &ConfigError{Reason: fmt.Sprintf("project %q: path must not be empty", name)}
	}
	seen[name] = true
	*projects = append(*projects, Project{Name: name, Path: path})
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
