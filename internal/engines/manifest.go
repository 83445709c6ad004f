// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Order-preserving package.json editing

package engines

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ManifestFile is the manifest rewritten in every project
const ManifestFile = "package.json"

// EnginesField is the manifest member holding the engine block
const EnginesField = "engines"

// Versions is the engine block written into manifests
type Versions struct {
	Node   string
	NPM    string
	HasNPM bool
}

// ParseVersions splits raw on the first comma. Neither half is trimmed:
// "node>=16, npm>=8" yields Node "node>=16" and NPM " npm>=8". Without a
// comma only Node is set.
func ParseVersions(raw string) Versions {
	node, npm, found := strings.Cut(raw, ",")
	return Versions{Node: node, NPM: npm, HasNPM: found}
}

// ManifestError is a per-project failure while rewriting a manifest
type ManifestError struct {
	Op   string // read, parse or write
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// member is one key/value pair of a JSON object, value kept verbatim
type member struct {
	Key   string
	Value json.RawMessage
}

// object is a JSON object that remembers member order
type object []member

func decodeObject(data []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("manifest must be a JSON object")
	}

	var obj object
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		obj = append(obj, member{Key: key, Value: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after manifest object")
	}
	return obj, nil
}

// index returns the position of the last member named key. Duplicate keys
// resolve to the last one, as JSON.parse and npm read them.
func (o object) index(key string) int {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return i
		}
	}
	return -1
}

// set replaces key in place, or appends it when absent
func (o *object) set(key string, value json.RawMessage) {
	if i := o.index(key); i >= 0 {
		(*o)[i].Value = value
		return
	}
	*o = append(*o, member{Key: key, Value: value})
}

func (o object) compact() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := encodeString(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(m.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeString encodes s without HTML escaping, so ">=16" stays readable
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SetEngines replaces the engines member of a manifest document with a
// fresh {node, npm} block, npm omitted when v has none. The member keeps its
// position, every other member is left as it was. The result uses 2-space
// indentation.
func SetEngines(data []byte, v Versions) ([]byte, error) {
	manifest, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	node, err := encodeString(v.Node)
	if err != nil {
		return nil, err
	}
	block := object{{Key: "node", Value: node}}

	if v.HasNPM {
		npm, err := encodeString(v.NPM)
		if err != nil {
			return nil, err
		}
		block = append(block, member{Key: "npm", Value: npm})
	}

	enginesRaw, err := block.compact()
	if err != nil {
		return nil, err
	}
	manifest.set(EnginesField, enginesRaw)

	compact, err := manifest.compact()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// UpdateManifest reads the manifest at path, rewrites its engine block and
// writes it back with the original file mode
func UpdateManifest(path string, v Versions) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ManifestError{Op: "read", Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &ManifestError{Op: "read", Path: path, Err: err}
	}

	updated, err := SetEngines(data, v)
	if err != nil {
		return &ManifestError{Op: "parse", Path: path, Err: err}
	}

	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return &ManifestError{Op: "write", Path: path, Err: err}
	}
	return nil
}
