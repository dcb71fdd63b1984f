package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is one content file decoded into JSON, whatever its source format.
type document struct {
	path string
	data json.RawMessage
}

func isStructuredFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func isSheetFile(name string) bool {
	return strings.EqualFold(path.Ext(name), ".xlsx")
}

// readDocument reads a .json, .yaml or .yml file and returns it as JSON.
// YAML is converted so that every fragment takes the same decoding path.
func readDocument(fsys fs.FS, name string) (document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return document{}, err
	}
	return decodeDocument(name, data)
}

func decodeDocument(name string, data []byte) (document, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		if !json.Valid(data) {
			return document{}, fmt.Errorf("invalid JSON in %s", name)
		}
		return document{path: name, data: data}, nil
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return document{}, fmt.Errorf("parsing YAML %s: %w", name, err)
		}
		out, err := json.Marshal(jsonCompatible(v))
		if err != nil {
			return document{}, fmt.Errorf("converting YAML %s: %w", name, err)
		}
		return document{path: name, data: out}, nil
	default:
		return document{}, fmt.Errorf("unsupported content file %s", name)
	}
}

// jsonCompatible rewrites map[any]any produced by YAML for non-string keys
// into map[string]any so encoding/json can marshal it.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = jsonCompatible(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = jsonCompatible(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = jsonCompatible(val)
		}
		return t
	default:
		return v
	}
}

// kind reports the top-level JSON kind of the document: '[' for arrays, '{'
// for objects, 0 for anything else.
func (d document) kind() byte {
	return jsonKind(d.data)
}

func jsonKind(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	switch trimmed[0] {
	case '[', '{':
		return trimmed[0]
	}
	return 0
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
