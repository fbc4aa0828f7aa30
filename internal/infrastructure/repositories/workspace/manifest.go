package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xnmeet/evem/internal/domain/entities"
)

const manifestFileMode = 0o644

// readManifest loads the fields evem models from dir/package.json.
func readManifest(dir string) (entities.Manifest, error) {
	var manifest entities.Manifest

	content, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if err != nil {
		return manifest, fmt.Errorf("failed to read %s: %w", filepath.Join(dir, manifestFileName), err)
	}
	if err = json.Unmarshal(content, &manifest); err != nil {
		return manifest, fmt.Errorf("failed to parse %s: %w", filepath.Join(dir, manifestFileName), err)
	}
	return manifest, nil
}

// orderedObject is a JSON object that remembers the order of its keys.
type orderedObject struct {
	keys   []string
	values map[string]json.RawMessage
}

var errNotAnObject = errors.New("expected a JSON object")

func decodeOrderedObject(data []byte) (*orderedObject, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, errNotAnObject
	}

	object := &orderedObject{values: make(map[string]json.RawMessage)}
	for decoder.More() {
		token, err = decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := token.(string)
		if !ok {
			return nil, errNotAnObject
		}
		var value json.RawMessage
		if err = decoder.Decode(&value); err != nil {
			return nil, err
		}
		object.set(key, value)
	}
	if _, err = decoder.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return object, nil
}

func (o *orderedObject) has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o *orderedObject) set(key string, value json.RawMessage) {
	if !o.has(key) {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// marshal encodes the object compactly, in key order.
func (o *orderedObject) marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := marshalString(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		if err = json.Compact(&buf, o.values[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalString encodes s without HTML escaping, so ranges like "<2.0.0" stay readable.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// patchManifest rewrites the version and the already declared dependency ranges of the
// manifest document, leaving every other field and the key order untouched.
func patchManifest(original []byte, manifest entities.Manifest) ([]byte, error) {
	document, err := decodeOrderedObject(original)
	if err != nil {
		return nil, err
	}

	version, err := marshalString(manifest.Version)
	if err != nil {
		return nil, err
	}
	document.set("version", version)

	for _, kind := range entities.DependencyKinds {
		ranges := manifest.Ranges(kind)
		if len(ranges) == 0 || !document.has(string(kind)) {
			continue
		}
		section, sectionErr := decodeOrderedObject(document.values[string(kind)])
		if sectionErr != nil {
			return nil, fmt.Errorf("invalid %q section: %w", kind, sectionErr)
		}
		for _, name := range section.keys {
			versionRange, ok := ranges[name]
			if !ok {
				continue
			}
			encoded, encodeErr := marshalString(versionRange)
			if encodeErr != nil {
				return nil, encodeErr
			}
			section.set(name, encoded)
		}
		encodedSection, marshalErr := section.marshal()
		if marshalErr != nil {
			return nil, marshalErr
		}
		document.set(string(kind), encodedSection)
	}

	compact, err := document.marshal()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err = json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
