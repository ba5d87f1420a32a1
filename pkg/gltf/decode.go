package gltf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMalformedJSON is returned when the document text is not valid glTF JSON.
var ErrMalformedJSON = errors.New("malformed glTF JSON")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// absent lists required JSON keys that were missing from an object.
type absent []string

// decodeObject decodes data into dst and reports which of the required keys were absent.
// dst must not implement json.Unmarshaler itself.
func decodeObject(data []byte, dst any, required ...string) (absent, error) {
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, err
	}
	if len(required) == 0 {
		return nil, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}

	var missing absent
	for _, k := range required {
		if _, ok := keys[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing, nil
}

// stripBOM removes a leading UTF-8 byte order mark.
func stripBOM(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, utf8BOM) {
		return data, nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return out, nil
}

// Unmarshal decodes a glTF JSON document. Semantic problems are left for
// Validate; only text that cannot be decoded into the object model fails here.
func Unmarshal(data []byte) (*Root, error) {
	data, err := stripBOM(data)
	if err != nil {
		return nil, err
	}

	root := new(Root)
	if err := json.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return root, nil
}

// Marshal encodes root as compact JSON, omitting properties left at their defaults.
func Marshal(root *Root) ([]byte, error) {
	return json.Marshal(root)
}

// MarshalIndent encodes root as indented JSON.
func MarshalIndent(root *Root, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(root, prefix, indent)
}
