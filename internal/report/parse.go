package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Parse decodes report bytes into a Value tree. The top level of a
// build-output report is always a JSON object.
func Parse(data []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid report JSON: %w", err)
	}
	// Reject trailing garbage after the document.
	if dec.More() {
		return nil, fmt.Errorf("invalid report JSON: trailing data after document")
	}

	v, err := decodeValue(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid report JSON: %w", err)
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("invalid report JSON: top level is %s, not an object", Kind(v))
	}
	return obj, nil
}

// Load reads and parses the report file at path. A missing file and
// invalid content are equally fatal to the verification call; both wrap
// into a single unrecoverable error.
func Load(path string) (Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load build output: %w", err)
	}
	obj, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not load build output: %w", err)
	}
	return obj, nil
}
