package schema

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadJSON parses the JSON wire form of a schema description and builds the
// index. Failures caused by the source wrap ErrMalformed.
func LoadJSON(data []byte) (*Schema, error) {
	var doc schemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return build(&doc)
}

// LoadYAML parses the YAML wire form, which mirrors the JSON form field for
// field.
func LoadYAML(data []byte) (*Schema, error) {
	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return build(&doc)
}
