package recommend

import (
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadRequirements reads a request from a YAML or JSON file:
//
//	role: Data Analyst
//	experience: Entry
//	persona: Startup
//	skills:
//	  Python: 5
//	  SQL: 3
//
// The result is not validated; Recommend does that.
func LoadRequirements(path string) (*Requirements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file %s: %w", path, err)
	}

	return ParseRequirements(data)
}

// ParseRequirements decodes a YAML or JSON document into Requirements.
// Scalars are weakly typed, so a weight may be written as "4", but never as 4.5 or true.
func ParseRequirements(data []byte) (*Requirements, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing request: %w", err)
	}

	var req Requirements
	cfg := &mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.DecodeHookFuncType(wholeNumberHook),
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating request decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, &InvalidRequestError{Field: "request", Reason: err.Error()}
	}

	return &req, nil
}

// wholeNumberHook stops weak decoding from truncating fractions or turning booleans into integers.
func wholeNumberHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}

	switch v := data.(type) {
	case bool:
		return nil, fmt.Errorf("expected a whole number, got %t", v)
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("expected a whole number, got %v", v)
		}
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return nil, fmt.Errorf("expected a whole number, got %v", v)
		}
	}

	return data, nil
}
