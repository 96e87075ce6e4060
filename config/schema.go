package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Schema returns the JSON schema of a config file. Every field is optional since unset values take their defaults,
// and unknown fields are rejected as they are by FromReader.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&Config{})
	schema.Title = "cspace config"
	return schema
}

// SchemaJSON returns Schema indented for printing.
func SchemaJSON() ([]byte, error) {
	out, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode config schema")
	}
	return out, nil
}
