package config

import "github.com/invopop/jsonschema"

// Schema returns the JSON Schema for config.toml, using TOML key names.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		FieldNameTag:               "toml",
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(&Config{})
	s.Title = "doclint configuration"
	s.Description = "Schema for ~/.config/doclint/config.toml and .doclint.toml."
	return s
}
