// JSON Schema export for table introspection.

package schema

import "github.com/invopop/jsonschema"

// JSONSchema returns a JSON Schema document describing the table's rows.
//
// Every stored value is text, so each column maps to a string property.
// The primary-key column is the only required property.
func (t *Table) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, col := range t.Columns {
		prop := &jsonschema.Schema{Type: "string"}
		if col == t.Key {
			prop.Description = "primary key"
		}
		props.Set(col, prop)
	}
	s := &jsonschema.Schema{
		Title:      t.Name,
		Type:       "object",
		Properties: props,
	}
	if t.Key != "" {
		s.Required = []string{t.Key}
	}
	return s
}
