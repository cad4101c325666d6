// Package jsonschema extracts human-facing parameter summaries from the
// JSON Schema objects MCP tool servers attach to their tools.
package jsonschema

import "sort"

// ParamInfo describes one parameter of a tool's input schema: its name,
// its declared JSON Schema type, and whether the schema marks it required.
type ParamInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// knownTypes are the JSON Schema primitive type names displayed verbatim;
// anything else (missing, or a schema composition keyword) displays as "any".
var knownTypes = map[string]bool{
	"string": true, "number": true, "integer": true,
	"boolean": true, "object": true, "array": true, "null": true,
}

// ExtractParams reads the top-level "properties"/"required" shape of schema
// and returns one ParamInfo per property, sorted by name for stable display.
// A schema with no "properties" (or nil) yields no params.
func ExtractParams(schema map[string]interface{}) []ParamInfo {
	props, _ := schema["properties"].(map[string]interface{})
	if len(props) == 0 {
		return nil
	}

	required := make(map[string]bool, len(props))
	if reqList, ok := schema["required"].([]interface{}); ok {
		for _, r := range reqList {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]ParamInfo, 0, len(names))
	for _, name := range names {
		params = append(params, ParamInfo{
			Name:     name,
			Type:     paramType(props[name]),
			Required: required[name],
		})
	}
	return params
}

func paramType(prop interface{}) string {
	m, ok := prop.(map[string]interface{})
	if !ok {
		return "any"
	}
	t, ok := m["type"].(string)
	if !ok || !knownTypes[t] {
		return "any"
	}
	return t
}
