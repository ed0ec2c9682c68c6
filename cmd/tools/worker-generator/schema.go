// cmd/tools/worker-generator/schema.go
package main

import (
	"fmt"
	"sort"
	"strings"
)

// schemaProperties extracts the properties of a JSON schema object.
func schemaProperties(schema map[string]interface{}) map[string]interface{} {
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		return props
	}
	return map[string]interface{}{}
}

func requiredSet(schema map[string]interface{}) map[string]bool {
	out := map[string]bool{}
	if list, ok := schema["required"].([]interface{}); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				out[s] = true
			}
		}
	}
	return out
}

// goTypeFromJSONType maps JSON schema types to Go types. Union types fall
// back to interface{}.
func goTypeFromJSONType(jsonType interface{}) string {
	jt, ok := jsonType.(string)
	if !ok {
		return "interface{}"
	}
	switch jt {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// generateStructFields renders one struct field per schema property, sorted
// by name. Optional properties get omitempty.
func generateStructFields(schema map[string]interface{}) string {
	props := schemaProperties(schema)
	required := requiredSet(schema)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		tag := name
		if !required[name] {
			tag += ",omitempty"
		}
		field := fmt.Sprintf("\t%s %s `json:\"%s\"`", exportedName(name), goTypeFromJSONType(details["type"]), tag)
		if desc, ok := details["description"].(string); ok && desc != "" {
			field += " // " + desc
		}
		fields = append(fields, field)
	}
	return strings.Join(fields, "\n")
}

// exportedName turns a camelCase or kebab-case property into a Go field
// name, keeping the common Id initialism.
func exportedName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	name := b.String()
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

func packageName(activityID string) string {
	return strings.ReplaceAll(strings.ToLower(activityID), "-", "")
}

// categoryDirectory maps registry categories to worker directories.
func categoryDirectory(category string) string {
	switch category {
	case "recommendation", "matching":
		return "recommendation"
	case "catalog", "catalog-management":
		return "catalog"
	default:
		return strings.ToLower(strings.ReplaceAll(category, " ", "-"))
	}
}
