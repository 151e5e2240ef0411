package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema definition.
type Schema struct {
	Name       string
	Definition map[string]any
}

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// CatalogSchema describes the curriculum catalog document.
var CatalogSchema = &Schema{
	Name: "curriculum-catalog",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"years"},
		"properties": map[string]any{
			"years": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"number", "modules"},
					"properties": map[string]any{
						"number": map[string]any{"type": "integer", "minimum": 1},
						"title":  map[string]any{"type": "string"},
						"modules": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []any{"name"},
								"properties": map[string]any{
									"name":        map[string]any{"type": "string", "minLength": 1},
									"description": map[string]any{"type": "string"},
									"resources": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"videos":    stringList,
											"courses":   stringList,
											"readings":  stringList,
											"articles":  stringList,
											"tutorials": stringList,
										},
									},
								},
							},
						},
					},
				},
			},
		},
	},
}

// QuizBankSchema describes the quiz bank document.
var QuizBankSchema = &Schema{
	Name: "quiz-bank",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"quiz_name", "questions"},
			"properties": map[string]any{
				"quiz_name": map[string]any{"type": "string"},
				"year":      map[string]any{"type": "integer", "minimum": 1},
				"module":    map[string]any{"type": "integer", "minimum": 0},
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []any{"question_text", "options", "answer"},
						"properties": map[string]any{
							"question_text": map[string]any{"type": "string"},
							"answer":        map[string]any{"type": "string", "minLength": 1},
							"options": map[string]any{
								"type":     "array",
								"minItems": 1,
								"items": map[string]any{
									"type":     "object",
									"required": []any{"key", "text"},
									"properties": map[string]any{
										"key":  map[string]any{"type": "string", "minLength": 1},
										"text": map[string]any{"type": "string"},
									},
								},
							},
						},
					},
				},
			},
		},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateDocument validates raw JSON against the given Schema.
func validateDocument(schema *Schema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not a Go map with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
