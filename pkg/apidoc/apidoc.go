// Package apidoc describes the user registry REST API as an OpenAPI 3
// document derived from the field registry, and checks request bodies
// against it.
package apidoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-userform/pkg/model"
)

const (
	inputSchemaName  = "UserInput"
	recordSchemaName = "User"
	errorSchemaName  = "ValidationErrors"
)

// Options configures the generated document.
type Options struct {
	Title   string
	Version string
	// Collection is the path of the users collection, "/users" by default.
	Collection string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "User registry"
	}
	if o.Version == "" {
		o.Version = "1.0.0"
	}
	if o.Collection == "" {
		o.Collection = "/users"
	}
	return o
}

// Raw renders the OpenAPI document for reg as JSON.
func Raw(reg *model.Registry, opts Options) ([]byte, error) {
	if reg == nil {
		return nil, errors.New("apidoc: registry is required")
	}
	opts = opts.withDefaults()
	doc := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   opts.Title,
			"version": opts.Version,
		},
		"paths": paths(opts.Collection),
		"components": map[string]any{
			"schemas": map[string]any{
				inputSchemaName:  inputSchema(reg),
				recordSchemaName: recordSchema(),
				errorSchemaName:  errorSchema(),
			},
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Document loads and validates the document for reg with kin-openapi.
func Document(ctx context.Context, reg *model.Registry, opts Options) (*openapi3.T, error) {
	raw, err := Raw(reg, opts)
	if err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("apidoc: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apidoc: validate document: %w", err)
	}
	return doc, nil
}

// Validator checks decoded JSON bodies against the UserInput schema.
type Validator struct {
	schema *openapi3.Schema
}

// NewValidator builds a Validator for reg.
func NewValidator(ctx context.Context, reg *model.Registry) (*Validator, error) {
	doc, err := Document(ctx, reg, Options{})
	if err != nil {
		return nil, err
	}
	ref, ok := doc.Components.Schemas[inputSchemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, errors.New("apidoc: input schema missing from document")
	}
	return &Validator{schema: ref.Value}, nil
}

// ValidatePayload checks body, a JSON object decoded into map[string]any.
// Schema violations are reported as a *PayloadError.
func (v *Validator) ValidatePayload(body map[string]any) error {
	err := v.schema.VisitJSON(body, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return &PayloadError{Issues: issuesFromError(err)}
}

func inputSchema(reg *model.Registry) map[string]any {
	properties := make(map[string]any, reg.Len())
	required := []string{}
	for _, field := range reg.Fields() {
		properties[field.Name] = fieldSchema(field)
		if field.Required {
			required = append(required, field.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func fieldSchema(field model.FieldDescriptor) map[string]any {
	schema := map[string]any{
		"type":  "string",
		"title": field.Label,
	}
	switch field.Kind {
	case model.KindEmail:
		schema["format"] = "email"
	case model.KindTel:
		schema["pattern"] = `^[0-9]*$`
		if field.MaxDigits > 0 {
			schema["maxLength"] = field.MaxDigits
			schema["pattern"] = `^[0-9]{0,` + strconv.Itoa(field.MaxDigits) + `}$`
		}
	case model.KindDate:
		schema["format"] = "date"
		schema["nullable"] = true
	}
	return schema
}

func recordSchema() map[string]any {
	return map[string]any{
		"allOf": []any{
			map[string]any{"$ref": "#/components/schemas/" + inputSchemaName},
			map[string]any{
				"type":     "object",
				"required": []string{"id"},
				"properties": map[string]any{
					"id": map[string]any{
						"oneOf": []any{
							map[string]any{"type": "string"},
							map[string]any{"type": "integer"},
						},
					},
				},
			},
		},
	}
}

func errorSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"errors": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		},
	}
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{
		"application/json": map[string]any{"schema": schema},
	}
}

func paths(collection string) map[string]any {
	item := collection + "/{id}"
	idParam := map[string]any{
		"name":     "id",
		"in":       "path",
		"required": true,
		"schema":   map[string]any{"type": "string"},
	}
	invalid := map[string]any{
		"description": "Validation failed",
		"content":     jsonContent(ref(errorSchemaName)),
	}
	notFound := map[string]any{"description": "User not found"}

	return map[string]any{
		collection: map[string]any{
			"get": map[string]any{
				"operationId": "listUsers",
				"summary":     "List users",
				"responses": map[string]any{
					"200": map[string]any{
						"description": "All users",
						"content": jsonContent(map[string]any{
							"type":  "array",
							"items": ref(recordSchemaName),
						}),
					},
				},
			},
			"post": map[string]any{
				"operationId": "createUser",
				"summary":     "Create a user",
				"requestBody": map[string]any{
					"required": true,
					"content":  jsonContent(ref(inputSchemaName)),
				},
				"responses": map[string]any{
					"201": map[string]any{
						"description": "Created user",
						"content":     jsonContent(ref(recordSchemaName)),
					},
					"422": invalid,
				},
			},
		},
		item: map[string]any{
			"parameters": []any{idParam},
			"put": map[string]any{
				"operationId": "updateUser",
				"summary":     "Update a user",
				"requestBody": map[string]any{
					"required": true,
					"content":  jsonContent(ref(inputSchemaName)),
				},
				"responses": map[string]any{
					"200": map[string]any{
						"description": "Updated user",
						"content":     jsonContent(ref(recordSchemaName)),
					},
					"404": notFound,
					"422": invalid,
				},
			},
			"delete": map[string]any{
				"operationId": "deleteUser",
				"summary":     "Delete a user",
				"responses": map[string]any{
					"200": map[string]any{"description": "Deleted"},
					"404": notFound,
				},
			},
		},
	}
}
