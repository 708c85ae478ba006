package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

//go:embed project.schema.json
var projectSchema []byte

const schemaResource = "project.schema.json"

// Issue is a single schema violation
type Issue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// SchemaValidator checks structured uploads against the project document schema
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the embedded project schema
func NewSchemaValidator() (*SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaResource, bytes.NewReader(projectSchema)); err != nil {
		return nil, fmt.Errorf("failed to load project schema: %w", err)
	}
	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile project schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Validate reports the first violation as a ValidationError.
func (v *SchemaValidator) Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &entities.ValidationError{Field: "document", Reason: err.Error()}
	}

	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &entities.ValidationError{Field: "document", Reason: err.Error()}
	}
	issues := collectIssues(verr)
	if len(issues) == 0 {
		return &entities.ValidationError{Field: "document", Reason: verr.Message}
	}

	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return &entities.ValidationError{
		Field:  issues[0].Location,
		Reason: strings.Join(messages, "; "),
	}
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "/"
			}
			issues = append(issues, Issue{
				Location: location,
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
