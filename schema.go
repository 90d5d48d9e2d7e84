package nbfix

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// notebookSchemaURL names the embedded schema resource.
const notebookSchemaURL = "nbformat4-subset.json"

// notebookSchema is the subset of the nbformat 4 schema the fixer relies on:
// a cells list whose entries carry a cell_type and a string-or-lines source,
// and outputs whose data bundle maps MIME types to text.
const notebookSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["cells", "metadata", "nbformat"],
  "properties": {
    "nbformat": {"type": "integer", "minimum": 4},
    "nbformat_minor": {"type": "integer", "minimum": 0},
    "metadata": {"type": "object"},
    "cells": {
      "type": "array",
      "items": {"$ref": "#/definitions/cell"}
    }
  },
  "definitions": {
    "multiline": {
      "oneOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    },
    "cell": {
      "type": "object",
      "required": ["cell_type", "source"],
      "properties": {
        "cell_type": {"type": "string", "minLength": 1},
        "id": {"type": "string"},
        "source": {"$ref": "#/definitions/multiline"},
        "outputs": {
          "type": "array",
          "items": {"$ref": "#/definitions/output"}
        }
      }
    },
    "output": {
      "type": "object",
      "required": ["output_type"],
      "properties": {
        "output_type": {"type": "string"},
        "data": {
          "type": "object",
          "additionalProperties": true
        }
      }
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

// ValidationIssue is a single schema violation.
type ValidationIssue struct {
	Location string
	Message  string
}

// ValidationError lists the schema violations of a notebook.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "/"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidNotebook, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidNotebook
}

// Validate checks the notebook against the embedded nbformat subset schema.
func Validate(nb *Notebook) error {
	schema, err := notebookValidator()
	if err != nil {
		return err
	}

	err = schema.Validate(nb.document())
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return &ValidationError{Issues: collectIssues(verr)}
	}
	return fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
}

func notebookValidator() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		if err := compiler.AddResource(notebookSchemaURL, strings.NewReader(notebookSchema)); err != nil {
			compiledSchemaErr = fmt.Errorf("loading notebook schema: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile(notebookSchemaURL)
	})
	return compiledSchema, compiledSchemaErr
}

// collectIssues flattens the leaves of a schema error tree.
func collectIssues(err *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  node.Message,
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
