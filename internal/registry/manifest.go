package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrManifestInvalid is returned when the manifest document fails schema
	// validation.
	ErrManifestInvalid = errors.New("registry: manifest invalid")
)

// manifestSchema constrains slot manifests before any slot-level validation
// runs, so authoring mistakes surface with JSON pointer locations.
const manifestSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["slots"],
	"additionalProperties": false,
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"slots": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["page", "key", "type"],
				"additionalProperties": false,
				"properties": {
					"page": {"type": "string", "minLength": 1},
					"key": {"type": "string", "pattern": "^[A-Za-z0-9_.-]+$"},
					"type": {"enum": ["text", "richtext", "image", "html"]},
					"default": {"type": "string"},
					"description": {"type": "string"}
				}
			}
		}
	}
}`

var compiledManifestSchema = mustCompileManifestSchema()

func mustCompileManifestSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("manifest.json", strings.NewReader(manifestSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("manifest.json")
}

// Manifest is the serialized slot declaration document.
type Manifest struct {
	Version int    `json:"version,omitempty"`
	Slots   []Slot `json:"slots"`
}

// ManifestIssue is one schema violation with its JSON pointer location.
type ManifestIssue struct {
	Location string
	Message  string
}

// ManifestError carries every violation found in one manifest.
type ManifestError struct {
	Issues []ManifestIssue
	Cause  error
}

func (e *ManifestError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrManifestInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ManifestError) Unwrap() error {
	return ErrManifestInvalid
}

// ParseManifest decodes and schema-validates a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, &ManifestError{Cause: err}
	}

	if err := compiledManifestSchema.Validate(raw); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &ManifestError{Issues: collectManifestIssues(validationErr), Cause: err}
		}
		return nil, &ManifestError{Cause: err}
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, &ManifestError{Cause: err}
	}
	return &manifest, nil
}

// LoadManifest parses a manifest and registers every slot it declares.
// Registration stops at the first slot error; earlier slots stay registered.
func (r *Registry) LoadManifest(data []byte) (int, error) {
	manifest, err := ParseManifest(data)
	if err != nil {
		return 0, err
	}
	for i, slot := range manifest.Slots {
		if err := r.Register(slot); err != nil {
			return i, fmt.Errorf("registry: manifest slot %d: %w", i, err)
		}
	}
	return len(manifest.Slots), nil
}

// ExportManifest serializes the registry back into a manifest document, with
// slots grouped by page and ordered by key.
func (r *Registry) ExportManifest() ([]byte, error) {
	manifest := Manifest{Version: 1}
	for _, page := range r.Pages() {
		manifest.Slots = append(manifest.Slots, r.List(page)...)
	}
	return json.MarshalIndent(manifest, "", "  ")
}

func collectManifestIssues(err *jsonschema.ValidationError) []ManifestIssue {
	if err == nil {
		return nil
	}
	issues := []ManifestIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ManifestIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
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
