package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docread/docread/internal/document"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ErrUnknownType is returned for document types without a schema.
var ErrUnknownType = errors.New("no schema for document type")

// Schema is the JSON Schema of one output record shape.
type Schema struct {
	Type document.DocumentType `json:"type"`
	JSON json.RawMessage       `json:"schema"`
}

// registry lists the record shapes in the order they are served.
var registry = []document.DocumentType{
	document.Cedula,
	document.Licencia,
	document.Certificado,
	document.Desconocido,
}

var (
	compileOnce sync.Once
	compiled    map[document.DocumentType]*jsonschema.Schema
	compileErr  error
)

// All returns every record schema in registry order.
// Schemas are loaded from embedded .json files.
func All() ([]Schema, error) {
	schemas := make([]Schema, 0, len(registry))
	for _, t := range registry {
		s, err := Get(t)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *s)
	}
	return schemas, nil
}

// Get returns the schema for a single document type.
func Get(t document.DocumentType) (*Schema, error) {
	for _, known := range registry {
		if known != t {
			continue
		}
		content, err := schemaFS.ReadFile(filename(t))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", t, err)
		}
		return &Schema{Type: t, JSON: content}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

// Validate checks a record against the schema of its document type.
func Validate(t document.DocumentType, rec document.OutputRecord) error {
	if err := compileAll(); err != nil {
		return err
	}
	s, ok := compiled[t]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownType, t)
	}

	// Round-trip through JSON so the validator sees plain maps.
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", t, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode %s record: %w", t, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%s record does not match schema: %w", t, err)
	}
	return nil
}

func compileAll() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiled = make(map[document.DocumentType]*jsonschema.Schema, len(registry))
		for _, t := range registry {
			content, err := schemaFS.ReadFile(filename(t))
			if err != nil {
				compileErr = fmt.Errorf("failed to read schema %s: %w", t, err)
				return
			}
			name := filename(t)
			if err := compiler.AddResource(name, bytes.NewReader(content)); err != nil {
				compileErr = fmt.Errorf("failed to load schema %s: %w", t, err)
				return
			}
			s, err := compiler.Compile(name)
			if err != nil {
				compileErr = fmt.Errorf("failed to compile schema %s: %w", t, err)
				return
			}
			compiled[t] = s
		}
	})
	return compileErr
}

func filename(t document.DocumentType) string {
	return fmt.Sprintf("schemas/%s.json", t)
}
