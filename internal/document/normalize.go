package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnknownTypeError is the error field value for records of type Desconocido.
const UnknownTypeError = "unknown document type"

var recordFields = map[DocumentType][]string{
	Cedula: {FieldNombre, FieldApellido, FieldNumeroDeCedula},
	Licencia: {
		FieldNombre, FieldApellido, FieldFechaNacimiento,
		FieldFechaVencimiento, FieldCedula, FieldSexo,
	},
	Certificado: {
		FieldCedula, FieldColor, FieldNumeroCarroceria, FieldSerialDeMotor,
		FieldPlaca, FieldAno, FieldOcupantes, FieldMarca, FieldModelo,
	},
}

// Fields returns the output keys for t in record order. Unknown types have
// the single key "error".
func Fields(t DocumentType) []string {
	if f, ok := recordFields[t]; ok {
		return clone(f)
	}
	return []string{FieldError}
}

// OutputRecord is the fixed-shape result for one document. Keys keep the
// record order of their type when marshaled.
type OutputRecord struct {
	keys   []string
	values map[string]string
}

// Normalize projects fields onto the record shape of t. Every key of the
// shape is present; missing values are empty strings.
func Normalize(t DocumentType, fields *FieldMap) OutputRecord {
	keys, ok := recordFields[t]
	if !ok {
		return OutputRecord{
			keys:   []string{FieldError},
			values: map[string]string{FieldError: UnknownTypeError},
		}
	}
	rec := OutputRecord{keys: clone(keys), values: make(map[string]string, len(keys))}
	for _, k := range keys {
		v := ""
		if fields != nil {
			v, _ = fields.Get(k)
		}
		rec.values[k] = v
	}
	return rec
}

// Keys returns the record keys in order.
func (r OutputRecord) Keys() []string { return clone(r.keys) }

// Get returns the value for key and whether the key is part of the record.
func (r OutputRecord) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of keys.
func (r OutputRecord) Len() int { return len(r.keys) }

// Map returns the record as a plain map.
func (r OutputRecord) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the record as a JSON object in key order.
func (r OutputRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat object of strings, keeping document order.
func (r *OutputRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("output record: expected object")
	}
	rec := OutputRecord{values: make(map[string]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("output record: expected string key")
		}
		var v string
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("output record: field %q: %w", key, err)
		}
		if _, dup := rec.values[key]; !dup {
			rec.keys = append(rec.keys, key)
		}
		rec.values[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = rec
	return nil
}

// MarshalYAML writes the record as a mapping in key order.
func (r OutputRecord) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range r.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.values[k]},
		)
	}
	return node, nil
}
