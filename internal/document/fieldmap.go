package document

import "strings"

// FieldMap collects extracted values keyed by field name. A field can be
// set only once; later passes never overwrite an earlier value.
type FieldMap struct {
	keys   []string
	values map[string]string
}

// NewFieldMap returns an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]string)}
}

// SetIfAbsent stores the trimmed value when the field has no value yet.
// Empty values are never stored. It reports whether the value was stored.
func (m *FieldMap) SetIfAbsent(field, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if _, ok := m.values[field]; ok {
		return false
	}
	m.keys = append(m.keys, field)
	m.values[field] = value
	return true
}

// Get returns the value for field and whether it was set.
func (m *FieldMap) Get(field string) (string, bool) {
	v, ok := m.values[field]
	return v, ok
}

// Has reports whether field has a value.
func (m *FieldMap) Has(field string) bool {
	_, ok := m.values[field]
	return ok
}

// Len returns the number of fields set.
func (m *FieldMap) Len() int {
	return len(m.keys)
}

// Keys returns field names in the order they were set.
func (m *FieldMap) Keys() []string {
	return clone(m.keys)
}

// Map returns a copy of the fields as a plain map.
func (m *FieldMap) Map() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
