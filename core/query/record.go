package query

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Record is a read-only view of one row of a result set. Without a header it
// presents as an ordered list of fields. With a header it presents as a
// mapping from header names to fields, in header order: fields past the end
// of the header are hidden, and names without a field map to null.
type Record struct {
	header []string
	fields []string
}

// NewRecord creates a Record over fields, addressed through header.
func NewRecord(header, fields []string) Record {
	return Record{header: header, fields: fields}
}

// IsEmpty reports whether the record holds no fields at all.
func (r Record) IsEmpty() bool {
	return len(r.fields) == 0
}

// Header returns the header the record is addressed through.
func (r Record) Header() []string {
	return slices.Clone(r.header)
}

// Fields returns a copy of the raw fields of the row.
func (r Record) Fields() []string {
	return slices.Clone(r.fields)
}

// At returns the field at position i and whether the record has one there.
func (r Record) At(i int) (string, bool) {
	if i < 0 || i >= len(r.fields) {
		return "", false
	}
	if len(r.header) > 0 && i >= len(r.header) {
		return "", false
	}
	return r.fields[i], true
}

// Get returns the field under the header name.
func (r Record) Get(name string) (string, bool) {
	i := slices.Index(r.header, name)
	if i < 0 {
		return "", false
	}
	return r.At(i)
}

// Value returns the field addressed by col. Unresolvable columns read as
// absent.
func (r Record) Value(col Column) (string, bool) {
	i, err := ResolveColumn(col, r.header)
	if err != nil {
		return "", false
	}
	return r.At(i)
}

type namedField struct {
	name  string
	value *string
}

// named lists the header mapping in order. A repeated header name keeps its
// first position and its last value.
func (r Record) named() []namedField {
	out := make([]namedField, 0, len(r.header))
	seen := make(map[string]int, len(r.header))
	for i, name := range r.header {
		var value *string
		if v, ok := r.At(i); ok {
			value = StringPtr(v)
		}
		if j, ok := seen[name]; ok {
			out[j].value = value
			continue
		}
		seen[name] = len(out)
		out = append(out, namedField{name: name, value: value})
	}
	return out
}

// Map returns the record as a map. Without a header the keys are the
// decimal field positions. Missing fields are nil.
func (r Record) Map() map[string]any {
	if len(r.header) == 0 {
		m := make(map[string]any, len(r.fields))
		for i, v := range r.fields {
			m[strconv.Itoa(i)] = v
		}
		return m
	}
	m := make(map[string]any, len(r.header))
	for _, f := range r.named() {
		if f.value == nil {
			m[f.name] = nil
		} else {
			m[f.name] = *f.value
		}
	}
	return m
}

// MarshalJSON encodes the record as a JSON array without a header and as a
// JSON object in header order otherwise.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if len(r.header) == 0 {
		fields := r.fields
		if fields == nil {
			fields = []string{}
		}
		if err := writeJSON(&buf, fields); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	buf.WriteByte('{')
	for i, f := range r.named() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, f.name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, f.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML keeps the header order when records are written as YAML.
func (r Record) MarshalYAML() (any, error) {
	if len(r.header) == 0 {
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, v := range r.fields {
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
		}
		return node, nil
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r.named() {
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if f.value != nil {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: *f.value}
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.name},
			value,
		)
	}
	return node, nil
}

// writeJSON appends the compact JSON encoding of v to buf.
func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
