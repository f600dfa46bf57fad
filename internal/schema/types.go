package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	keyName           = "name"
	keyFields         = "fields"
	keyRejectedFields = "rejectedFields"
)

// Field is a single field entry of an SObject description
type Field struct {
	Name  string
	Type  string
	Label string

	// Raw is the field entry as received from the API. When set it is
	// written back verbatim on marshal.
	Raw json.RawMessage
}

// UnmarshalJSON decodes a describe field entry
func (f *Field) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid field JSON")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("field must be a JSON object, got %s", res.Type)
	}

	f.Name = res.Get(keyName).String()
	f.Type = res.Get("type").String()
	f.Label = res.Get("label").String()
	f.Raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// MarshalJSON encodes the field, preferring the raw payload it was decoded from
func (f Field) MarshalJSON() ([]byte, error) {
	if len(f.Raw) > 0 {
		return f.Raw, nil
	}
	out := map[string]string{keyName: f.Name}
	if f.Type != "" {
		out["type"] = f.Type
	}
	if f.Label != "" {
		out["label"] = f.Label
	}
	return json.Marshal(out)
}

// Description is the describe result of a single SObject
type Description struct {
	Name           string
	Fields         []Field
	RejectedFields []Field

	// Attributes holds every other describe key, untouched
	Attributes map[string]json.RawMessage
}

// UnmarshalJSON decodes a describe payload, keeping unknown keys in Attributes
func (d *Description) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid description JSON")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("description must be a JSON object, got %s", res.Type)
	}

	*d = Description{}
	var decodeErr error
	res.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case keyName:
			d.Name = value.String()
		case keyFields:
			d.Fields, decodeErr = decodeFields(value)
		case keyRejectedFields:
			d.RejectedFields, decodeErr = decodeFields(value)
		default:
			if d.Attributes == nil {
				d.Attributes = make(map[string]json.RawMessage)
			}
			d.Attributes[key.String()] = json.RawMessage(value.Raw)
		}
		return decodeErr == nil
	})
	if decodeErr != nil {
		return fmt.Errorf("failed to decode description %q: %w", d.Name, decodeErr)
	}
	return nil
}

func decodeFields(value gjson.Result) ([]Field, error) {
	if value.Type == gjson.Null {
		return nil, nil
	}
	if !value.IsArray() {
		return nil, fmt.Errorf("fields must be an array, got %s", value.Type)
	}

	elems := value.Array()
	fields := make([]Field, 0, len(elems))
	for i, elem := range elems {
		var f Field
		if err := f.UnmarshalJSON([]byte(elem.Raw)); err != nil {
			return nil, fmt.Errorf("field at index %d: %w", i, err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// MarshalJSON encodes the description with its attributes and field lists
func (d Description) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Attributes)+3)
	for k, v := range d.Attributes {
		out[k] = v
	}
	if d.Name != "" {
		out[keyName] = d.Name
	}
	if d.Fields != nil {
		out[keyFields] = d.Fields
	}
	if d.RejectedFields != nil {
		out[keyRejectedFields] = d.RejectedFields
	}
	return json.Marshal(out)
}

// FieldNames returns the names of the visible fields in order
func (d *Description) FieldNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}
	return names
}

// FieldList returns the visible field names joined for a SELECT clause
func (d *Description) FieldList() string {
	return strings.Join(d.FieldNames(), ",")
}

// HasField reports whether name is one of the visible fields
func (d *Description) HasField(name string) bool {
	if d == nil {
		return false
	}
	for _, f := range d.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// NamedDescription pairs an SObject name with its description, as returned
// when describing every SObject at once
type NamedDescription struct {
	Name        string       `json:"name"`
	Description *Description `json:"description"`
}

// Record is a single row returned by a query
type Record map[string]any
