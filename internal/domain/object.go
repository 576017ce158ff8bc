package domain

import (
	"encoding/json"
	"fmt"
)

// ID identifies an upstream entity. Upstreams may send identifiers as JSON
// strings or numbers; both decode to the same ID.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Attributes holds the members of an upstream object that are not modelled
// explicitly so they survive a decode/encode round trip.
type Attributes map[string]json.RawMessage

func decodeObject(data []byte, known any, rest *Attributes, names ...string) error {
	if err := json.Unmarshal(data, known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, name := range names {
		delete(all, name)
	}
	if len(all) == 0 {
		*rest = nil
		return nil
	}
	*rest = all
	return nil
}

// encodeObject merges known fields, kept attributes and extra members into one
// JSON object. extra wins over both; attributes never override known fields.
func encodeObject(known any, rest Attributes, extra map[string]any) ([]byte, error) {
	raw, err := json.Marshal(known)
	if err != nil {
		return nil, err
	}
	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for k, v := range rest {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	for k, v := range extra {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		out[k] = encoded
	}
	return json.Marshal(out)
}
