package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PagedResult is a listing that arrives either as a bare JSON array or as a
// {"data": [...]} wrapper. Items normalizes both forms.
type PagedResult[T any] struct {
	items []T
}

func (p *PagedResult[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		p.items = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		p.items = items
	case '{':
		var envelope struct {
			Data []T `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		p.items = envelope.Data
	default:
		return fmt.Errorf("listing must be an array or an object with data, got %q", trimmed[:1])
	}
	return nil
}

// Items returns the listed entities, never nil.
func (p PagedResult[T]) Items() []T {
	if p.items == nil {
		return []T{}
	}
	return p.items
}
