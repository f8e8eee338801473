package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/skillbridge-business/internal/domain"
)

// New devuelve un registro vacío del tipo correspondiente a la colección.
func New(res Resource) (Record, error) {
	switch res {
	case ResourceInventory:
		return &InventoryItem{}, nil
	case ResourceCustomers:
		return &Customer{}, nil
	case ResourceSales:
		return &Sale{}, nil
	case ResourceExpenses:
		return &Expense{}, nil
	case ResourceSuppliers:
		return &Supplier{}, nil
	case ResourceReturns:
		return &Return{}, nil
	case ResourcePayments:
		return &Payment{}, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, res)
}

// Decode decodifica un registro. Acepta el objeto directo o envuelto en {"data": {...}}
// o {"<singular>": {...}}.
func Decode(res Resource, raw []byte) (Record, error) {
	raw = unwrapObject(res, raw)
	rec, err := New(res)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", res, err)
	}
	return rec, nil
}

// DecodeList decodifica una colección. La API no es uniforme: puede devolver
// un arreglo, {"data": [...]}, {"<resource>": [...]} o {"data": {"<resource>": [...]}}.
func DecodeList(res Resource, raw []byte) ([]Record, error) {
	items, err := unwrapArray(res, raw, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(items))
	for i, item := range items {
		rec, err := New(res)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(item, rec); err != nil {
			return nil, fmt.Errorf("decodificar %s[%d]: %w", res, i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// EncodeList serializa una colección como arreglo JSON (formato del espejo local).
func EncodeList(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

func unwrapArray(res Resource, raw []byte, depth int) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decodificar lista %s: %w", res, err)
		}
		return items, nil
	case '{':
		if depth > 1 {
			break
		}
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decodificar lista %s: %w", res, err)
		}
		for _, key := range envelopeKeys(res) {
			if inner, ok := env[key]; ok {
				return unwrapArray(res, inner, depth+1)
			}
		}
	}
	return nil, fmt.Errorf("%w: respuesta de %s sin lista reconocible", domain.ErrRemote, res)
}

func unwrapObject(res Resource, raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	if _, ok := env["_id"]; ok {
		return raw
	}
	for _, key := range []string{"data", lowerFirst(res.Singular())} {
		if inner, ok := env[key]; ok && len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '{' {
			return inner
		}
	}
	return raw
}

func envelopeKeys(res Resource) []string {
	return []string{"data", string(res), lowerFirst(res.Plural()), "items", "records"}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
