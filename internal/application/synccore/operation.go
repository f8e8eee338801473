package synccore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// OpKind tipo de operación encolada.
type OpKind string

const (
	OpLoad         OpKind = "load"
	OpCreate       OpKind = "create"
	OpUpdate       OpKind = "update"
	OpDelete       OpKind = "delete"
	OpLoadSettings OpKind = "loadSettings"
	OpSaveSettings OpKind = "saveSettings"
)

// Operation entrada de la cola offline. El payload depende de Kind:
//   - load: Resource y Params
//   - create/update: Resource y Data (registro completo, con su localId)
//   - delete: Resource, RecordID y/o LocalID
//   - saveSettings: Data (entity.Settings)
//
// Se persiste en el espejo local bajo la clave offlineQueue.
type Operation struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"` // nombre de la operación: createExpense, loadInventory...
	Kind       OpKind            `json:"kind"`
	Resource   entity.Resource   `json:"resource,omitempty"`
	RecordID   string            `json:"recordId,omitempty"`
	LocalID    int64             `json:"localId,omitempty"`
	Data       json.RawMessage   `json:"data,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	EnqueuedAt time.Time         `json:"enqueuedAt"`
	Attempts   int               `json:"attempts"`
}

// Name nombre de la operación según el recurso (createSale, deleteExpense, loadInventory).
func (o Operation) Name() string {
	switch o.Kind {
	case OpLoad:
		return "load" + o.Resource.Plural()
	case OpCreate, OpUpdate, OpDelete:
		return string(o.Kind) + o.Resource.Singular()
	}
	return string(o.Kind)
}

// Record decodifica el registro de una operación create/update.
func (o Operation) Record() (entity.Record, error) {
	if len(o.Data) == 0 {
		return nil, fmt.Errorf("%w: %s sin datos", domain.ErrInvalidInput, o.Name())
	}
	return entity.Decode(o.Resource, o.Data)
}

// Settings decodifica la configuración de una operación saveSettings.
func (o Operation) Settings() (entity.Settings, error) {
	var s entity.Settings
	if err := json.Unmarshal(o.Data, &s); err != nil {
		return s, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, o.Name(), err)
	}
	return s, nil
}

// Key clave del registro afectado en la colección.
func (o Operation) Key() string {
	if o.RecordID != "" {
		return o.RecordID
	}
	return entity.LocalKey(o.LocalID)
}

func newOperation(kind OpKind, res entity.Resource, now time.Time) Operation {
	op := Operation{
		ID:         uuid.NewString(),
		Kind:       kind,
		Resource:   res,
		EnqueuedAt: now.UTC(),
	}
	op.Type = op.Name()
	return op
}

func loadOperation(res entity.Resource, params map[string]string, now time.Time) Operation {
	op := newOperation(OpLoad, res, now)
	if len(params) > 0 {
		op.Params = make(map[string]string, len(params))
		for k, v := range params {
			op.Params[k] = v
		}
	}
	return op
}

func recordOperation(kind OpKind, rec entity.Record, now time.Time) (Operation, error) {
	op := newOperation(kind, rec.Resource(), now)
	m := rec.Base()
	op.RecordID = m.ID
	op.LocalID = m.LocalID
	if kind == OpDelete {
		return op, nil
	}
	data, err := json.Marshal(wire(rec))
	if err != nil {
		return op, fmt.Errorf("serializar %s: %w", op.Name(), err)
	}
	op.Data = data
	return op, nil
}

func settingsOperation(s entity.Settings, now time.Time) (Operation, error) {
	op := newOperation(OpSaveSettings, "", now)
	data, err := json.Marshal(s)
	if err != nil {
		return op, fmt.Errorf("serializar settings: %w", err)
	}
	op.Data = data
	return op, nil
}

// sameLoad indica si dos cargas son equivalentes (mismo recurso y parámetros).
func (o Operation) sameLoad(other Operation) bool {
	if o.Kind != other.Kind || o.Resource != other.Resource || len(o.Params) != len(other.Params) {
		return false
	}
	for k, v := range o.Params {
		if other.Params[k] != v {
			return false
		}
	}
	return true
}

// DecodeQueue lee la cola persistida. Un valor vacío es una cola vacía.
func DecodeQueue(raw []byte) ([]Operation, error) {
	if len(raw) == 0 {
		return []Operation{}, nil
	}
	var ops []Operation
	if err := json.Unmarshal(raw, &ops); err != nil {
		return nil, fmt.Errorf("decodificar cola offline: %w", err)
	}
	if ops == nil {
		ops = []Operation{}
	}
	return ops, nil
}

// EncodeQueue serializa la cola para el espejo local.
func EncodeQueue(ops []Operation) ([]byte, error) {
	if ops == nil {
		ops = []Operation{}
	}
	return json.Marshal(ops)
}

// wire copia del registro tal como se envía al servidor: sin la marca _pending.
func wire(rec entity.Record) entity.Record {
	c := entity.Clone(rec)
	c.Base().Pending = false
	return c
}
