// Package synccore es el núcleo de sincronización del cliente: mantiene las
// colecciones de negocio en memoria, aplica mutaciones optimistas, llama al
// gateway remoto y encola lo que no se pudo enviar para reintentarlo al
// recuperar la conexión.
package synccore

import (
	"time"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// Collection estado de una colección: idle → loading → {ready, error}.
type Collection struct {
	Data       []entity.Record   `json:"data"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	Aggregates analytics.Summary `json:"aggregates"`
	LoadedAt   *time.Time        `json:"loadedAt,omitempty"`

	inFlight int // cargas en curso; Loading = inFlight > 0
}

// Find busca un registro por clave (_id o local-<localId>). Devuelve su índice o -1.
func (c Collection) Find(key string) (entity.Record, int) {
	for i, r := range c.Data {
		if r.Key() == key {
			return r, i
		}
	}
	return nil, -1
}

// FindLocal busca un registro por localId.
func (c Collection) FindLocal(localID int64) (entity.Record, int) {
	if localID == 0 {
		return nil, -1
	}
	for i, r := range c.Data {
		if r.Base().LocalID == localID {
			return r, i
		}
	}
	return nil, -1
}

// State estado completo del núcleo. Los valores publicados no se modifican:
// cada transición produce un State nuevo.
type State struct {
	Collections map[entity.Resource]Collection `json:"collections"`
	Settings    entity.Settings                `json:"settings"`
	Online      bool                           `json:"online"`
	Queue       []Operation                    `json:"queue"`
	// LastError única ranura de error compartida; el último error pisa al anterior.
	LastError string `json:"lastError,omitempty"`
}

// InitialState estado vacío, online hasta que la conectividad diga lo contrario.
func InitialState(settings entity.Settings) State {
	cols := make(map[entity.Resource]Collection, len(entity.AllResources()))
	for _, res := range entity.AllResources() {
		cols[res] = Collection{Data: []entity.Record{}}
	}
	return State{Collections: cols, Settings: settings, Online: true, Queue: []Operation{}}
}

// Collection devuelve la colección (vacía si no existe).
func (s State) Collection(res entity.Resource) Collection {
	return s.Collections[res]
}

// Snapshot colecciones tipadas para el cálculo de analítica local.
func (s State) Snapshot() analytics.Snapshot {
	data := make(map[entity.Resource][]entity.Record, len(s.Collections))
	for res, c := range s.Collections {
		data[res] = c.Data
	}
	return analytics.NewSnapshot(data)
}
