package synccore

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
	"github.com/jhoicas/skillbridge-business/internal/domain/repository"
	"github.com/jhoicas/skillbridge-business/pkg/logger"
)

// Persister mantiene el espejo local al día: en cada transición escribe solo
// los snapshots que cambiaron (colecciones, configuración y cola offline).
type Persister struct {
	mirror repository.Mirror
	log    *logger.Logger
}

// NewPersister construye el persister.
func NewPersister(mirror repository.Mirror, log *logger.Logger) *Persister {
	if log == nil {
		log = logger.Nop()
	}
	return &Persister{mirror: mirror, log: log.Named("persister")}
}

// Attach suscribe el persister al store. Devuelve la función para darlo de baja.
func (p *Persister) Attach(store *Store) func() {
	return store.Subscribe(p.persist)
}

func (p *Persister) persist(prev, next State) {
	ctx := context.Background()

	for _, res := range entity.AllResources() {
		a, b := prev.Collections[res].Data, next.Collections[res].Data
		if sameRecords(a, b) {
			continue
		}
		raw, err := entity.EncodeList(b)
		if err != nil {
			p.log.Error().Err(err).Str("resource", string(res)).Msg("serializar colección")
			continue
		}
		p.put(ctx, res.MirrorKey(), raw)
	}

	if prev.Settings != next.Settings {
		if raw, err := json.Marshal(next.Settings); err != nil {
			p.log.Error().Err(err).Msg("serializar settings")
		} else {
			p.put(ctx, entity.SettingsMirrorKey, raw)
		}
	}

	if !sameQueue(prev.Queue, next.Queue) {
		if raw, err := EncodeQueue(next.Queue); err != nil {
			p.log.Error().Err(err).Msg("serializar cola offline")
		} else {
			p.put(ctx, repository.KeyOfflineQueue, raw)
		}
	}
}

func (p *Persister) put(ctx context.Context, key string, raw []byte) {
	if err := p.mirror.Put(ctx, key, raw); err != nil {
		p.log.Error().Err(err).Str("key", key).Msg("escribir espejo local")
	}
}

// sameRecords compara por identidad: el reducer crea un slice nuevo en cada cambio.
func sameRecords(a, b []entity.Record) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func sameQueue(a, b []Operation) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
