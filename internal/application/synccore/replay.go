package synccore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// ReplayReport resultado de una reproducción de la cola offline.
// Invariante: Remaining = antes - Succeeded - Dropped + Failed (+ lo encolado en paralelo).
type ReplayReport struct {
	Attempted int  `json:"attempted"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`  // reencoladas al final de la cola
	Dropped   int  `json:"dropped"` // rechazadas por el servidor o ilegibles: se descartan
	Remaining int  `json:"remaining"`
	Skipped   bool `json:"skipped,omitempty"` // ya había otra reproducción en curso
}

// ProcessOfflineQueue toma la cola completa, la vacía y reproduce cada entrada
// en orden FIFO, una a la vez. Las que vuelven a fallar se agregan al final de la
// cola viva con Attempts+1. No hay backoff, tope de reintentos ni clave de idempotencia:
// reproducir dos veces un create produce dos registros.
//
// Las mutaciones del usuario pueden intercalarse con la reproducción.
func (c *Core) ProcessOfflineQueue(ctx context.Context) (ReplayReport, error) {
	if !c.replayMu.TryLock() {
		return ReplayReport{Skipped: true, Remaining: c.QueueLen()}, nil
	}
	defer c.replayMu.Unlock()

	st := c.store.State()
	if !st.Online || len(st.Queue) == 0 {
		return ReplayReport{Remaining: len(st.Queue)}, nil
	}

	snapshot := append([]Operation{}, st.Queue...)
	ids := make([]string, len(snapshot))
	for i, op := range snapshot {
		ids[i] = op.ID
	}
	c.store.Dispatch(OperationsRemoved{IDs: ids})
	c.log.Info().Int("queue_len", len(snapshot)).Msg("reproduciendo cola offline")

	report := ReplayReport{Attempted: len(snapshot)}
	discarded := make(map[string]bool) // creaciones descartadas, por clave local
	for _, op := range snapshot {
		if op.RecordID == "" && discarded[string(op.Resource)+"/"+op.Key()] {
			// depende de una creación que el servidor rechazó
			report.Dropped++
			c.log.Warn().Str("op", op.Name()).Str("id", op.ID).Msg("entrada de un registro descartado")
			continue
		}
		if ctx.Err() != nil {
			// cancelado: se devuelve a la cola sin contar el intento
			c.store.Dispatch(OperationEnqueued{Operation: op})
			report.Failed++
			continue
		}

		err := c.replay(ctx, op)
		switch {
		case err == nil:
			report.Succeeded++
		case errors.Is(err, domain.ErrInvalidInput):
			report.Dropped++
			c.discard(op, err)
			if op.Kind == OpCreate && op.LocalID != 0 {
				discarded[string(op.Resource)+"/"+op.Key()] = true
			}
		default:
			c.noteFailure(err)
			op.Attempts++
			c.store.Dispatch(OperationEnqueued{Operation: op})
			report.Failed++
			c.log.Warn().Err(err).Str("op", op.Name()).Int("attempts", op.Attempts).Msg("reintento fallido, reencolada")
		}
	}

	report.Remaining = c.QueueLen()
	c.log.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Int("queue_len", report.Remaining).
		Msg("cola offline procesada")
	return report, ctx.Err()
}

// discard descarta una entrada que el servidor rechazó (o que no se puede leer).
// Una creación nunca confirmada sale de la colección; el resto se corrige con la
// siguiente carga, que reemplaza las copias optimistas con _id por las del servidor.
func (c *Core) discard(op Operation, err error) {
	if op.Kind == OpCreate && op.RecordID == "" && op.LocalID != 0 {
		c.store.Dispatch(RecordRemoved{Resource: op.Resource, Key: entity.LocalKey(op.LocalID)})
	}
	c.store.Dispatch(ErrorSet{Resource: op.Resource, Message: fmt.Sprintf("%s descartada: %v", op.Name(), err)})
	c.log.Error().Err(err).Str("resource", string(op.Resource)).Str("op", op.Name()).Str("id", op.ID).
		Msg("entrada de cola descartada")
}

// replay vuelve a ejecutar una operación directamente contra el gateway.
// No reencola: de eso se encarga ProcessOfflineQueue.
func (c *Core) replay(ctx context.Context, op Operation) error {
	switch op.Kind {
	case OpLoad:
		c.store.Dispatch(LoadStarted{Resource: op.Resource})
		data, err := c.gateway.List(ctx, op.Resource, op.Params)
		if err != nil {
			c.store.Dispatch(LoadFailed{Resource: op.Resource, Err: err.Error()})
			return err
		}
		c.store.Dispatch(LoadSucceeded{Resource: op.Resource, Data: data, At: c.now().UTC()})
		return nil

	case OpLoadSettings:
		s, err := c.gateway.GetSettings(ctx)
		if err != nil {
			return err
		}
		c.store.Dispatch(SettingsLoaded{Settings: s.WithDefaults(c.store.State().Settings)})
		return nil

	case OpCreate:
		rec, err := op.Record()
		if err != nil {
			return err
		}
		server, err := c.gateway.Create(ctx, wire(rec))
		if err != nil {
			return err
		}
		c.store.Dispatch(CreateConfirmed{Resource: op.Resource, LocalID: op.LocalID, Record: confirmed(server, rec)})
		return nil

	case OpUpdate:
		rec, err := op.Record()
		if err != nil {
			return err
		}
		m := rec.Base()
		cur, _ := c.current(op.Resource, m.ID, m.LocalID)
		if m.ID == "" {
			if cur == nil || cur.Base().ID == "" {
				return fmt.Errorf("%s: %w", op.Name(), domain.ErrNotSynced)
			}
			m.ID = cur.Base().ID
		}
		server, err := c.gateway.Update(ctx, wire(rec))
		if err != nil {
			return err
		}
		if cur != nil {
			c.store.Dispatch(RecordReplaced{Resource: op.Resource, Key: cur.Key(), Record: confirmed(server, rec)})
		} else {
			c.store.Dispatch(CreateConfirmed{Resource: op.Resource, LocalID: m.LocalID, Record: confirmed(server, rec)})
		}
		return nil

	case OpDelete:
		id := op.RecordID
		if id == "" {
			cur, _ := c.current(op.Resource, "", op.LocalID)
			if cur == nil || cur.Base().ID == "" {
				return fmt.Errorf("%s: %w", op.Name(), domain.ErrNotSynced)
			}
			id = cur.Base().ID
		}
		if err := c.gateway.Delete(ctx, op.Resource, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		c.store.Dispatch(RecordRemoved{Resource: op.Resource, Key: id})
		return nil

	case OpSaveSettings:
		s, err := op.Settings()
		if err != nil {
			return err
		}
		server, err := c.gateway.UpdateSettings(ctx, s)
		if err != nil {
			return err
		}
		c.store.Dispatch(SettingsLoaded{Settings: server.WithDefaults(s)})
		return nil
	}
	return fmt.Errorf("%w: operación %q desconocida", domain.ErrInvalidInput, op.Kind)
}
