package synccore

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// Reduce aplica una acción y devuelve el estado siguiente.
// Es una función pura: no modifica s ni los slices/mapas que comparte con él.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case Hydrated:
		if a.Settings != nil {
			s.Settings = *a.Settings
		}
		cols := copyCollections(s.Collections)
		for res, data := range a.Collections {
			c := cols[res]
			c.Data = append([]entity.Record{}, data...)
			cols[res] = c
		}
		s.Collections = cols
		if a.Queue != nil {
			s.Queue = append([]Operation{}, a.Queue...)
		}
		return s.refreshAggregates()

	case LoadStarted:
		return s.update(a.Resource, func(c Collection) Collection {
			c.inFlight++
			c.Loading = true
			return c
		})

	case LoadSucceeded:
		at := a.At
		return s.update(a.Resource, func(c Collection) Collection {
			c.Data = mergePending(c.Data, a.Data)
			c.Error = ""
			c.LoadedAt = &at
			return finishLoad(c)
		})

	case LoadFailed:
		s.LastError = a.Err
		return s.update(a.Resource, func(c Collection) Collection {
			c.Error = a.Err
			return finishLoad(c)
		})

	case RecordAdded:
		return s.update(a.Record.Resource(), func(c Collection) Collection {
			data := make([]entity.Record, 0, len(c.Data)+1)
			c.Data = append(append(data, a.Record), c.Data...)
			return c
		})

	case RecordReplaced:
		return s.update(a.Resource, func(c Collection) Collection {
			if _, i := c.Find(a.Key); i >= 0 {
				c.Data = replaceAt(c.Data, i, a.Record)
			}
			return c
		})

	case RecordRemoved:
		return s.update(a.Resource, func(c Collection) Collection {
			if _, i := c.Find(a.Key); i >= 0 {
				data := make([]entity.Record, 0, len(c.Data)-1)
				data = append(data, c.Data[:i]...)
				c.Data = append(data, c.Data[i+1:]...)
			}
			return c
		})

	case RecordRestored:
		return s.update(a.Record.Resource(), func(c Collection) Collection {
			i := a.Index
			if i < 0 || i > len(c.Data) {
				i = 0
			}
			data := make([]entity.Record, 0, len(c.Data)+1)
			data = append(data, c.Data[:i]...)
			data = append(data, a.Record)
			c.Data = append(data, c.Data[i:]...)
			return c
		})

	case CreateConfirmed:
		return s.update(a.Resource, func(c Collection) Collection {
			i := -1
			if id := a.Record.Base().ID; id != "" {
				_, i = c.Find(id)
			}
			if i < 0 && a.LocalID != 0 {
				for j, r := range c.Data {
					if m := r.Base(); m.LocalID == a.LocalID && m.ID == "" {
						i = j
						break
					}
				}
			}
			if i >= 0 {
				c.Data = replaceAt(c.Data, i, a.Record)
			} else {
				data := make([]entity.Record, 0, len(c.Data)+1)
				c.Data = append(append(data, a.Record), c.Data...)
			}
			return c
		})

	case SettingsLoaded:
		s.Settings = a.Settings
		return s.refreshAggregates()

	case ConnectivityChanged:
		s.Online = a.Online
		return s

	case OperationEnqueued:
		queue := make([]Operation, 0, len(s.Queue)+1)
		s.Queue = append(append(queue, s.Queue...), a.Operation)
		return s

	case OperationsRemoved:
		drop := make(map[string]bool, len(a.IDs))
		for _, id := range a.IDs {
			drop[id] = true
		}
		queue := make([]Operation, 0, len(s.Queue))
		for _, op := range s.Queue {
			if !drop[op.ID] {
				queue = append(queue, op)
			}
		}
		s.Queue = queue
		return s

	case ErrorSet:
		s.LastError = a.Message
		if a.Resource == "" {
			return s
		}
		return s.update(a.Resource, func(c Collection) Collection {
			c.Error = a.Message
			return c
		})

	case ErrorCleared:
		s.LastError = ""
		if a.Resource == "" {
			return s
		}
		return s.update(a.Resource, func(c Collection) Collection {
			c.Error = ""
			return c
		})
	}
	return s
}

// update aplica fn sobre una copia de la colección y recalcula sus agregados.
func (s State) update(res entity.Resource, fn func(Collection) Collection) State {
	cols := copyCollections(s.Collections)
	c := fn(cols[res])
	c.Aggregates = analytics.Summarize(c.Data, s.lowStockThreshold())
	cols[res] = c
	s.Collections = cols
	return s
}

func (s State) refreshAggregates() State {
	cols := copyCollections(s.Collections)
	for res, c := range cols {
		c.Aggregates = analytics.Summarize(c.Data, s.lowStockThreshold())
		cols[res] = c
	}
	s.Collections = cols
	return s
}

func (s State) lowStockThreshold() decimal.Decimal {
	return s.Settings.WithDefaults(entity.DefaultSettings()).LowStockThreshold
}

func copyCollections(in map[entity.Resource]Collection) map[entity.Resource]Collection {
	out := make(map[entity.Resource]Collection, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func finishLoad(c Collection) Collection {
	if c.inFlight > 0 {
		c.inFlight--
	}
	c.Loading = c.inFlight > 0
	return c
}

func replaceAt(data []entity.Record, i int, r entity.Record) []entity.Record {
	out := append([]entity.Record{}, data...)
	out[i] = r
	return out
}

// mergePending antepone a los datos del servidor los registros locales pendientes
// que el servidor todavía no devuelve (mismo _id o mismo localId).
func mergePending(current, server []entity.Record) []entity.Record {
	ids := make(map[string]bool, len(server))
	locals := make(map[int64]bool, len(server))
	for _, r := range server {
		m := r.Base()
		if m.ID != "" {
			ids[m.ID] = true
		}
		if m.LocalID != 0 {
			locals[m.LocalID] = true
		}
	}
	out := make([]entity.Record, 0, len(server))
	for _, r := range current {
		m := r.Base()
		if !m.Pending {
			continue
		}
		if (m.ID != "" && ids[m.ID]) || (m.LocalID != 0 && locals[m.LocalID]) {
			continue
		}
		out = append(out, r)
	}
	return append(out, server...)
}
