package synccore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
	"github.com/jhoicas/skillbridge-business/internal/domain/repository"
	"github.com/jhoicas/skillbridge-business/pkg/logger"
)

// Core media entre las colecciones en memoria, el gateway remoto y la cola offline.
//
// Las mutaciones son optimistas: se aplican al estado antes de llamar al
// servidor. Si la llamada falla estando online se revierten; si falla por
// conectividad (o el núcleo ya está offline) el cambio queda marcado _pending,
// la operación va a la cola y se devuelve domain.ErrQueuedOffline.
type Core struct {
	store   *Store
	gateway Gateway
	mirror  repository.Mirror
	log     *logger.Logger
	now     func() time.Time

	replayMu sync.Mutex // una sola reproducción de la cola a la vez

	idMu      sync.Mutex
	lastLocal int64
}

// NewCore construye el núcleo. mirror se usa solo para Hydrate; la escritura la hace el Persister.
func NewCore(store *Store, gateway Gateway, mirror repository.Mirror, log *logger.Logger) *Core {
	if log == nil {
		log = logger.Nop()
	}
	return &Core{
		store:   store,
		gateway: gateway,
		mirror:  mirror,
		log:     log.Named("synccore"),
		now:     time.Now,
	}
}

// Store devuelve el store subyacente (para suscribirse).
func (c *Core) Store() *Store { return c.store }

// State estado actual.
func (c *Core) State() State { return c.store.State() }

// Queue copia de la cola offline.
func (c *Core) Queue() []Operation {
	return append([]Operation{}, c.store.State().Queue...)
}

// QueueLen operaciones pendientes de reproducir.
func (c *Core) QueueLen() int { return len(c.store.State().Queue) }

// Snapshot colecciones y configuración actuales para la analítica local.
func (c *Core) Snapshot() (analytics.Snapshot, entity.Settings) {
	st := c.store.State()
	return st.Snapshot(), st.Settings
}

// Records copia de los registros de una colección, en el orden del estado.
func (c *Core) Records(res entity.Resource) []entity.Record {
	data := c.store.State().Collection(res).Data
	out := make([]entity.Record, 0, len(data))
	for _, r := range data {
		out = append(out, entity.Clone(r))
	}
	return out
}

// ClearError limpia la ranura de error compartida y la de la colección.
func (c *Core) ClearError(res entity.Resource) {
	c.store.Dispatch(ErrorCleared{Resource: res})
}

// ── Cargas ───────────────────────────────────────────────────────────────────

// Load pide la colección al servidor. Con error marca la colección y, si no hay
// conexión, encola una operación load<Resource> (una sola por recurso y parámetros).
func (c *Core) Load(ctx context.Context, res entity.Resource, params map[string]string) ([]entity.Record, error) {
	if !res.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, res)
	}
	c.store.Dispatch(LoadStarted{Resource: res})

	var data []entity.Record
	err := c.offlineErr()
	if err == nil {
		data, err = c.gateway.List(ctx, res, params)
	}
	if err != nil {
		c.store.Dispatch(LoadFailed{Resource: res, Err: err.Error()})
		c.noteFailure(err)
		if c.queueable(err) {
			c.enqueueLoad(loadOperation(res, params, c.now()))
		}
		return nil, err
	}

	c.store.Dispatch(LoadSucceeded{Resource: res, Data: data, At: c.now().UTC()})
	return data, nil
}

// LoadSettings carga la configuración del negocio.
func (c *Core) LoadSettings(ctx context.Context) (entity.Settings, error) {
	var s entity.Settings
	err := c.offlineErr()
	if err == nil {
		s, err = c.gateway.GetSettings(ctx)
	}
	if err != nil {
		c.store.Dispatch(ErrorSet{Message: err.Error()})
		c.noteFailure(err)
		if c.queueable(err) {
			c.enqueueLoad(newOperation(OpLoadSettings, "", c.now()))
		}
		return c.store.State().Settings, err
	}
	merged := s.WithDefaults(c.store.State().Settings)
	c.store.Dispatch(SettingsLoaded{Settings: merged})
	return merged, nil
}

// RefreshAll recarga todas las colecciones y la configuración. Devuelve los errores acumulados.
func (c *Core) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, res := range entity.AllResources() {
		if _, err := c.Load(ctx, res, nil); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res, err))
		}
	}
	if _, err := c.LoadSettings(ctx); err != nil {
		errs = append(errs, fmt.Errorf("settings: %w", err))
	}
	return errors.Join(errs...)
}

// ── Mutaciones ───────────────────────────────────────────────────────────────

// Create agrega el registro de inmediato (con localId y _pending) y lo envía al servidor.
// Si la operación queda encolada devuelve la copia optimista junto con un error
// que envuelve domain.ErrQueuedOffline.
func (c *Core) Create(ctx context.Context, rec entity.Record) (entity.Record, error) {
	if err := entity.Validate(rec); err != nil {
		return nil, err
	}
	res := rec.Resource()

	optimistic := entity.Clone(rec)
	m := optimistic.Base()
	if m.LocalID == 0 {
		m.LocalID = c.nextLocalID()
	}
	if m.CreatedAt == nil {
		now := c.now().UTC()
		m.CreatedAt = &now
	}
	m.Pending = true

	op, err := recordOperation(OpCreate, optimistic, c.now())
	if err != nil {
		return nil, err
	}
	c.store.Dispatch(RecordAdded{Record: optimistic})

	if err := c.offlineErr(); err != nil {
		return entity.Clone(optimistic), c.enqueue(op, err)
	}
	server, err := c.gateway.Create(ctx, wire(optimistic))
	if err != nil {
		return entity.Clone(optimistic), c.mutationFailed(op, err, RecordRemoved{Resource: res, Key: optimistic.Key()})
	}

	server = confirmed(server, optimistic)
	c.store.Dispatch(CreateConfirmed{Resource: res, LocalID: m.LocalID, Record: server})
	return entity.Clone(server), nil
}

// Update reemplaza el registro en el estado y lo envía al servidor.
// rec debe traer _id o localId. Un registro creado offline que todavía no tiene
// _id queda encolado (domain.ErrNotSynced) y se envía al reproducir la cola.
func (c *Core) Update(ctx context.Context, rec entity.Record) (entity.Record, error) {
	if err := entity.Validate(rec); err != nil {
		return nil, err
	}
	res := rec.Resource()
	if m := rec.Base(); m.ID == "" && m.LocalID == 0 {
		return nil, fmt.Errorf("%w: %s sin _id ni localId", domain.ErrInvalidInput, res)
	}

	prev, _ := c.current(res, rec.Base().ID, rec.Base().LocalID)

	optimistic := entity.Clone(rec)
	m := optimistic.Base()
	replaceKey := optimistic.Key()
	if prev != nil {
		replaceKey = prev.Key()
		pm := prev.Base()
		if m.ID == "" {
			m.ID = pm.ID
		}
		if m.LocalID == 0 {
			m.LocalID = pm.LocalID
		}
		if m.CreatedAt == nil {
			m.CreatedAt = pm.CreatedAt
		}
	}
	now := c.now().UTC()
	m.UpdatedAt = &now
	m.Pending = true

	op, err := recordOperation(OpUpdate, optimistic, now)
	if err != nil {
		return nil, err
	}
	c.store.Dispatch(RecordReplaced{Resource: res, Key: replaceKey, Record: optimistic})

	var rollback Action
	if prev != nil {
		rollback = RecordReplaced{Resource: res, Key: optimistic.Key(), Record: prev}
	}

	if err := c.offlineErr(); err != nil {
		return entity.Clone(optimistic), c.enqueue(op, err)
	}
	if m.ID == "" {
		return entity.Clone(optimistic), c.enqueue(op, domain.ErrNotSynced)
	}
	server, err := c.gateway.Update(ctx, wire(optimistic))
	if err != nil {
		return entity.Clone(optimistic), c.mutationFailed(op, err, rollback)
	}

	server = confirmed(server, optimistic)
	if prev == nil {
		// no estaba en el estado local (colección sin cargar): se incorpora
		c.store.Dispatch(CreateConfirmed{Resource: res, LocalID: m.LocalID, Record: server})
	} else {
		c.store.Dispatch(RecordReplaced{Resource: res, Key: optimistic.Key(), Record: server})
	}
	return entity.Clone(server), nil
}

// Delete quita el registro con clave key (_id o local-<localId>) y lo borra en el servidor.
// Borrar un registro cuya creación sigue en la cola cancela ambas operaciones sin ir a la red.
func (c *Core) Delete(ctx context.Context, res entity.Resource, key string) error {
	if !res.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrUnknownResource, res)
	}
	localID, isLocal := entity.ParseLocalKey(key)
	var id string
	if !isLocal {
		id = key
	}

	col := c.store.State().Collection(res)
	prev, idx := col.Find(key)
	if prev == nil && isLocal {
		prev, idx = col.FindLocal(localID)
	}
	if prev != nil {
		if pm := prev.Base(); pm.ID != "" {
			id = pm.ID
		}
		localID = prev.Base().LocalID
		c.store.Dispatch(RecordRemoved{Resource: res, Key: prev.Key()})
	}

	if id == "" {
		if ids := c.queuedForLocal(res, localID); len(ids) > 0 {
			c.store.Dispatch(OperationsRemoved{IDs: ids})
			c.log.Info().Str("resource", string(res)).Int64("local_id", localID).
				Int("cancelled", len(ids)).Msg("borrado de registro local: operaciones canceladas")
			return nil
		}
	}

	op := newOperation(OpDelete, res, c.now())
	op.RecordID = id
	op.LocalID = localID

	var rollback Action
	if prev != nil {
		rollback = RecordRestored{Record: prev, Index: idx}
	}

	if err := c.offlineErr(); err != nil {
		return c.enqueue(op, err)
	}
	if id == "" {
		return c.enqueue(op, domain.ErrNotSynced)
	}
	if err := c.gateway.Delete(ctx, res, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return c.mutationFailed(op, err, rollback)
	}
	return nil
}

// SaveSettings aplica la configuración de inmediato y la envía al servidor.
func (c *Core) SaveSettings(ctx context.Context, s entity.Settings) (entity.Settings, error) {
	prev := c.store.State().Settings
	s = s.WithDefaults(prev)

	op, err := settingsOperation(s, c.now())
	if err != nil {
		return prev, err
	}
	c.store.Dispatch(SettingsLoaded{Settings: s})

	if err := c.offlineErr(); err != nil {
		return s, c.enqueue(op, err)
	}
	server, err := c.gateway.UpdateSettings(ctx, s)
	if err != nil {
		return s, c.mutationFailed(op, err, SettingsLoaded{Settings: prev})
	}
	merged := server.WithDefaults(s)
	c.store.Dispatch(SettingsLoaded{Settings: merged})
	return merged, nil
}

// ── Conectividad ─────────────────────────────────────────────────────────────

// SetOnline actualiza el indicador de conectividad. Al pasar a online con
// operaciones pendientes reproduce la cola.
func (c *Core) SetOnline(ctx context.Context, online bool) error {
	prev := c.store.State()
	if prev.Online == online {
		return nil
	}
	next := c.store.Dispatch(ConnectivityChanged{Online: online})
	c.log.Info().Bool("online", online).Int("queue_len", len(next.Queue)).Msg("cambio de conectividad")

	if online && len(next.Queue) > 0 {
		_, err := c.ProcessOfflineQueue(ctx)
		return err
	}
	return nil
}

// ── Internos ─────────────────────────────────────────────────────────────────

func (c *Core) offlineErr() error {
	if c.store.State().Online {
		return nil
	}
	return fmt.Errorf("%w: modo offline", domain.ErrNetwork)
}

// noteFailure pasa a offline ante un error de conectividad.
func (c *Core) noteFailure(err error) {
	if domain.IsConnectivity(err) && c.store.State().Online {
		c.store.Dispatch(ConnectivityChanged{Online: false})
		c.log.Warn().Err(err).Bool("online", false).Msg("sin conexión con el servidor")
	}
}

// queueable solo los errores de red, o cualquier error estando offline, van a la cola.
// Un 401 o una entrada inválida nunca se encolan.
func (c *Core) queueable(err error) bool {
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrInvalidInput) {
		return false
	}
	return domain.IsConnectivity(err) || !c.store.State().Online
}

func (c *Core) mutationFailed(op Operation, err error, rollback Action) error {
	c.noteFailure(err)
	if c.queueable(err) {
		return c.enqueue(op, err)
	}
	if rollback != nil {
		c.store.Dispatch(rollback)
	}
	c.store.Dispatch(ErrorSet{Resource: op.Resource, Message: err.Error()})
	c.log.Error().Err(err).Str("resource", string(op.Resource)).Str("op", op.Name()).Msg("mutación revertida")
	return fmt.Errorf("%s: %w", op.Name(), err)
}

// enqueue encola la operación. No toca la ranura de error: quien llama decide cómo mostrarlo.
func (c *Core) enqueue(op Operation, cause error) error {
	next := c.store.Dispatch(OperationEnqueued{Operation: op})
	c.log.Info().Str("resource", string(op.Resource)).Str("op", op.Name()).
		Int("queue_len", len(next.Queue)).AnErr("cause", cause).Msg("operación encolada")
	if errors.Is(cause, domain.ErrNotSynced) {
		return fmt.Errorf("%s: %w: %w", op.Name(), domain.ErrQueuedOffline, domain.ErrNotSynced)
	}
	return fmt.Errorf("%s: %w", op.Name(), domain.ErrQueuedOffline)
}

func (c *Core) enqueueLoad(op Operation) {
	for _, q := range c.store.State().Queue {
		if q.sameLoad(op) {
			return
		}
	}
	_ = c.enqueue(op, nil)
}

// current busca el registro vigente por _id o, si no, por localId.
func (c *Core) current(res entity.Resource, id string, localID int64) (entity.Record, int) {
	col := c.store.State().Collection(res)
	if id != "" {
		if r, i := col.Find(id); r != nil {
			return r, i
		}
	}
	return col.FindLocal(localID)
}

// queuedForLocal IDs de las operaciones encoladas de un registro que nunca llegó al servidor.
// Vacío si su creación no está en la cola.
func (c *Core) queuedForLocal(res entity.Resource, localID int64) []string {
	if localID == 0 {
		return nil
	}
	var ids []string
	hasCreate := false
	for _, op := range c.store.State().Queue {
		if op.Resource != res || op.LocalID != localID || op.RecordID != "" {
			continue
		}
		if op.Kind == OpCreate {
			hasCreate = true
		}
		ids = append(ids, op.ID)
	}
	if !hasCreate {
		return nil
	}
	return ids
}

// nextLocalID milisegundos desde epoch, estrictamente creciente dentro del proceso.
func (c *Core) nextLocalID() int64 {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.lastLocal {
		id = c.lastLocal + 1
	}
	c.lastLocal = id
	return id
}

// confirmed normaliza la copia del servidor: conserva localId y quita _pending.
// Sin cuerpo de respuesta se usa la copia enviada.
func confirmed(server, sent entity.Record) entity.Record {
	if server == nil {
		server = wire(sent)
	}
	m := server.Base()
	if m.LocalID == 0 {
		m.LocalID = sent.Base().LocalID
	}
	if m.ID == "" {
		m.ID = sent.Base().ID
	}
	m.Pending = false
	return server
}

// ── Hidratación ──────────────────────────────────────────────────────────────

// Hydrate restaura colecciones, configuración y cola desde el espejo local.
// Una clave corrupta se registra y se ignora.
func (c *Core) Hydrate(ctx context.Context) error {
	h := Hydrated{Collections: make(map[entity.Resource][]entity.Record)}

	for _, res := range entity.AllResources() {
		raw, ok, err := c.mirror.Get(ctx, res.MirrorKey())
		if err != nil {
			return fmt.Errorf("hidratar %s: %w", res, err)
		}
		if !ok {
			continue
		}
		recs, err := entity.DecodeList(res, raw)
		if err != nil {
			c.log.Warn().Err(err).Str("resource", string(res)).Msg("snapshot local ilegible, se ignora")
			continue
		}
		h.Collections[res] = recs
	}

	raw, ok, err := c.mirror.Get(ctx, entity.SettingsMirrorKey)
	if err != nil {
		return fmt.Errorf("hidratar settings: %w", err)
	}
	if ok {
		var s entity.Settings
		if err := json.Unmarshal(raw, &s); err != nil {
			c.log.Warn().Err(err).Msg("settings locales ilegibles, se ignoran")
		} else {
			s = s.WithDefaults(c.store.State().Settings)
			h.Settings = &s
		}
	}

	raw, ok, err = c.mirror.Get(ctx, repository.KeyOfflineQueue)
	if err != nil {
		return fmt.Errorf("hidratar cola offline: %w", err)
	}
	if ok {
		queue, err := DecodeQueue(raw)
		if err != nil {
			c.log.Warn().Err(err).Msg("cola offline ilegible, se ignora")
		} else {
			h.Queue = queue
		}
	}

	next := c.store.Dispatch(h)
	c.log.Debug().Int("queue_len", len(next.Queue)).Int("collections", len(h.Collections)).Msg("estado hidratado")
	return nil
}
