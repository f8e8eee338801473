package synccore

import (
	"time"

	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// Action unión de las transiciones que acepta el reducer.
// Cada tipo concreto implementa el método marcador isAction.
type Action interface {
	isAction()
}

// Hydrated estado restaurado desde el espejo local al arrancar.
// Solo se reemplazan las colecciones presentes en el mapa.
type Hydrated struct {
	Collections map[entity.Resource][]entity.Record
	Settings    *entity.Settings
	Queue       []Operation
}

// LoadStarted inicio de una carga (incrementa el contador en curso).
type LoadStarted struct {
	Resource entity.Resource
}

// LoadSucceeded datos frescos del servidor. Los registros locales aún
// pendientes que el servidor no conoce se conservan al principio.
type LoadSucceeded struct {
	Resource entity.Resource
	Data     []entity.Record
	At       time.Time
}

// LoadFailed fin de una carga con error.
type LoadFailed struct {
	Resource entity.Resource
	Err      string
}

// RecordAdded inserta un registro al principio de la colección.
type RecordAdded struct {
	Record entity.Record
}

// RecordReplaced reemplaza el registro con clave Key. No hace nada si no existe.
type RecordReplaced struct {
	Resource entity.Resource
	Key      string
	Record   entity.Record
}

// RecordRemoved quita el registro con clave Key.
type RecordRemoved struct {
	Resource entity.Resource
	Key      string
}

// RecordRestored vuelve a insertar un registro en su posición original (rollback de un borrado).
type RecordRestored struct {
	Record entity.Record
	Index  int
}

// CreateConfirmed copia del servidor para un registro creado localmente.
// Reemplaza la copia optimista con ese localId que aún no tenga _id; si no la
// encuentra, o si ya hay un registro con el mismo _id, actúa sobre ese.
// Si no hay nada que reemplazar lo inserta al principio.
type CreateConfirmed struct {
	Resource entity.Resource
	LocalID  int64
	Record   entity.Record
}

// SettingsLoaded nueva configuración del negocio.
type SettingsLoaded struct {
	Settings entity.Settings
}

// ConnectivityChanged cambio del indicador online/offline.
type ConnectivityChanged struct {
	Online bool
}

// OperationEnqueued agrega una operación al final de la cola offline.
type OperationEnqueued struct {
	Operation Operation
}

// OperationsRemoved quita de la cola las operaciones con esos IDs.
type OperationsRemoved struct {
	IDs []string
}

// ErrorSet registra un error en la ranura compartida y, si Resource no es vacío, en la colección.
type ErrorSet struct {
	Resource entity.Resource
	Message  string
}

// ErrorCleared limpia la ranura compartida y el error de la colección.
type ErrorCleared struct {
	Resource entity.Resource
}

func (Hydrated) isAction()            {}
func (LoadStarted) isAction()         {}
func (LoadSucceeded) isAction()       {}
func (LoadFailed) isAction()          {}
func (RecordAdded) isAction()         {}
func (RecordReplaced) isAction()      {}
func (RecordRemoved) isAction()       {}
func (RecordRestored) isAction()      {}
func (CreateConfirmed) isAction()     {}
func (SettingsLoaded) isAction()      {}
func (ConnectivityChanged) isAction() {}
func (OperationEnqueued) isAction()   {}
func (OperationsRemoved) isAction()   {}
func (ErrorSet) isAction()            {}
func (ErrorCleared) isAction()        {}
