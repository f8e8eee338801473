package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrNetwork         = errors.New("sin conexión con el servidor")
	ErrRemote          = errors.New("error del servidor remoto")
	ErrQueuedOffline   = errors.New("operación encolada hasta recuperar la conexión")
	ErrNotSynced       = errors.New("el registro aún no tiene id del servidor")
	ErrUnknownResource = errors.New("recurso desconocido")
)

// IsConnectivity indica si el error corresponde a una falla de red
// (la única clase de error que alimenta la cola offline).
func IsConnectivity(err error) bool {
	return errors.Is(err, ErrNetwork)
}
