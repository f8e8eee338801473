package entity

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// La API remota espera números, no strings, en los montos.
	decimal.MarshalJSONWithoutQuotes = true
}

// Meta campos comunes a todo registro de negocio.
// ID lo asigna el servidor; LocalID lo asigna el cliente al crear (milisegundos
// desde epoch) y permite reconciliar la copia optimista con la del servidor.
type Meta struct {
	ID        string     `json:"_id,omitempty"`
	LocalID   int64      `json:"localId,omitempty"`
	Pending   bool       `json:"_pending,omitempty"` // mutación local aún sin confirmar
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Base devuelve los metadatos para lectura/escritura.
func (m *Meta) Base() *Meta { return m }

// Key identificador estable dentro de una colección: _id si existe, si no local-<localId>.
func (m Meta) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return LocalKey(m.LocalID)
}

// LocalKey construye la clave de un registro que solo existe en el cliente.
func LocalKey(localID int64) string {
	return "local-" + strconv.FormatInt(localID, 10)
}

// ParseLocalKey extrae el localId de una clave local-<n>.
func ParseLocalKey(key string) (int64, bool) {
	rest, ok := strings.CutPrefix(key, "local-")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetKey asigna a m el identificador que representa key (_id o local-<n>).
func (m *Meta) SetKey(key string) {
	if n, ok := ParseLocalKey(key); ok {
		m.LocalID = n
		return
	}
	m.ID = key
}

// Record contrato común de los registros sincronizados.
// Las implementaciones son punteros a structs que embeben Meta.
type Record interface {
	Resource() Resource
	Base() *Meta
	Key() string
}

// Clone copia superficial del registro; el núcleo nunca modifica un registro
// que ya está publicado en el estado.
func Clone(r Record) Record {
	if r == nil {
		return nil
	}
	v := reflect.ValueOf(r)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return r
	}
	c := reflect.New(v.Elem().Type())
	c.Elem().Set(v.Elem())
	return c.Interface().(Record)
}

// RecordDate fecha de negocio del registro; cae en CreatedAt si el tipo no tiene una propia.
func RecordDate(r Record) time.Time {
	if d, ok := r.(interface{ BusinessDate() time.Time }); ok {
		if t := d.BusinessDate(); !t.IsZero() {
			return t
		}
	}
	if m := r.Base(); m.CreatedAt != nil {
		return *m.CreatedAt
	}
	return time.Time{}
}
