package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Date fecha de negocio tolerante: acepta RFC 3339 (lo que devuelve la API)
// y YYYY-MM-DD (lo que envían los formularios).
type Date struct {
	time.Time
}

// NewDate envuelve un time.Time.
func NewDate(t time.Time) Date { return Date{Time: t} }

// MarshalJSON serializa en RFC 3339; null si la fecha es cero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

// UnmarshalJSON acepta null, "", RFC 3339 con o sin milisegundos y fecha corta.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha inválida %s: %w", string(b), err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("fecha inválida %q", s)
}
