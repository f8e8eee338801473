package analytics

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// Period rango de fechas inclusivo. Un extremo en cero significa "sin límite".
type Period struct {
	Start time.Time
	End   time.Time
}

// Bounded indica si el período tiene ambos extremos.
func (p Period) Bounded() bool {
	return !p.Start.IsZero() && !p.End.IsZero()
}

// Contains verdadero si t cae dentro del período.
// Un registro sin fecha solo entra en períodos sin límites.
func (p Period) Contains(t time.Time) bool {
	if t.IsZero() {
		return p.Start.IsZero() && p.End.IsZero()
	}
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && t.After(p.End) {
		return false
	}
	return true
}

// Days número de días calendario cubiertos (mínimo 1).
func (p Period) Days() int {
	if !p.Bounded() {
		return 1
	}
	d := int(math.Ceil(p.End.Sub(p.Start).Hours() / 24))
	if d < 1 {
		return 1
	}
	return d
}

// ParsePeriod convierte los strings de fecha en un Period; aplica valores por defecto si están vacíos
// (primer día del mes actual hasta hoy, inclusive).
func ParsePeriod(startStr, endStr string, now time.Time) (Period, error) {
	var start, end time.Time
	var err error

	if endStr == "" {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	} else {
		end, err = time.ParseInLocation(dateLayout, endStr, now.Location())
		if err != nil {
			return Period{}, fmt.Errorf("end_date inválido: %w", err)
		}
	}
	end = end.Add(24*time.Hour - time.Nanosecond) // inclusive hasta el final del día

	if startStr == "" {
		// Primer día del mes actual
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation(dateLayout, startStr, now.Location())
		if err != nil {
			return Period{}, fmt.Errorf("start_date inválido: %w", err)
		}
	}

	if start.After(end) {
		return Period{}, fmt.Errorf("start_date no puede ser posterior a end_date")
	}
	return Period{Start: start, End: end}, nil
}
