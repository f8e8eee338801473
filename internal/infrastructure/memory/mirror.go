// Package memory implementa el espejo local en memoria (pruebas y ejecuciones --ephemeral).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/skillbridge-business/internal/domain/repository"
)

var _ repository.Mirror = (*Mirror)(nil)

// Mirror espejo clave→valor protegido por mutex. Guarda copias de los valores.
type Mirror struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMirror crea un espejo vacío.
func NewMirror() *Mirror {
	return &Mirror{data: make(map[string][]byte)}
}

func (m *Mirror) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Mirror) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Mirror) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Mirror) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
