package connectivity

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jhoicas/skillbridge-business/pkg/logger"
)

// probeTimeout tope de cada sondeo, independiente del intervalo.
const probeTimeout = 5 * time.Second

// ChangeFunc recibe el nuevo estado (normalmente Core.SetOnline).
type ChangeFunc func(ctx context.Context, online bool) error

// Monitor sondea GET <base><health> y notifica las transiciones online/offline.
// Cualquier respuesta HTTP menor a 500 cuenta como conectividad.
type Monitor struct {
	url        string
	interval   time.Duration
	httpClient *http.Client
	onChange   ChangeFunc
	log        *logger.Logger

	mu     sync.Mutex
	online bool
}

// NewMonitor construye el monitor. Parte de online=true, igual que el núcleo.
func NewMonitor(url string, interval time.Duration, onChange ChangeFunc, log *logger.Logger) *Monitor {
	if log == nil {
		log = logger.Nop()
	}
	return &Monitor{
		url:        url,
		interval:   interval,
		httpClient: &http.Client{Timeout: probeTimeout},
		onChange:   onChange,
		log:        log.Named("connectivity"),
		online:     true,
	}
}

// Online último estado conocido.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Probe hace un sondeo y notifica si el estado cambió. Devuelve el estado observado.
func (m *Monitor) Probe(ctx context.Context) bool {
	online := m.reachable(ctx)
	if m.swap(online) {
		m.notify(ctx, online)
	}
	return online
}

// Set fuerza el estado (override manual desde CLI o API local).
// Siempre notifica, aunque el monitor ya creyera estar en ese estado.
func (m *Monitor) Set(ctx context.Context, online bool) error {
	m.swap(online)
	m.log.Info().Bool("online", online).Msg("conectividad forzada")
	if m.onChange == nil {
		return nil
	}
	return m.onChange(ctx, online)
}

// Run sondea cada interval hasta que ctx se cancela. Con interval <= 0 no hace nada.
func (m *Monitor) Run(ctx context.Context) {
	if m.interval <= 0 {
		return
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}

func (m *Monitor) reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		m.log.Warn().Err(err).Str("url", m.url).Msg("URL de salud inválida")
		return false
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.log.Debug().Err(err).Msg("sondeo fallido")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))
	return resp.StatusCode < http.StatusInternalServerError
}

// swap guarda el estado y devuelve true si cambió.
func (m *Monitor) swap(online bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	changed := m.online != online
	m.online = online
	return changed
}

func (m *Monitor) notify(ctx context.Context, online bool) {
	m.log.Info().Bool("online", online).Msg("cambio de conectividad detectado")
	if m.onChange == nil {
		return
	}
	if err := m.onChange(ctx, online); err != nil {
		m.log.Warn().Err(err).Bool("online", online).Msg("reproducción de la cola con errores")
	}
}
