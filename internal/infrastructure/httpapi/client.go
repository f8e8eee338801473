package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ synccore.Gateway          = (*Client)(nil)
	_ analytics.RemoteAnalytics = (*Client)(nil)
)

// maxBody límite de lectura de respuestas (los reportes binarios pueden ser grandes).
const maxBody = 32 << 20

// TokenSource origen del token de sesión. Clear se invoca ante un 401.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Options parámetros del cliente.
type Options struct {
	BaseURL string
	Timeout time.Duration // 0 = sin timeout propio
	Tokens  TokenSource
	// OnUnauthorized se llama después de borrar la sesión por un 401.
	OnUnauthorized func()
	Logger         *logger.Logger
	HTTPClient     *http.Client
}

// Client adaptador de la API REST /business/*.
// Sin reintentos ni backoff: los fallos de red los absorbe la cola offline.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            *logger.Logger
}

// New construye el cliente.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:        opts.BaseURL,
		httpClient:     hc,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		log:            log.Named("httpapi"),
	}
}

// BaseURL base configurada (usada por el monitor de conectividad y el chat).
func (c *Client) BaseURL() string { return c.baseURL }

// do ejecuta la petición y devuelve el cuerpo de una respuesta 2xx.
func (c *Client) do(ctx context.Context, method, path string, params map[string]string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("API: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+encodeQuery(params), body)
	if err != nil {
		return nil, fmt.Errorf("API: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("API: leer token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("API: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta de %s: %v", domain.ErrNetwork, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, raw)
		c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("respuesta con error")
		if resp.StatusCode == http.StatusUnauthorized {
			c.teardown(ctx)
		}
		return nil, apiErr
	}
	return raw, nil
}

// teardown cierra la sesión local tras un 401.
func (c *Client) teardown(ctx context.Context) {
	if c.tokens != nil {
		if err := c.tokens.Clear(ctx); err != nil {
			c.log.Warn().Err(err).Msg("no se pudo borrar la sesión tras 401")
		}
	}
	c.log.Info().Msg("sesión cerrada por 401")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// encodeQuery serializa los parámetros en orden estable.
func encodeQuery(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	q := url.Values{}
	for _, k := range keys {
		if params[k] != "" {
			q.Add(k, params[k])
		}
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
