package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

const settingsPath = "/business/settings"

// List GET /business/<resource>.
func (c *Client) List(ctx context.Context, res entity.Resource, params map[string]string) ([]entity.Record, error) {
	raw, err := c.do(ctx, http.MethodGet, res.Path(), params, nil)
	if err != nil {
		return nil, err
	}
	return entity.DecodeList(res, raw)
}

// Get GET /business/<resource>/<id>.
func (c *Client) Get(ctx context.Context, res entity.Resource, id string) (entity.Record, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id vacío", domain.ErrInvalidInput)
	}
	raw, err := c.do(ctx, http.MethodGet, itemPath(res, id), nil, nil)
	if err != nil {
		return nil, err
	}
	return entity.Decode(res, raw)
}

// Create POST /business/<resource>. Si la respuesta no trae cuerpo se devuelve lo enviado.
func (c *Client) Create(ctx context.Context, rec entity.Record) (entity.Record, error) {
	res := rec.Resource()
	raw, err := c.do(ctx, http.MethodPost, res.Path(), nil, rec)
	if err != nil {
		return nil, err
	}
	return decodeOrEcho(res, raw, rec)
}

// Update PUT /business/<resource>/<id>. El registro debe tener id del servidor.
func (c *Client) Update(ctx context.Context, rec entity.Record) (entity.Record, error) {
	id := rec.Base().ID
	if id == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotSynced, rec.Key())
	}
	res := rec.Resource()
	raw, err := c.do(ctx, http.MethodPut, itemPath(res, id), nil, rec)
	if err != nil {
		return nil, err
	}
	return decodeOrEcho(res, raw, rec)
}

// Delete DELETE /business/<resource>/<id>.
func (c *Client) Delete(ctx context.Context, res entity.Resource, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id vacío", domain.ErrNotSynced)
	}
	_, err := c.do(ctx, http.MethodDelete, itemPath(res, id), nil, nil)
	return err
}

// GetSettings GET /business/settings.
func (c *Client) GetSettings(ctx context.Context) (entity.Settings, error) {
	raw, err := c.do(ctx, http.MethodGet, settingsPath, nil, nil)
	if err != nil {
		return entity.Settings{}, err
	}
	return decodeSettings(raw)
}

// UpdateSettings PUT /business/settings.
func (c *Client) UpdateSettings(ctx context.Context, s entity.Settings) (entity.Settings, error) {
	raw, err := c.do(ctx, http.MethodPut, settingsPath, nil, s)
	if err != nil {
		return entity.Settings{}, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return s, nil
	}
	return decodeSettings(raw)
}

func itemPath(res entity.Resource, id string) string {
	return res.Path() + "/" + url.PathEscape(id)
}

func decodeOrEcho(res entity.Resource, raw []byte, sent entity.Record) (entity.Record, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return entity.Clone(sent), nil
	}
	return entity.Decode(res, raw)
}

// decodeSettings acepta el objeto directo, {"data": {...}} o {"settings": {...}}.
func decodeSettings(raw []byte) (entity.Settings, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return entity.Settings{}, fmt.Errorf("%w: decodificar settings: %v", domain.ErrRemote, err)
	}
	for _, key := range []string{"data", "settings"} {
		if inner, ok := env[key]; ok && len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '{' {
			raw = inner
			break
		}
	}
	var s entity.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return entity.Settings{}, fmt.Errorf("%w: decodificar settings: %v", domain.ErrRemote, err)
	}
	return s, nil
}
