package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/skillbridge-business/docs"
	apphttp "github.com/jhoicas/skillbridge-business/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Documentación OpenAPI
// ──────────────────────────────────────────────────────────────────────────────

func TestDocs_DocumentoRegistradoCubreLasRutas(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "2.0", doc.Swagger)

	routes := map[string][]string{
		"/health":                           {"get"},
		"/api/state":                        {"get"},
		"/api/queue":                        {"get"},
		"/api/queue/process":                {"post"},
		"/api/connectivity":                 {"post"},
		"/api/settings":                     {"get", "put"},
		"/api/collections/{resource}":       {"get", "post"},
		"/api/collections/{resource}/load":  {"post"},
		"/api/collections/{resource}/{key}": {"put", "delete"},
		"/api/reports/financial":            {"get"},
		"/api/dashboard/summary":            {"get"},
		"/api/export/{resource}.csv":        {"get"},
		"/api/export/report.xlsx":           {"get"},
		"/api/sales/{key}/invoice":          {"get"},
		"/api/sales/{key}/invoice.pdf":      {"get"},
		"/api/chat":                         {"post"},
		"/api/session":                      {"get", "post", "delete"},
	}
	for path, methods := range routes {
		ops, ok := doc.Paths[path]
		require.True(t, ok, "falta %s", path)
		for _, m := range methods {
			assert.Contains(t, ops, m, "%s %s", strings.ToUpper(m), path)
		}
	}
}

func TestDocs_MountDocsSirveSwaggerUI(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	app := fiber.New()
	require.NoError(t, apphttp.MountDocs(app, dir, "bizsync API"))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	_, err := os.Stat(filepath.Join(dir, "swagger.json"))
	require.NoError(t, err, "el documento se escribe en disco para el middleware")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	health, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, health.StatusCode, "las demás rutas siguen pasando")
}
