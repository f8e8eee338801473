package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/billing"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/export"
	"github.com/jhoicas/skillbridge-business/internal/application/session"
	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
	"github.com/jhoicas/skillbridge-business/internal/application/usecase"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/memory"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/skillbridge-business/internal/interfaces/http"
	"github.com/jhoicas/skillbridge-business/pkg/jwt"
	"github.com/jhoicas/skillbridge-business/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

// stubGateway backend /business/* en memoria; down simula la caída de red.
type stubGateway struct {
	mu   sync.Mutex
	seq  int
	down bool
	data map[entity.Resource][]entity.Record
}

func newStubGateway() *stubGateway {
	return &stubGateway{data: make(map[entity.Resource][]entity.Record)}
}

func (g *stubGateway) setDown(down bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.down = down
}

func (g *stubGateway) failure() error {
	if g.down {
		return fmt.Errorf("%w: connection refused", domain.ErrNetwork)
	}
	return nil
}

func (g *stubGateway) List(_ context.Context, res entity.Resource, _ map[string]string) ([]entity.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failure(); err != nil {
		return nil, err
	}
	return append([]entity.Record{}, g.data[res]...), nil
}

func (g *stubGateway) Create(_ context.Context, rec entity.Record) (entity.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failure(); err != nil {
		return nil, err
	}
	g.seq++
	out := entity.Clone(rec)
	out.Base().ID = fmt.Sprintf("srv-%d", g.seq)
	g.data[rec.Resource()] = append(g.data[rec.Resource()], out)
	return entity.Clone(out), nil
}

func (g *stubGateway) Update(_ context.Context, rec entity.Record) (entity.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failure(); err != nil {
		return nil, err
	}
	return entity.Clone(rec), nil
}

func (g *stubGateway) Delete(_ context.Context, _ entity.Resource, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failure()
}

func (g *stubGateway) GetSettings(_ context.Context) (entity.Settings, error) {
	return entity.DefaultSettings(), nil
}

func (g *stubGateway) UpdateSettings(_ context.Context, s entity.Settings) (entity.Settings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return s, g.failure()
}

// stubChat devuelve los fragmentos configurados o err.
type stubChat struct {
	chunks []string
	err    error
	got    dto.ChatRequest
}

func (s *stubChat) Stream(_ context.Context, req dto.ChatRequest, onChunk func(dto.ChatChunk) error) error {
	s.got = req
	for _, ch := range s.chunks {
		if err := onChunk(dto.ChatChunk{Content: ch}); err != nil {
			return err
		}
	}
	return s.err
}

type testEnv struct {
	app     *fiber.App
	gateway *stubGateway
	core    *synccore.Core
	chat    *stubChat
}

func newTestEnv(t *testing.T, apiKey string) *testEnv {
	t.Helper()
	cfg := apphttp.AppConfig("bizsync-test")
	cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return newTestEnvWithConfig(t, apiKey, cfg)
}

func newTestEnvWithConfig(t *testing.T, apiKey string, cfg fiber.Config) *testEnv {
	t.Helper()
	mirror := memory.NewMirror()
	gw := newStubGateway()
	core := synccore.NewCore(synccore.NewStore(synccore.InitialState(entity.DefaultSettings())), gw, mirror, logger.Nop())

	reports := analytics.NewReportsUseCase(nil, core)
	dashboard := analytics.NewDashboardUseCase(core)
	chat := &stubChat{chunks: []string{"Hola", ", mundo"}}

	app := fiber.New(cfg)
	apphttp.Router(app, apphttp.RouterDeps{
		Core:      core,
		Reports:   reports,
		Dashboard: dashboard,
		Export:    export.NewService(core, reports),
		Invoices:  billing.NewPDFUseCase(core, pdf.NewMarotoPDFGenerator(), nil),
		Chat:      usecase.NewChatUseCase(chat, dashboard),
		Sessions:  session.NewManager(mirror),
		APIKey:    apiKey,
	})
	return &testEnv{app: app, gateway: gw, core: core, chat: chat}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

const expenseBody = `{"category":"Rent","description":"Local","amount":5000,"date":"2026-03-05"}`

const saleBody = `{"customerName":"Wanjiru","items":[{"name":"Unga","quantity":2,"unitPrice":120}],"total":240,"paymentMethod":"mpesa","status":"completed","date":"2026-03-02"}`

// ──────────────────────────────────────────────────────────────────────────────
// Salud y estado
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_HealthReportaConectividadYCola(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]any
	decodeBody(t, resp, &out)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, true, out["online"])
	assert.EqualValues(t, 0, out["queueLength"])
}

func TestRouter_RecursoDesconocido404(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/collections/widgets", "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "UNKNOWN_RESOURCE", out.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CreateOnlineDevuelve201ConID(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out entity.Expense
	decodeBody(t, resp, &out)
	assert.Equal(t, "srv-1", out.ID)
	assert.NotZero(t, out.LocalID)
	assert.False(t, out.Pending)

	list := env.do(t, http.MethodGet, "/api/collections/expenses", "")
	var page struct {
		Data []map[string]any `json:"data"`
		Page dto.PageResponse `json:"page"`
	}
	decodeBody(t, list, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Page.Total)
}

func TestRouter_CreateSinRedQuedaEncolado202(t *testing.T) {
	env := newTestEnv(t, "")
	env.gateway.setDown(true)

	resp := env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var out struct {
		Queued bool           `json:"queued"`
		Record entity.Expense `json:"record"`
	}
	decodeBody(t, resp, &out)
	assert.True(t, out.Queued)
	assert.True(t, out.Record.Pending)
	assert.Empty(t, out.Record.ID)

	var queue apphttp.QueueResponse
	decodeBody(t, env.do(t, http.MethodGet, "/api/queue", ""), &queue)
	require.Equal(t, 1, queue.Count)
	assert.Equal(t, "createExpense", queue.Operations[0].Type)
}

func TestRouter_CuerpoInvalido400(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/collections/expenses", `{"amount": "x"`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "INVALID_BODY", out.Code)
}

func TestRouter_ValidacionNoEncola(t *testing.T) {
	env := newTestEnv(t, "")
	env.gateway.setDown(true)

	resp := env.do(t, http.MethodPost, "/api/collections/expenses", `{"category":"Rent","amount":0}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Zero(t, env.core.QueueLen(), "una entrada inválida nunca se encola")
}

func TestRouter_UpdateConClaveLocal(t *testing.T) {
	env := newTestEnv(t, "")
	env.gateway.setDown(true)

	var created struct {
		Record entity.Expense `json:"record"`
	}
	decodeBody(t, env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody), &created)
	key := entity.LocalKey(created.Record.LocalID)

	body := `{"category":"Rent","description":"Local 2","amount":5500,"date":"2026-03-05"}`
	resp := env.do(t, http.MethodPut, "/api/collections/expenses/"+key, body)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	recs := env.core.Records(entity.ResourceExpenses)
	require.Len(t, recs, 1)
	exp := recs[0].(*entity.Expense)
	assert.Equal(t, "Local 2", exp.Description)
	assert.Equal(t, created.Record.LocalID, exp.LocalID)
}

// Las claves de la URL quedan en el estado y en la cola; peticiones posteriores
// reutilizan los buffers de fasthttp y no deben alterarlas.
func assertKeysSurviveLaterRequests(t *testing.T, env *testEnv) {
	t.Helper()
	var created entity.Expense
	decodeBody(t, env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody), &created)
	require.Equal(t, "srv-1", created.ID)

	resp := env.do(t, http.MethodPost, "/api/connectivity", `{"online": false}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	body := `{"category":"Rent","description":"Local 2","amount":5500,"date":"2026-03-05"}`
	resp = env.do(t, http.MethodPut, "/api/collections/expenses/srv-1", body)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodDelete, "/api/collections/expenses/srv-77", "")
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/collections/inventory/load?category=unga", "")
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	for i := 0; i < 40; i++ {
		path := fmt.Sprintf("/api/collections/zzzzzz%02d/zzzzzzzz?zzzzzz=zzzzzzzz%02d", i, i)
		r := env.do(t, http.MethodPut, path, `{"zzzzzzzzzzzzzzzz":"zzzzzzzzzzzzzzzz"}`)
		_ = r.Body.Close()
	}

	recs := env.core.Records(entity.ResourceExpenses)
	require.Len(t, recs, 1)
	assert.Equal(t, "srv-1", recs[0].Base().ID)

	queue := env.core.Queue()
	require.Len(t, queue, 3)

	assert.Equal(t, "updateExpense", queue[0].Type)
	rec, err := queue[0].Record()
	require.NoError(t, err)
	assert.Equal(t, "srv-1", rec.Base().ID)
	assert.Equal(t, "srv-1", queue[0].Key())

	assert.Equal(t, "deleteExpense", queue[1].Type)
	assert.Equal(t, "srv-77", queue[1].RecordID)

	assert.Equal(t, "loadInventory", queue[2].Type)
	assert.Equal(t, entity.ResourceInventory, queue[2].Resource)
	assert.Equal(t, map[string]string{"category": "unga"}, queue[2].Params)
}

func TestRouter_ClavesEncoladasSobrevivenAPeticionesPosteriores(t *testing.T) {
	assertKeysSurviveLaterRequests(t, newTestEnv(t, ""))
}

func TestRouter_HandlersCopianClavesSinConfigInmutable(t *testing.T) {
	assertKeysSurviveLaterRequests(t, newTestEnvWithConfig(t, "", fiber.Config{}))
}

func TestAppConfig_EsInmutable(t *testing.T) {
	cfg := apphttp.AppConfig("bizsync")
	assert.True(t, cfg.Immutable)
	assert.Equal(t, "bizsync", cfg.AppName)
	assert.Zero(t, cfg.WriteTimeout, "la respuesta SSE de /api/chat no tiene límite de escritura")
}

func TestRouter_DeleteOnline204(t *testing.T) {
	env := newTestEnv(t, "")

	var created entity.Expense
	decodeBody(t, env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody), &created)

	resp := env.do(t, http.MethodDelete, "/api/collections/expenses/"+created.ID, "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, env.core.Records(entity.ResourceExpenses))
}

func TestRouter_DeleteDeRegistroEnColaCancelaSinRed(t *testing.T) {
	env := newTestEnv(t, "")
	env.gateway.setDown(true)

	var created struct {
		Record entity.Expense `json:"record"`
	}
	decodeBody(t, env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody), &created)

	resp := env.do(t, http.MethodDelete, "/api/collections/expenses/"+entity.LocalKey(created.Record.LocalID), "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Zero(t, env.core.QueueLen())
}

// ──────────────────────────────────────────────────────────────────────────────
// Cola y conectividad
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ReconectarReproduceLaCola(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/connectivity", `{"online": false}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	_ = resp.Body.Close()
	require.Equal(t, 1, env.core.QueueLen())

	resp = env.do(t, http.MethodPost, "/api/connectivity", `{"online": true}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out map[string]any
	decodeBody(t, resp, &out)
	assert.Equal(t, true, out["online"])
	assert.EqualValues(t, 0, out["queueLength"])

	recs := env.core.Records(entity.ResourceExpenses)
	require.Len(t, recs, 1)
	assert.Equal(t, "srv-1", recs[0].Base().ID)
}

func TestRouter_ConnectivitySinCampo400(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/connectivity", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ProcesarColaManual(t *testing.T) {
	env := newTestEnv(t, "")
	env.gateway.setDown(true)
	resp := env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	_ = resp.Body.Close()

	// vuelve la red; el indicador pasa a online sin disparar la reproducción
	env.gateway.setDown(false)
	env.core.Store().Dispatch(synccore.ConnectivityChanged{Online: true})
	require.Equal(t, 1, env.core.QueueLen())

	var report synccore.ReplayReport
	decodeBody(t, env.do(t, http.MethodPost, "/api/queue/process", ""), &report)
	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, 1, report.Succeeded)
	assert.Zero(t, report.Remaining)
}

func TestRouter_LoadSinRed503(t *testing.T) {
	env := newTestEnv(t, "")
	env.gateway.setDown(true)

	resp := env.do(t, http.MethodPost, "/api/collections/inventory/load", "")
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "OFFLINE", out.Code)
	assert.Equal(t, 1, env.core.QueueLen(), "la carga queda encolada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes y exportaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ReporteFinancieroLocal(t *testing.T) {
	env := newTestEnv(t, "")
	resp := env.do(t, http.MethodPost, "/api/collections/sales", saleBody)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/reports/financial?start_date=2026-03-01&end_date=2026-03-31", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rep dto.FinancialReportDTO
	decodeBody(t, resp, &rep)
	assert.Equal(t, dto.SourceLocal, rep.Source)
	assert.Equal(t, "2026-03-01", rep.Period.StartDate)
}

func TestRouter_ReporteFechaInvalida400(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/reports/financial?start_date=ayer", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRouter_DashboardCuentaPendientes(t *testing.T) {
	env := newTestEnv(t, "")
	env.gateway.setDown(true)
	resp := env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	_ = resp.Body.Close()

	var summary dto.DashboardSummaryDTO
	decodeBody(t, env.do(t, http.MethodGet, "/api/dashboard/summary", ""), &summary)
	assert.Equal(t, 1, summary.PendingSync)
}

func TestRouter_ExportCSV(t *testing.T) {
	env := newTestEnv(t, "")
	resp := env.do(t, http.MethodPost, "/api/collections/expenses", expenseBody)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/export/expenses.csv", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "expenses_")

	body := readBody(t, resp)
	assert.True(t, strings.HasPrefix(body, "id,localId,pending,date,category"))
	assert.Contains(t, body, "5000.00")
}

func TestRouter_ExportCSVCodificacionInvalida(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/export/expenses.csv?encoding=ebcdic", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ExportXLSX(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/export/report.xlsx", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentTypeXLSX, resp.Header.Get("Content-Type"))

	body := readBody(t, resp)
	assert.True(t, strings.HasPrefix(body, "PK"), "un xlsx es un zip")
}

func TestRouter_FacturaPDFDeVentaLocal(t *testing.T) {
	env := newTestEnv(t, "")
	env.gateway.setDown(true)

	var created struct {
		Record entity.Sale `json:"record"`
	}
	decodeBody(t, env.do(t, http.MethodPost, "/api/collections/sales", saleBody), &created)
	key := entity.LocalKey(created.Record.LocalID)

	resp := env.do(t, http.MethodGet, "/api/sales/"+key+"/invoice.pdf", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(readBody(t, resp), "%PDF"))

	var inv dto.InvoiceDTO
	decodeBody(t, env.do(t, http.MethodGet, "/api/sales/"+key+"/invoice", ""), &inv)
	assert.True(t, inv.Pending)
}

func TestRouter_FacturaVentaInexistente404(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/sales/nope/invoice.pdf", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Chat
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ChatReenviaEventosSSE(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/chat", `{"message":"¿Cómo voy este mes?"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := readBody(t, resp)
	assert.Equal(t, "data: {\"content\":\"Hola\"}\n\ndata: {\"content\":\", mundo\"}\n\ndata: [DONE]\n\n", body)
	assert.Equal(t, "¿Cómo voy este mes?", env.chat.got.Message)
	assert.Contains(t, env.chat.got.Context, "monthlySales")
}

func TestRouter_ChatErrorAMitadDeStream(t *testing.T) {
	env := newTestEnv(t, "")
	env.chat.err = fmt.Errorf("%w: se cortó", domain.ErrNetwork)

	body := readBody(t, env.do(t, http.MethodPost, "/api/chat", `{"message":"hola"}`))
	assert.Contains(t, body, `"error":`)
	assert.True(t, strings.HasSuffix(body, "data: [DONE]\n\n"))
}

func TestRouter_ChatSinStreamDevuelveJSON(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/chat?stream=false&business=false", `{"message":"hola"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out dto.ChatChunk
	decodeBody(t, resp, &out)
	assert.Equal(t, "Hola, mundo", out.Content)
	assert.Empty(t, env.chat.got.Context)
}

func TestRouter_ChatMensajeVacio400(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/chat", `{"message":"   "}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CicloDeSesion(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodGet, "/api/session", "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	tok, err := jwt.Generate("secreto", "u-1", "amina@example.com", "Amina", "owner", 60)
	require.NoError(t, err)

	resp = env.do(t, http.MethodPost, "/api/session", `{"token":"`+tok+`"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var out apphttp.SessionResponse
	decodeBody(t, resp, &out)
	require.NotNil(t, out.User)
	assert.Equal(t, "u-1", out.User.ID)
	assert.False(t, out.Expired)

	resp = env.do(t, http.MethodDelete, "/api/session", "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/session", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_SesionTokenIlegible400(t *testing.T) {
	env := newTestEnv(t, "")

	resp := env.do(t, http.MethodPost, "/api/session", `{"token":"no-es-un-jwt"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuración
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_GuardarSettingsSinRed202(t *testing.T) {
	env := newTestEnv(t, "")
	env.gateway.setDown(true)

	resp := env.do(t, http.MethodPut, "/api/settings", `{"businessName":"Duka la Amina","currency":"KES"}`)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	_ = resp.Body.Close()

	var s entity.Settings
	decodeBody(t, env.do(t, http.MethodGet, "/api/settings", ""), &s)
	assert.Equal(t, "Duka la Amina", s.BusinessName)
}
