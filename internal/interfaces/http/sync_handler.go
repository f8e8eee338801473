package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// Connectivity indicador online/offline con override manual.
// Lo implementa *connectivity.Monitor.
type Connectivity interface {
	Online() bool
	Set(ctx context.Context, online bool) error
}

// SyncHandler estado del núcleo, cola offline, conectividad y configuración.
type SyncHandler struct {
	core *synccore.Core
	conn Connectivity
}

// NewSyncHandler construye el handler. conn puede ser nil: el cambio de
// conectividad va entonces directo al núcleo.
func NewSyncHandler(core *synccore.Core, conn Connectivity) *SyncHandler {
	return &SyncHandler{core: core, conn: conn}
}

// QueueResponse contenido de la cola offline.
type QueueResponse struct {
	Count      int                  `json:"count"`
	Operations []synccore.Operation `json:"operations"`
}

// ConnectivityRequest cuerpo de POST /api/connectivity.
type ConnectivityRequest struct {
	Online *bool `json:"online"`
}

// State estado completo: colecciones, configuración, cola y error compartido.
// GET /api/state
// @Summary      Estado completo del núcleo
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  synccore.State
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/state [get]
func (h *SyncHandler) State(c *fiber.Ctx) error {
	return c.JSON(h.core.State())
}

// Queue GET /api/queue
// @Summary      Contenido de la cola offline
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  QueueResponse
// @Router       /api/queue [get]
func (h *SyncHandler) Queue(c *fiber.Ctx) error {
	ops := h.core.Queue()
	return c.JSON(QueueResponse{Count: len(ops), Operations: ops})
}

// ProcessQueue reproduce la cola offline (sincronización manual).
// POST /api/queue/process
// @Summary      Reproducir la cola offline
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  synccore.ReplayReport
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/queue/process [post]
func (h *SyncHandler) ProcessQueue(c *fiber.Ctx) error {
	report, err := h.core.ProcessOfflineQueue(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// SetConnectivity fuerza el indicador online/offline. Pasar a online reproduce la cola.
// POST /api/connectivity
// @Summary      Forzar el indicador online/offline
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      ConnectivityRequest  true  "Nuevo estado"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/connectivity [post]
func (h *SyncHandler) SetConnectivity(c *fiber.Ctx) error {
	var in ConnectivityRequest
	if err := c.BodyParser(&in); err != nil || in.Online == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se espera {\"online\": true|false}"})
	}
	var err error
	if h.conn != nil {
		err = h.conn.Set(c.Context(), *in.Online)
	} else {
		err = h.core.SetOnline(c.Context(), *in.Online)
	}
	if err != nil {
		return writeError(c, err)
	}
	st := h.core.State()
	return c.JSON(fiber.Map{"online": st.Online, "queueLength": len(st.Queue)})
}

// Settings GET /api/settings
// @Summary      Configuración del negocio
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.Settings
// @Router       /api/settings [get]
func (h *SyncHandler) Settings(c *fiber.Ctx) error {
	return c.JSON(h.core.State().Settings)
}

// SaveSettings guarda la configuración del negocio (optimista, encolable).
// PUT /api/settings
// @Summary      Guardar la configuración del negocio
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      entity.Settings  true  "Configuración"
// @Success      200   {object}  entity.Settings
// @Success      202   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *SyncHandler) SaveSettings(c *fiber.Ctx) error {
	var in entity.Settings
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.core.SaveSettings(c.Context(), in)
	if err != nil {
		if isQueued(err) {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": true, "settings": out, "message": err.Error()})
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}
