package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/skillbridge-business/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los KPIs del día y del mes en curso.
// GET /api/dashboard/summary
//
// Se calcula siempre sobre el espejo local, así que responde igual sin conexión.
// Incluye pendingSync con el largo de la cola offline.
// @Summary      KPIs del día y del mes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	return c.JSON(h.uc.GetSummary())
}
