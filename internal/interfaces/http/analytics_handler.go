package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
)

// AnalyticsHandler maneja el reporte financiero.
type AnalyticsHandler struct {
	uc *appanalytics.ReportsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.ReportsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetFinancial reporte financiero del período.
// GET /api/reports/financial?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD&top_n=5
//
// Pide primero la analítica del servidor; si no responde se calcula con los
// datos locales. El campo source indica el origen (remote | local).
// @Summary      Reporte financiero (remoto con respaldo local)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query     string  false  "YYYY-MM-DD"
// @Param        end_date    query     string  false  "YYYY-MM-DD"
// @Param        top_n       query     int     false  "Top productos"  default(5)
// @Success      200         {object}  dto.FinancialReportDTO
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/reports/financial [get]
func (h *AnalyticsHandler) GetFinancial(c *fiber.Ctx) error {
	var req dto.FinancialReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	report, err := h.uc.Financial(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
