package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/export"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// ExportHandler descargas CSV y XLSX generadas sobre el estado local.
type ExportHandler struct {
	svc *export.Service
	now func() time.Time
}

// NewExportHandler construye el handler.
func NewExportHandler(svc *export.Service) *ExportHandler {
	return &ExportHandler{svc: svc, now: time.Now}
}

// CollectionCSV exporta una colección completa.
// GET /api/export/:resource.csv?encoding=utf-8|windows-1252
// @Summary      Exportar una colección en CSV
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Param        resource  path      string  true   "Colección"
// @Param        encoding  query     string  false  "Codificación"  Enums(utf-8, windows-1252)
// @Success      200       {file}    file
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/export/{resource}.csv [get]
func (h *ExportHandler) CollectionCSV(c *fiber.Ctx) error {
	res, err := entity.ParseResource(c.Params("resource"))
	if err != nil {
		return writeError(c, err)
	}
	enc, err := export.ParseEncoding(c.Query("encoding"))
	if err != nil {
		return writeError(c, err)
	}

	var buf bytes.Buffer
	if err := h.svc.CollectionCSV(&buf, res, enc); err != nil {
		return writeError(c, err)
	}
	charset := "utf-8"
	if enc == export.EncodingWindows1252 {
		charset = "windows-1252"
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset="+charset)
	c.Attachment(export.Filename(res, h.now()))
	return c.Send(buf.Bytes())
}

// FinancialXLSX libro del reporte financiero.
// GET /api/export/report.xlsx?start_date=&end_date=&top_n=
// @Summary      Libro XLSX del reporte financiero
// @Tags         exports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start_date  query     string  false  "YYYY-MM-DD"
// @Param        end_date    query     string  false  "YYYY-MM-DD"
// @Param        top_n       query     int     false  "Top productos"
// @Success      200         {file}    file
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/export/report.xlsx [get]
func (h *ExportHandler) FinancialXLSX(c *fiber.Ctx) error {
	var req dto.FinancialReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}

	var buf bytes.Buffer
	if err := h.svc.FinancialXLSX(c.Context(), &buf, req); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, export.ContentTypeXLSX)
	c.Attachment(export.XLSXFilename(h.now()))
	return c.Send(buf.Bytes())
}
