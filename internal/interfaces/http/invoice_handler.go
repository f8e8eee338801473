package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/skillbridge-business/internal/application/billing"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
)

// InvoiceHandler facturas de venta en PDF.
type InvoiceHandler struct {
	uc *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// GetInvoice datos de la factura de una venta, sin renderizar.
// GET /api/sales/:key/invoice
// @Summary      Datos de la factura de una venta
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        key  path      string  true  "_id o local-<localId>"
// @Success      200  {object}  dto.InvoiceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{key}/invoice [get]
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "key requerida"})
	}
	inv, err := h.uc.Invoice(key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inv)
}

// DownloadPDF factura de la venta :key (_id o local-<localId>).
// GET /api/sales/:key/invoice.pdf?official=true
//
// Con official=true se intenta primero la factura emitida por el servidor;
// si no está disponible se genera la local (provisional si la venta está pendiente).
// @Summary      Factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        key       path      string  true   "_id o local-<localId>"
// @Param        official  query     bool    false  "Preferir la copia del servidor"
// @Success      200       {file}    file
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/sales/{key}/invoice.pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "key requerida"})
	}
	pdfBytes, filename, err := h.uc.DownloadInvoicePDF(c.Context(), key, c.QueryBool("official", false))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(pdfBytes)
}
