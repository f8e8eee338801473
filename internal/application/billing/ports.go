package billing

import (
	"context"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
)

// InvoicePDFGenerator puerto de salida que renderiza la factura en PDF.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *dto.InvoiceDTO) ([]byte, error)
}

// RemoteInvoices factura oficial emitida por el backend (/business/sales/:id/invoice).
type RemoteInvoices interface {
	DownloadInvoice(ctx context.Context, saleID string) ([]byte, error)
}
