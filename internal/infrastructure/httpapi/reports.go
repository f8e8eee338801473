package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/skillbridge-business/internal/domain"
)

// GetAnalytics GET /business/analytics. Devuelve el JSON crudo; lo interpreta ReportsUseCase.
func (c *Client) GetAnalytics(ctx context.Context, params map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/business/analytics", params, nil)
}

// GetCompliance GET /business/compliance (estado tributario: KRA, eTIMS).
func (c *Client) GetCompliance(ctx context.Context, params map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/business/compliance", params, nil)
}

// GenerateReport GET /business/reports/<kind>. El formato lo decide el servidor (pdf, csv, xlsx).
func (c *Client) GenerateReport(ctx context.Context, kind string, params map[string]string) ([]byte, error) {
	if kind == "" {
		return nil, fmt.Errorf("%w: tipo de reporte vacío", domain.ErrInvalidInput)
	}
	return c.do(ctx, http.MethodGet, "/business/reports/"+url.PathEscape(kind), params, nil)
}

// DownloadInvoice GET /business/sales/<id>/invoice.
func (c *Client) DownloadInvoice(ctx context.Context, saleID string) ([]byte, error) {
	if saleID == "" {
		return nil, fmt.Errorf("%w: venta sin id del servidor", domain.ErrNotSynced)
	}
	return c.do(ctx, http.MethodGet, "/business/sales/"+url.PathEscape(saleID)+"/invoice", nil, nil)
}
