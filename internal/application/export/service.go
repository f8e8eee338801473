package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// RecordSource colecciones del espejo (las entrega el núcleo de sincronización).
type RecordSource interface {
	analytics.SnapshotSource
	Records(res entity.Resource) []entity.Record
}

// Service exportaciones a archivo sobre el estado local.
type Service struct {
	records RecordSource
	reports *analytics.ReportsUseCase
	now     func() time.Time
}

// NewService construye el servicio de exportación.
func NewService(records RecordSource, reports *analytics.ReportsUseCase) *Service {
	return &Service{records: records, reports: reports, now: time.Now}
}

// CollectionCSV escribe la colección completa, incluidos los registros pendientes.
func (s *Service) CollectionCSV(w io.Writer, res entity.Resource, enc Encoding) error {
	if !res.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownResource, res)
	}
	return CSV(w, res, s.records.Records(res), enc)
}

// FinancialXLSX escribe el libro del reporte financiero del período pedido.
// Las cifras del resumen son las del reporte (remoto o local); las hojas de
// detalle salen siempre del espejo.
func (s *Service) FinancialXLSX(ctx context.Context, w io.Writer, req dto.FinancialReportRequest) error {
	period, err := analytics.ParsePeriod(req.StartDate, req.EndDate, s.now())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	rep, err := s.reports.Financial(ctx, req)
	if err != nil {
		return err
	}
	snap, _ := s.records.Snapshot()
	return FinancialWorkbook(w, rep, snap, period)
}

// XLSXFilename nombre sugerido: financial_2026-10-19.xlsx.
func XLSXFilename(now time.Time) string {
	return fmt.Sprintf("financial_%s.xlsx", now.Format("2006-01-02"))
}
