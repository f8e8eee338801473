package analytics

import (
	"fmt"
	"time"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

const dashboardTopProducts = 5 // número de productos en el widget del dashboard

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: el snapshot local; funciona igual con o sin conexión.
type DashboardUseCase struct {
	source SnapshotSource
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(source SnapshotSource) *DashboardUseCase {
	return &DashboardUseCase{source: source, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
func (uc *DashboardUseCase) GetSummary() *dto.DashboardSummaryDTO {
	now := uc.now()
	snap, settings := uc.source.Snapshot()
	settings = settings.WithDefaults(entity.DefaultSettings())

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	today := Period{Start: todayStart, End: todayEnd}

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	month := Period{Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), End: todayEnd}

	lowStock := 0
	for _, item := range snap.Inventory {
		if item.IsLowStock(settings.LowStockThreshold) {
			lowStock++
		}
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:      snap.Revenue(today).Round(2),
		TodayMargin:     snap.GrossProfit(today).Round(2),
		MonthlySales:    snap.Revenue(month).Round(2),
		MonthlyMargin:   snap.GrossProfit(month).Round(2),
		MonthlyExpenses: snap.TotalExpenses(month).Round(2),
		TopProducts:     toTopProductDTOs(snap.TopProducts(month, dashboardTopProducts)),
		LowStockCount:   lowStock,
		PendingSync:     uc.source.QueueLen(),
		DateLabel:       monthLabel(now),
	}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
