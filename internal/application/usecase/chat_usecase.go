package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/ports"
	"github.com/jhoicas/skillbridge-business/internal/domain"
)

// chatTimeout tope de una respuesta completa del asistente.
const chatTimeout = 2 * time.Minute

// BusinessSummarizer fuente del resumen que se adjunta como contexto.
type BusinessSummarizer interface {
	GetSummary() *dto.DashboardSummaryDTO
}

// ChatUseCase orquesta las preguntas al asistente de negocio.
type ChatUseCase struct {
	chat    ports.ChatStreamer
	summary BusinessSummarizer
}

// NewChatUseCase construye el caso de uso. summary puede ser nil.
func NewChatUseCase(chat ports.ChatStreamer, summary BusinessSummarizer) *ChatUseCase {
	return &ChatUseCase{chat: chat, summary: summary}
}

// Ask valida la pregunta, adjunta el contexto del negocio si se pidió y
// delega en el streamer con un timeout acotado.
func (uc *ChatUseCase) Ask(ctx context.Context, req dto.ChatRequest, onChunk func(dto.ChatChunk) error) error {
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return fmt.Errorf("%w: message es obligatorio", domain.ErrInvalidInput)
	}
	if req.IncludeBusiness && uc.summary != nil {
		req.Context = mergeContext(req.Context, businessContext(uc.summary.GetSummary()))
	}

	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	if err := uc.chat.Stream(ctx, req, onChunk); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

func businessContext(s *dto.DashboardSummaryDTO) map[string]string {
	if s == nil {
		return nil
	}
	top := make([]string, 0, len(s.TopProducts))
	for _, p := range s.TopProducts {
		top = append(top, p.Name)
	}
	return map[string]string{
		"period":          s.DateLabel,
		"monthlySales":    s.MonthlySales.StringFixed(2),
		"monthlyMargin":   s.MonthlyMargin.StringFixed(2),
		"monthlyExpenses": s.MonthlyExpenses.StringFixed(2),
		"todaySales":      s.TodaySales.StringFixed(2),
		"lowStockCount":   strconv.Itoa(s.LowStockCount),
		"pendingSync":     strconv.Itoa(s.PendingSync),
		"topProducts":     strings.Join(top, ", "),
	}
}

// mergeContext los valores explícitos del request ganan sobre los calculados.
func mergeContext(explicit, computed map[string]string) map[string]string {
	out := make(map[string]string, len(explicit)+len(computed))
	for k, v := range computed {
		out[k] = v
	}
	for k, v := range explicit {
		out[k] = v
	}
	return out
}
