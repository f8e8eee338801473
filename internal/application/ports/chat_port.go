package ports

import (
	"context"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
)

// ChatStreamer puerto de salida del asistente conversacional.
// La implementación entrega los fragmentos en orden y retorna cuando el
// servidor cierra el stream, cuando onChunk devuelve error o cuando ctx se cancela.
type ChatStreamer interface {
	Stream(ctx context.Context, req dto.ChatRequest, onChunk func(dto.ChatChunk) error) error
}
