package http

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/usecase"
	"github.com/valyala/fasthttp"
)

// ChatHandler reenvía el chat del asistente de negocio.
type ChatHandler struct {
	uc *usecase.ChatUseCase
}

// NewChatHandler construye el handler.
func NewChatHandler(uc *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Chat POST /api/chat?stream=true&business=true
//
// Con stream=true (por defecto) responde text/event-stream: un evento
// data: {"content": "..."} por fragmento y data: [DONE] al final. Un error a
// mitad de stream se envía como data: {"error": "..."} antes de [DONE].
// Con stream=false acumula la respuesta y devuelve un único JSON.
// @Summary      Chat del asistente de negocio
// @Tags         chat
// @Security     Bearer
// @Accept       json
// @Produce      text/event-stream
// @Produce      json
// @Param        stream    query     bool             false  "Responder en SSE"          default(true)
// @Param        business  query     bool             false  "Adjuntar contexto del negocio"  default(true)
// @Param        body      body      dto.ChatRequest  true   "Mensaje"
// @Success      200       {object}  dto.ChatChunk
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      503       {object}  dto.ErrorResponse
// @Router       /api/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "message es obligatorio"})
	}
	req.IncludeBusiness = c.QueryBool("business", true)

	if !c.QueryBool("stream", true) {
		var sb strings.Builder
		err := h.uc.Ask(c.Context(), req, func(ch dto.ChatChunk) error {
			sb.WriteString(ch.Content)
			return nil
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.ChatChunk{Content: sb.String()})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// El contexto de fasthttp termina al volver del handler; el stream vive en el writer.
	ctx, cancel := context.WithCancel(context.Background())
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		err := h.uc.Ask(ctx, req, func(ch dto.ChatChunk) error {
			if err := writeEvent(w, ch); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil {
			_ = writeEvent(w, map[string]string{"error": err.Error()})
		}
		_, _ = w.WriteString("data: [DONE]\n\n")
		_ = w.Flush()
	}))
	return nil
}

func writeEvent(w *bufio.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("data: "); err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	_, err = w.WriteString("\n\n")
	return err
}
