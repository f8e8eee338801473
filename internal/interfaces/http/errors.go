package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// QueuedResponse respuesta 202 de una mutación que quedó en la cola offline.
type QueuedResponse struct {
	Queued  bool          `json:"queued"`
	Record  entity.Record `json:"record,omitempty"`
	Message string        `json:"message"`
}

// errorStatus traduce los errores de dominio a status HTTP y código.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownResource):
		return fiber.StatusNotFound, "UNKNOWN_RESOURCE"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrNotSynced):
		return fiber.StatusConflict, "NOT_SYNCED"
	case errors.Is(err, domain.ErrNetwork):
		return fiber.StatusServiceUnavailable, "OFFLINE"
	case errors.Is(err, domain.ErrRemote):
		return fiber.StatusBadGateway, "REMOTE_ERROR"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// isQueued la operación no falló: quedó en la cola offline para reproducirse luego.
func isQueued(err error) bool { return errors.Is(err, domain.ErrQueuedOffline) }

// writeError responde {code, message} según el error de dominio.
func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// writeMutation responde a una mutación del núcleo: 202 si quedó encolada,
// el error traducido si falló, okStatus con el registro si se confirmó.
func writeMutation(c *fiber.Ctx, okStatus int, rec entity.Record, err error) error {
	if isQueued(err) {
		return c.Status(fiber.StatusAccepted).JSON(QueuedResponse{Queued: true, Record: rec, Message: err.Error()})
	}
	if err != nil {
		return writeError(c, err)
	}
	if rec == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(rec)
}
