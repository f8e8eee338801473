package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
)

// onlineChecker contrato mínimo para saber si hay conexión con el servidor.
// Lo implementa *connectivity.Monitor.
type onlineChecker interface {
	Online() bool
}

// RequireOnline corta con 503 las rutas que solo funcionan contra el servidor
// (el chat, por ejemplo). Sin checker deja pasar todo.
func RequireOnline(checker onlineChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if checker == nil || checker.Online() {
			return c.Next()
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code:    "OFFLINE",
			Message: "sin conexión con el servidor, intente más tarde",
		})
	}
}
