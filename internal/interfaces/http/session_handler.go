package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/session"
)

// SessionHandler sesión del cliente contra la API remota (authToken/cachedUser).
type SessionHandler struct {
	sessions *session.Manager
}

// NewSessionHandler construye el handler.
func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// LoginRequest cuerpo de POST /api/session.
type LoginRequest struct {
	Token string `json:"token"`
}

// SessionResponse usuario de la sesión actual.
type SessionResponse struct {
	User    *session.User `json:"user"`
	Expired bool          `json:"expired"`
}

// Get GET /api/session
// @Summary      Sesión actual
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	user, err := h.sessions.User(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	expired, err := h.sessions.Expired(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(SessionResponse{User: user, Expired: expired})
}

// Login guarda el token emitido por el servidor y cachea el usuario.
// POST /api/session
// @Summary      Guardar el token de la API remota
// @Tags         session
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Token"
// @Success      201   {object}  SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/session [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var in LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "token es requerido"})
	}
	user, err := h.sessions.SetToken(c.Context(), in.Token)
	if err != nil {
		return writeError(c, err)
	}
	expired, _ := h.sessions.Expired(c.Context())
	return c.Status(fiber.StatusCreated).JSON(SessionResponse{User: user, Expired: expired})
}

// Logout borra token, usuario cacheado y datos del aprendiz.
// DELETE /api/session
// @Summary      Cerrar la sesión local
// @Tags         session
// @Security     Bearer
// @Success      204
// @Router       /api/session [delete]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Clear(c.Context()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
