package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/skillbridge-business/internal/domain"
)

// APIError respuesta no exitosa de la API remota.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API HTTP %d", e.Status)
	}
	return fmt.Sprintf("API HTTP %d: %s", e.Status, e.Message)
}

// Unwrap traduce el status al error de dominio correspondiente.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity, e.Status == http.StatusConflict:
		return domain.ErrInvalidInput
	default:
		return domain.ErrRemote
	}
}

// newAPIError extrae el mensaje del cuerpo; la API usa {message}, {error} o {error:{message}}.
func newAPIError(status int, body []byte) *APIError {
	var env struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &env); err == nil {
		msg = env.Message
		if msg == "" && len(env.Error) > 0 {
			var s string
			if json.Unmarshal(env.Error, &s) == nil {
				msg = s
			} else {
				var nested struct {
					Message string `json:"message"`
				}
				if json.Unmarshal(env.Error, &nested) == nil {
					msg = nested.Message
				}
			}
		}
	}
	if msg == "" {
		msg = truncate(strings.TrimSpace(string(body)), maxMessageBytes)
	}
	return &APIError{Status: status, Message: msg}
}

const maxMessageBytes = 200

// truncate corta s a lo sumo en n bytes sin partir una runa.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
