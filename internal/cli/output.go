package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jhoicas/skillbridge-business/internal/domain"
	"gopkg.in/yaml.v3"
)

// Códigos de salida.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // la operación falló (servidor, validación...)
	ExitCommandError = 2 // uso incorrecto: flags, recurso desconocido, archivo inválido
	ExitOffline      = 3 // sin conexión; lo que se pudo quedó en la cola
)

// ExitError error con código de salida propio.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError crea un ExitError sin causa.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError envuelve err con un código de salida.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode código de salida de err. Los errores de dominio conocidos
// tienen su propio código; el resto es ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch {
	case errors.Is(err, domain.ErrQueuedOffline), errors.Is(err, domain.ErrNetwork):
		return ExitOffline
	case errors.Is(err, domain.ErrUnknownResource):
		return ExitCommandError
	}
	return ExitFailure
}

// Texter valores que saben presentarse en modo text.
type Texter interface {
	Text() string
}

// OutputFormatter escribe resultados en text, json o yaml.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse envoltorio de la salida json/yaml.
type CLIResponse struct {
	Status string    `json:"status"` // ok | error
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError detalle de error en la salida json/yaml.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success escribe un resultado.
func (f *OutputFormatter) Success(data any) error {
	switch f.Format {
	case "json", "yaml":
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	if t, ok := data.(Texter); ok {
		_, err := fmt.Fprintln(f.Writer, t.Text())
		return err
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error escribe un error.
func (f *OutputFormatter) Error(code, message string) error {
	switch f.Format {
	case "json", "yaml":
		return f.encode(CLIResponse{Status: "error", Error: &CLIError{Code: code, Message: message}})
	}
	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

// encode en yaml se pasa primero por JSON para respetar las etiquetas json
// (nombres de campo y montos decimales) de los tipos del dominio.
func (f *OutputFormatter) encode(v any) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
