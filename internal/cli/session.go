package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/skillbridge-business/internal/application/session"
)

// SessionResult usuario de la sesión guardada.
type SessionResult struct {
	User    *session.User `json:"user,omitempty"`
	Expired bool          `json:"expired"`
}

// Text implementa Texter.
func (s SessionResult) Text() string {
	if s.User == nil {
		return "sesión cerrada"
	}
	name := s.User.Email
	if s.User.Name != "" {
		name = fmt.Sprintf("%s <%s>", s.User.Name, s.User.Email)
	}
	if s.Expired {
		return "sesión de " + name + " (vencida)"
	}
	return "sesión de " + name
}

// NewLoginCommand crea el comando login.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Guardar el token de sesión emitido por el servidor",
		Long: `Guarda el token JWT (authToken) en el espejo local y cachea el usuario.
Sin --token lo lee de la entrada estándar.

Ejemplo:
  bizsync login --token "$SKILLBRIDGE_TOKEN"
  pass show skillbridge | bizsync login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return WrapExitError(ExitCommandError, "leer token", err)
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return NewExitError(ExitCommandError, "token vacío")
			}
			ctx := commandContext(cmd.Context())
			return withApp(ctx, rootOpts, func(a *App) error {
				user, err := a.Sessions.SetToken(ctx, token)
				if err != nil {
					return WrapExitError(ExitCommandError, "token inválido", err)
				}
				expired, _ := a.Sessions.Expired(ctx)
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(SessionResult{User: user, Expired: expired})
			})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "token JWT")

	return cmd
}

// NewLogoutCommand crea el comando logout.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesión: borra token, usuario y perfil de aprendizaje",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			return withApp(ctx, rootOpts, func(a *App) error {
				if err := a.Sessions.Clear(ctx); err != nil {
					return WrapExitError(ExitFailure, "cerrar sesión", err)
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(SessionResult{})
			})
		},
	}
}
