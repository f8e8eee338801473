package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
)

// NewChatCommand crea el comando chat.
func NewChatCommand(rootOpts *RootOptions) *cobra.Command {
	var noBusiness bool

	cmd := &cobra.Command{
		Use:   "chat <mensaje...>",
		Short: "Preguntar al asistente de negocio (respuesta en streaming)",
		Long: `Envía la pregunta al asistente y escribe la respuesta a medida que llega.
Por defecto se adjunta un resumen del negocio calculado con los datos locales
(ventas y margen del mes, gastos, stock bajo, operaciones pendientes).

Ejemplo:
  bizsync chat "¿qué producto debería reponer primero?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			return withApp(ctx, rootOpts, func(a *App) error {
				req := dto.ChatRequest{
					Message:         strings.Join(args, " "),
					IncludeBusiness: !noBusiness,
				}
				w := cmd.OutOrStdout()
				streaming := rootOpts.Format == "text"

				var sb strings.Builder
				err := a.Chat.Ask(ctx, req, func(ch dto.ChatChunk) error {
					if streaming {
						_, err := fmt.Fprint(w, ch.Content)
						return err
					}
					sb.WriteString(ch.Content)
					return nil
				})
				if streaming {
					fmt.Fprintln(w)
				}
				if err != nil {
					return WrapExitError(GetExitCode(err), "chat", err)
				}
				if streaming {
					return nil
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: w}
				return out.Success(dto.ChatChunk{Content: sb.String()})
			})
		},
	}

	cmd.Flags().BoolVar(&noBusiness, "no-business", false, "no adjuntar el resumen del negocio")

	return cmd
}
