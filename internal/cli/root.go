// Package cli comandos de bizsync: servidor local, sincronización manual,
// exportaciones, facturas, chat y sesión.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions flags globales de todos los comandos.
type RootOptions struct {
	ConfigPath string
	Format     string // text | json | yaml
	Ephemeral  bool   // espejo en memoria: nada se escribe a disco
	Verbose    bool
}

// ValidFormats formatos de salida admitidos.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand crea el comando raíz.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bizsync",
		Short: "Cliente offline-first de SkillBridge254 Business",
		Long: `bizsync mantiene un espejo local de las colecciones del negocio
(inventario, clientes, ventas, gastos, proveedores, devoluciones y pagos),
encola las mutaciones hechas sin conexión y las reproduce al reconectar.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("formato inválido %q: debe ser uno de %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "archivo de configuración (por defecto .env / config.*)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (text|json|yaml)")
	cmd.PersistentFlags().BoolVar(&opts.Ephemeral, "ephemeral", false, "usar un espejo en memoria")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "logs de depuración")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewQueueCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewInvoiceCommand(opts))
	cmd.AddCommand(NewChatCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))

	return cmd
}
