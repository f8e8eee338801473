package cli

import (
	"github.com/spf13/cobra"
)

// NewInvoiceCommand crea el comando invoice.
func NewInvoiceCommand(rootOpts *RootOptions) *cobra.Command {
	var output string
	var official bool

	cmd := &cobra.Command{
		Use:   "invoice <sale-key>",
		Short: "Generar la factura PDF de una venta",
		Long: `Genera la factura de la venta identificada por su _id o por local-<localId>.
La factura local funciona sin conexión; una venta aún no sincronizada se
marca como provisional. Con --official se intenta primero la factura
emitida por el servidor.

Ejemplo:
  bizsync invoice 65f1c0a2e4 --official
  bizsync invoice local-1760000000000 -o provisional.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			return withApp(ctx, rootOpts, func(a *App) error {
				pdf, filename, err := a.Invoices.DownloadInvoicePDF(ctx, args[0], official)
				if err != nil {
					return WrapExitError(ExitFailure, "generar factura", err)
				}
				path := output
				if path == "" {
					path = filename
				}
				return emitFile(cmd, rootOpts, path, pdf)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo de salida (- para stdout)")
	cmd.Flags().BoolVar(&official, "official", false, "preferir la factura emitida por el servidor")

	return cmd
}
