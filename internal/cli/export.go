package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/export"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// FileResult archivo generado por un comando.
type FileResult struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// Text implementa Texter.
func (f FileResult) Text() string {
	return fmt.Sprintf("%s (%d bytes)", f.Path, f.Bytes)
}

// NewExportCommand crea el comando export con sus subcomandos csv y xlsx.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exportar colecciones (CSV) o el reporte financiero (XLSX)",
	}
	cmd.AddCommand(newExportCSVCommand(rootOpts))
	cmd.AddCommand(newExportXLSXCommand(rootOpts))
	return cmd
}

func newExportCSVCommand(rootOpts *RootOptions) *cobra.Command {
	var output, encoding string

	cmd := &cobra.Command{
		Use:   "csv <resource>",
		Short: "Exportar una colección del espejo local a CSV",
		Long: `Exporta la colección tal como está en el espejo local, incluidos los
registros pendientes de sincronizar. Con -o - escribe a stdout.

Ejemplo:
  bizsync export csv sales
  bizsync export csv expenses --encoding windows-1252 -o gastos.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := entity.ParseResource(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "recurso inválido", err)
			}
			enc, err := export.ParseEncoding(encoding)
			if err != nil {
				return WrapExitError(ExitCommandError, "codificación inválida", err)
			}
			ctx := commandContext(cmd.Context())
			return withApp(ctx, rootOpts, func(a *App) error {
				var buf bytes.Buffer
				if err := a.Export.CollectionCSV(&buf, res, enc); err != nil {
					return WrapExitError(ExitFailure, "exportar CSV", err)
				}
				path := output
				if path == "" {
					path = export.Filename(res, time.Now())
				}
				return emitFile(cmd, rootOpts, path, buf.Bytes())
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo de salida (- para stdout)")
	cmd.Flags().StringVar(&encoding, "encoding", "utf-8", "utf-8 | windows-1252")

	return cmd
}

func newExportXLSXCommand(rootOpts *RootOptions) *cobra.Command {
	var output string
	var req dto.FinancialReportRequest

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Exportar el reporte financiero del período a XLSX",
		Long: `Genera el libro del reporte financiero (hojas Summary, Sales, Expenses y
Low stock). Las cifras del resumen vienen del servidor si responde; si no, se
calculan con los datos locales.

Ejemplo:
  bizsync export xlsx --from 2026-03-01 --to 2026-03-31 -o marzo.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			return withApp(ctx, rootOpts, func(a *App) error {
				var buf bytes.Buffer
				if err := a.Export.FinancialXLSX(ctx, &buf, req); err != nil {
					return WrapExitError(ExitFailure, "exportar XLSX", err)
				}
				path := output
				if path == "" {
					path = export.XLSXFilename(time.Now())
				}
				return emitFile(cmd, rootOpts, path, buf.Bytes())
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo de salida (- para stdout)")
	cmd.Flags().StringVar(&req.StartDate, "from", "", "inicio del período YYYY-MM-DD (por defecto día 1 del mes)")
	cmd.Flags().StringVar(&req.EndDate, "to", "", "fin del período YYYY-MM-DD (por defecto hoy)")
	cmd.Flags().IntVar(&req.TopN, "top", 5, "productos en el ranking")

	return cmd
}

// emitFile escribe data en path (o stdout con "-") e informa el resultado.
func emitFile(cmd *cobra.Command, rootOpts *RootOptions, path string, data []byte) error {
	if path == "-" {
		_, err := io.Copy(cmd.OutOrStdout(), bytes.NewReader(data))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return WrapExitError(ExitFailure, "escribir archivo", err)
	}
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	return out.Success(FileResult{Path: path, Bytes: len(data)})
}
