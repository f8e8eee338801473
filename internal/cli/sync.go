package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// SyncOptions flags de sync.
type SyncOptions struct {
	*RootOptions
	Only []string
}

// SyncResult resultado de una sincronización manual.
type SyncResult struct {
	Online      bool                  `json:"online"`
	Replay      synccore.ReplayReport `json:"replay"`
	Refreshed   []entity.Resource     `json:"refreshed"`
	Failed      map[string]string     `json:"failed,omitempty"`
	QueueLength int                   `json:"queueLength"`
}

// Text implementa Texter.
func (r SyncResult) Text() string {
	if !r.Online {
		return fmt.Sprintf("sin conexión: %d operaciones siguen en cola", r.QueueLength)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "cola: %d reproducidas, %d fallidas, %d descartadas\n", r.Replay.Succeeded, r.Replay.Failed, r.Replay.Dropped)
	fmt.Fprintf(&b, "colecciones actualizadas: %d\n", len(r.Refreshed))
	for res, msg := range r.Failed {
		fmt.Fprintf(&b, "  %s: %s\n", res, msg)
	}
	fmt.Fprintf(&b, "pendientes: %d", r.QueueLength)
	return b.String()
}

// NewSyncCommand crea el comando sync.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reproducir la cola offline y refrescar las colecciones",
		Long: `Sondea el servidor; con conexión reproduce primero la cola de operaciones
pendientes y después vuelve a cargar las colecciones.

Ejemplo:
  bizsync sync
  bizsync sync --only sales,expenses --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			return withApp(ctx, opts.RootOptions, func(a *App) error {
				resources, err := parseResources(opts.Only)
				if err != nil {
					return WrapExitError(ExitCommandError, "recurso inválido", err)
				}
				out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

				res := SyncResult{Online: a.Monitor.Probe(ctx), Failed: map[string]string{}}
				if !res.Online {
					res.QueueLength = a.Core.QueueLen()
					if err := out.Success(res); err != nil {
						return err
					}
					return NewExitError(ExitOffline, "servidor inalcanzable")
				}

				res.Replay, err = a.Core.ProcessOfflineQueue(ctx)
				if err != nil {
					return WrapExitError(ExitFailure, "reproducir cola", err)
				}
				for _, r := range resources {
					if _, err := a.Core.Load(ctx, r, nil); err != nil {
						res.Failed[string(r)] = err.Error()
						continue
					}
					res.Refreshed = append(res.Refreshed, r)
				}
				if len(opts.Only) == 0 {
					if _, err := a.Core.LoadSettings(ctx); err != nil {
						res.Failed["settings"] = err.Error()
					}
				}
				res.QueueLength = a.Core.QueueLen()
				if err := out.Success(res); err != nil {
					return err
				}
				if len(res.Failed) > 0 {
					return NewExitError(ExitFailure, "sincronización incompleta")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "colecciones a refrescar (por defecto todas)")

	return cmd
}

// parseResources nombres de colección; vacío devuelve todas.
func parseResources(names []string) ([]entity.Resource, error) {
	if len(names) == 0 {
		return entity.AllResources(), nil
	}
	out := make([]entity.Resource, 0, len(names))
	for _, n := range names {
		r, err := entity.ParseResource(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
