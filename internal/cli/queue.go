package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
)

// QueueResult contenido de la cola offline.
type QueueResult struct {
	Count      int                    `json:"count"`
	Operations []synccore.Operation   `json:"operations"`
	Replay     *synccore.ReplayReport `json:"replay,omitempty"`
}

// Text implementa Texter.
func (q QueueResult) Text() string {
	var b strings.Builder
	if q.Replay != nil {
		fmt.Fprintf(&b, "reproducidas %d de %d\n", q.Replay.Succeeded, q.Replay.Attempted)
	}
	if q.Count == 0 {
		b.WriteString("cola offline vacía")
		return b.String()
	}
	fmt.Fprintf(&b, "%d operaciones pendientes:\n", q.Count)
	for i, op := range q.Operations {
		fmt.Fprintf(&b, "%3d. %-22s %s", i+1, op.Type, op.EnqueuedAt.Local().Format("2006-01-02 15:04:05"))
		if op.RecordID != "" || op.LocalID != 0 {
			fmt.Fprintf(&b, "  %s", op.Key())
		}
		if op.Attempts > 0 {
			fmt.Fprintf(&b, "  (%d reintentos)", op.Attempts)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewQueueCommand crea el comando queue.
func NewQueueCommand(rootOpts *RootOptions) *cobra.Command {
	var process bool

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Listar (o reproducir) las operaciones pendientes",
		Long: `Lista las operaciones guardadas en la cola offline, en el orden en que se
reproducirán. Con --process sondea el servidor y, si responde, las reproduce.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			return withApp(ctx, rootOpts, func(a *App) error {
				var res QueueResult
				if process {
					if !a.Monitor.Probe(ctx) {
						return NewExitError(ExitOffline, "servidor inalcanzable: la cola no se reprodujo")
					}
					report, err := a.Core.ProcessOfflineQueue(ctx)
					if err != nil {
						return WrapExitError(ExitFailure, "reproducir cola", err)
					}
					res.Replay = &report
				}
				res.Operations = a.Core.Queue()
				res.Count = len(res.Operations)

				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(res)
			})
		},
	}

	cmd.Flags().BoolVar(&process, "process", false, "reproducir la cola si hay conexión")

	return cmd
}
