package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// CollectionStatus resumen de una colección en el espejo.
type CollectionStatus struct {
	Resource entity.Resource `json:"resource"`
	Count    int             `json:"count"`
	Pending  int             `json:"pending"`
	LoadedAt *time.Time      `json:"loadedAt,omitempty"`
}

// StatusResult estado local del cliente.
type StatusResult struct {
	Online      bool               `json:"online"`
	QueueLength int                `json:"queueLength"`
	User        string             `json:"user,omitempty"`
	Expired     bool               `json:"sessionExpired"`
	LastError   string             `json:"lastError,omitempty"`
	Collections []CollectionStatus `json:"collections"`
}

// Text implementa Texter.
func (s StatusResult) Text() string {
	var b strings.Builder
	conn := "online"
	if !s.Online {
		conn = "offline"
	}
	fmt.Fprintf(&b, "conexión: %s\n", conn)
	switch {
	case s.User == "":
		b.WriteString("sesión: sin iniciar\n")
	case s.Expired:
		fmt.Fprintf(&b, "sesión: %s (vencida)\n", s.User)
	default:
		fmt.Fprintf(&b, "sesión: %s\n", s.User)
	}
	fmt.Fprintf(&b, "cola offline: %d\n", s.QueueLength)
	for _, c := range s.Collections {
		fmt.Fprintf(&b, "  %-10s %5d registros", c.Resource, c.Count)
		if c.Pending > 0 {
			fmt.Fprintf(&b, " (%d pendientes)", c.Pending)
		}
		b.WriteString("\n")
	}
	if s.LastError != "" {
		fmt.Fprintf(&b, "último error: %s\n", s.LastError)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewStatusCommand crea el comando status.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Mostrar el estado del espejo local, la cola y la sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context())
			return withApp(ctx, rootOpts, func(a *App) error {
				if probe {
					a.Monitor.Probe(ctx)
				}
				st := a.Core.State()
				res := StatusResult{Online: st.Online, QueueLength: len(st.Queue), LastError: st.LastError}

				if u, err := a.Sessions.User(ctx); err == nil {
					res.User = u.Email
					if res.User == "" {
						res.User = u.ID
					}
					res.Expired, _ = a.Sessions.Expired(ctx)
				}
				for _, r := range entity.AllResources() {
					col := st.Collection(r)
					cs := CollectionStatus{Resource: r, Count: len(col.Data), LoadedAt: col.LoadedAt}
					for _, rec := range col.Data {
						if rec.Base().Pending {
							cs.Pending++
						}
					}
					res.Collections = append(res.Collections, cs)
				}

				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(res)
			})
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "sondear el servidor antes de informar")

	return cmd
}
