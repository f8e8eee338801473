package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpRouter "github.com/jhoicas/skillbridge-business/internal/interfaces/http"
)

// ServeOptions flags de serve.
type ServeOptions struct {
	*RootOptions
	Addr      string
	NoRefresh bool
	DocsDir   string
	NoDocs    bool
}

// NewServeCommand crea el comando serve.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levantar la API local y el monitor de conectividad",
		Long: `Levanta la API local (fiber) sobre el núcleo de sincronización.

Al arrancar sondea el servidor, refresca todas las colecciones si hay
conexión y deja corriendo el monitor: cada paso de offline a online
reproduce la cola de operaciones pendientes. La documentación de la API
queda en /docs (Swagger UI).

Ejemplo:
  bizsync serve
  bizsync serve --addr 0.0.0.0:8254 --ephemeral`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(commandContext(cmd.Context()), opts.RootOptions, func(a *App) error {
				return runServe(cmd.Context(), a, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "dirección de escucha (por defecto HTTP_HOST:HTTP_PORT)")
	cmd.Flags().BoolVar(&opts.NoRefresh, "no-refresh", false, "no refrescar las colecciones al arrancar")
	cmd.Flags().StringVar(&opts.DocsDir, "docs-dir", filepath.Join(os.TempDir(), "bizsync-docs"), "directorio donde se escribe swagger.json para /docs")
	cmd.Flags().BoolVar(&opts.NoDocs, "no-docs", false, "no servir Swagger UI en /docs")

	return cmd
}

func runServe(parent context.Context, a *App, opts *ServeOptions) error {
	ctx, stop := signal.NotifyContext(commandContext(parent), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := a.Log
	log.Info().
		Str("env", a.Config.App.Env).
		Str("app", a.Config.App.Name).
		Str("api", a.Config.API.BaseURL).
		Int("queue_len", a.Core.QueueLen()).
		Msg("iniciando servidor local")

	online := a.Monitor.Probe(ctx)
	if online && !opts.NoRefresh {
		go func() {
			if err := a.Core.RefreshAll(ctx); err != nil {
				log.Warn().Err(err).Msg("refresco inicial incompleto")
			}
			if _, err := a.Core.ProcessOfflineQueue(ctx); err != nil {
				log.Warn().Err(err).Msg("reproducción inicial de la cola")
			}
		}()
	}
	go a.Monitor.Run(ctx)

	app := fiber.New(httpRouter.AppConfig(a.Config.App.Name))
	app.Use(recover.New())

	if !opts.NoDocs {
		if err := httpRouter.MountDocs(app, opts.DocsDir, a.Config.App.Name+" API"); err != nil {
			log.Warn().Err(err).Msg("Swagger UI deshabilitado")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Core:         a.Core,
		Connectivity: a.Monitor,
		Reports:      a.Reports,
		Dashboard:    a.Dashboard,
		Export:       a.Export,
		Invoices:     a.Invoices,
		Chat:         a.Chat,
		Sessions:     a.Sessions,
		APIKey:       a.Config.HTTP.APIKey,
	})

	addr := opts.Addr
	if addr == "" {
		addr = a.Config.HTTP.Addr()
	}
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return WrapExitError(ExitFailure, "servidor HTTP finalizado", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Int("queue_len", a.Core.QueueLen()).Msg("servidor detenido")
	return nil
}
