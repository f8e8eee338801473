package cli

import (
	"context"
	"errors"
	"os"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/billing"
	"github.com/jhoicas/skillbridge-business/internal/application/export"
	"github.com/jhoicas/skillbridge-business/internal/application/session"
	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
	"github.com/jhoicas/skillbridge-business/internal/application/usecase"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
	"github.com/jhoicas/skillbridge-business/internal/domain/repository"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/chat"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/connectivity"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/httpapi"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/skillbridge-business/internal/infrastructure/pdf"
	"github.com/jhoicas/skillbridge-business/internal/infrastructure/sqlite"
	"github.com/jhoicas/skillbridge-business/pkg/config"
	"github.com/jhoicas/skillbridge-business/pkg/logger"
)

// App componentes cableados para un comando.
type App struct {
	Config    *config.Config
	Log       *logger.Logger
	Mirror    repository.Mirror
	Sessions  *session.Manager
	API       *httpapi.Client
	Core      *synccore.Core
	Monitor   *connectivity.Monitor
	Reports   *analytics.ReportsUseCase
	Dashboard *analytics.DashboardUseCase
	Export    *export.Service
	Invoices  *billing.PDFUseCase
	Chat      *usecase.ChatUseCase

	closers []func() error
}

// newApp carga la configuración, abre el espejo, hidrata el núcleo y arma los casos de uso.
func newApp(ctx context.Context, opts *RootOptions) (*App, error) {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cargar configuración", err)
	}
	level := cfg.App.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Out: os.Stderr})

	a := &App{Config: cfg, Log: log}

	if opts.Ephemeral || cfg.Mirror.Driver == "memory" {
		a.Mirror = memory.NewMirror()
	} else {
		db, err := sqlite.Open(cfg.Mirror.Path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "abrir espejo local", err)
		}
		a.closers = append(a.closers, db.Close)
		a.Mirror = sqlite.NewMirrorRepository(db)
	}
	log.Debug().Str("driver", cfg.Mirror.Driver).Bool("ephemeral", opts.Ephemeral).Str("path", cfg.Mirror.Path).Msg("espejo local listo")

	a.Sessions = session.NewManager(a.Mirror)
	a.API = httpapi.New(httpapi.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.TimeoutDuration(),
		Tokens:  a.Sessions,
		OnUnauthorized: func() {
			log.Warn().Msg("sesión rechazada por el servidor: token y datos del usuario eliminados")
		},
		Logger: log,
	})

	settings := entity.DefaultSettings()
	settings.VATRate = cfg.Business.VATRate
	settings.Currency = cfg.Business.Currency
	settings.LowStockThreshold = cfg.Business.LowStockThreshold

	store := synccore.NewStore(synccore.InitialState(settings))
	a.Core = synccore.NewCore(store, a.API, a.Mirror, log)
	if err := a.Core.Hydrate(ctx); err != nil {
		_ = a.Close()
		return nil, WrapExitError(ExitFailure, "hidratar estado local", err)
	}
	detach := synccore.NewPersister(a.Mirror, log).Attach(store)
	a.closers = append([]func() error{func() error { detach(); return nil }}, a.closers...)

	a.Monitor = connectivity.NewMonitor(
		cfg.API.BaseURL+cfg.Connectivity.HealthPath,
		cfg.Connectivity.ProbeDuration(),
		a.Core.SetOnline,
		log,
	)

	a.Reports = analytics.NewReportsUseCase(a.API, a.Core)
	a.Dashboard = analytics.NewDashboardUseCase(a.Core)
	a.Export = export.NewService(a.Core, a.Reports)
	a.Invoices = billing.NewPDFUseCase(a.Core, infrapdf.NewMarotoPDFGenerator(), a.API)
	a.Chat = usecase.NewChatUseCase(chat.NewClient(cfg.API.BaseURL+cfg.API.ChatPath, a.Sessions, 0, log), a.Dashboard)
	return a, nil
}

// Close suelta el persister y cierra el espejo.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// withApp ejecuta fn con la app armada y la cierra al terminar.
func withApp(ctx context.Context, opts *RootOptions, fn func(*App) error) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			a.Log.Error().Err(cerr).Msg("cerrar espejo local")
		}
	}()
	return fn(a)
}

func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
