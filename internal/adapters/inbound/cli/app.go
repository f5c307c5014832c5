package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	appconfig "github.com/abdidvp/hexagonal/internal/adapters/outbound/config"
	"github.com/abdidvp/hexagonal/internal/adapters/outbound/email"
	"github.com/abdidvp/hexagonal/internal/adapters/outbound/filestore"
	"github.com/abdidvp/hexagonal/internal/adapters/outbound/logging"
	"github.com/abdidvp/hexagonal/internal/adapters/outbound/memory"
	"github.com/abdidvp/hexagonal/internal/adapters/outbound/telemetry"
	"github.com/abdidvp/hexagonal/internal/application"
	"github.com/abdidvp/hexagonal/internal/domain"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configDir   string
	storagePath string
}

// app is the composition root: every adapter is chosen here from config.
type app struct {
	cfg      domain.AppConfig
	logger   *slog.Logger
	tracer   trace.TracerProvider
	svc      *application.UserService
	shutdown telemetry.ShutdownFunc
}

// newApp wires the service. Logs and console emails go to stderr so that
// command output on stdout stays machine readable.
func newApp(opts *rootOptions, stderr io.Writer) (*app, error) {
	cfg, err := appconfig.New().Load(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.storagePath != "" {
		cfg.Storage.Backend = "file"
		cfg.Storage.Path = opts.storagePath
	}

	logger, err := logging.New(cfg, stderr)
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}

	tp, shutdown := telemetry.Setup(cfg.Tracing, logger)

	repo, err := newRepository(cfg.Storage)
	if err != nil {
		return nil, err
	}
	if cfg.Tracing.Enabled {
		repo = telemetry.NewTracedRepository(repo, tp, cfg.Storage.Backend)
	}

	var mailer domain.EmailService = email.NewNoop()
	if cfg.Email.Backend == "console" {
		mailer = email.NewConsole(stderr, cfg.Email.From)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		tracer:   tp,
		svc:      application.NewUserService(repo, mailer, logger, tp),
		shutdown: shutdown,
	}, nil
}

func newRepository(cfg domain.StorageConfig) (domain.UserRepository, error) {
	switch cfg.Backend {
	case "file":
		store, err := filestore.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening user store: %w", err)
		}
		return store, nil
	default:
		return memory.New(), nil
	}
}

// close drains background notifications, then flushes traces.
func (a *app) close(ctx context.Context) error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = domain.DefaultConfig().Server.ShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return errors.Join(a.svc.Shutdown(ctx), a.shutdown(ctx))
}

// withApp builds the app, runs fn and always closes the app afterwards.
func withApp(ctx context.Context, opts *rootOptions, stderr io.Writer, fn func(*app) error) (err error) {
	a, err := newApp(opts, stderr)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.close(context.WithoutCancel(ctx)))
	}()
	return fn(a)
}
