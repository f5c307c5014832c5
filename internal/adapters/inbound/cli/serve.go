package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/abdidvp/hexagonal/internal/adapters/inbound/http"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Start the users HTTP API and block until SIGINT or SIGTERM, then shut down gracefully.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withApp(ctx, opts, cmd.ErrOrStderr(), func(a *app) error {
				cfg := a.cfg.Server
				if cmd.Flags().Changed("host") {
					cfg.Host = host
				}
				if cmd.Flags().Changed("port") {
					cfg.Port = port
				}

				router := httpadapter.NewRouter(a.svc, a.logger, a.tracer)
				srv := httpadapter.NewServer(cfg, router, a.logger)

				g, gctx := errgroup.WithContext(ctx)
				g.Go(srv.Start)
				g.Go(func() error {
					<-gctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})

				a.logger.Info("users service ready",
					slog.String("addr", cfg.Address()),
					slog.String("storage", a.cfg.Storage.Backend),
				)
				return g.Wait()
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")

	return cmd
}
