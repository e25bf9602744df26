package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vesselflow/ppe-engine/advisory"
	"github.com/vesselflow/ppe-engine/api"
	"github.com/vesselflow/ppe-engine/factory"
	"github.com/vesselflow/ppe-engine/metrics"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd starts the HTTP API.
//
// Startup: config -> logger -> blob + store load (a corrupt blob aborts
// here) -> generator -> publisher -> router -> listen. SIGINT/SIGTERM stop
// accepting connections and drain active requests for up to 30s.
func ServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return serve(ctx, a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	m := metrics.New()

	gen, err := factory.NewGenerator(ctx, a.cfg.Advisor, a.logger)
	if err != nil {
		return err
	}
	advisor := advisory.NewClient(gen,
		advisory.WithLogger(a.logger.Named("advisory")),
		advisory.WithObserver(m.ObserveAdvisory))

	publisher, err := factory.NewPublisher(a.cfg.Events)
	if err != nil {
		return err
	}
	defer publisher.Close()

	handler := api.NewHandler(a.records, advisor,
		api.WithEvents(publisher, a.cfg.Events.Topic),
		api.WithMetrics(m),
		api.WithLogger(a.logger.Named("api")))

	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      api.NewRouter(handler, a.cfg.Server.AllowedOrigins),
		ReadTimeout:  a.cfg.Server.ReadTimeout.Std(),
		WriteTimeout: a.cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  a.cfg.Server.IdleTimeout.Std(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("storage", a.cfg.Storage.Driver),
			zap.Int("records", len(a.records.Snapshot())))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
