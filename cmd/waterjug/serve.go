package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/waterjug"
	httpadapter "github.com/aretw0/waterjug/pkg/adapters/http"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/observability"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/aretw0/waterjug/pkg/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the solver, the rule catalog and playback sessions over HTTP.
Sessions are stored with the driver from .waterjug/config.yaml (memory, file,
redis or sqlite). Prometheus metrics are exposed on a separate port, or on
/metrics of the API when --metrics-port is 0.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		port := s.Config.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		metricsPort := s.Config.Server.MetricsPort
		if cmd.Flags().Changed("metrics-port") {
			metricsPort, _ = cmd.Flags().GetInt("metrics-port")
		}

		metrics := observability.NewMetrics()
		hooks := metrics.Hooks(observability.LoggingHooks(s.Logger, domain.LifecycleHooks{}))

		engine, shutdown, err := newEngine(cmd, s, waterjug.WithLifecycleHooks(hooks))
		if err != nil {
			return err
		}
		defer shutdown(context.Background())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx, s, false)
		if err != nil {
			return err
		}
		defer store.Close()

		managerOpts := []session.Option{
			session.WithLogger(s.Logger),
			session.WithLifecycleHooks(hooks),
		}
		if store.Locker != nil {
			managerOpts = append(managerOpts, session.WithLocker(store.Locker))
		}
		manager := session.NewManager(store.Store, managerOpts...)
		if counter, ok := store.Store.(ports.StatusCounter); ok {
			if err := metrics.WatchSessions(counter, s.Logger); err != nil {
				return err
			}
		}

		handlerOpts := []httpadapter.Option{
			httpadapter.WithSessions(manager),
			httpadapter.WithLogger(s.Logger),
		}
		if metricsPort == 0 {
			handlerOpts = append(handlerOpts, httpadapter.WithMetrics(metrics.Handler()))
		}

		servers := []*http.Server{{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: httpadapter.NewHandler(engine, handlerOpts...),
		}}
		if metricsPort != 0 {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			servers = append(servers, &http.Server{Addr: fmt.Sprintf(":%d", metricsPort), Handler: mux})
		}

		s.Logger.Info("starting waterjug server",
			"addr", servers[0].Addr,
			"store", store.Driver,
			"metrics_port", metricsPort,
		)
		return runServers(ctx, s.Logger, servers...)
	},
}

// runServers serves until ctx is done or one server fails, then shuts all
// of them down.
func runServers(ctx context.Context, logger *slog.Logger, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "addr", srv.Addr, "err", err)
				srv.Close()
			}
		}
		return nil
	})
	return g.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().Int("metrics-port", 0, "Prometheus port; 0 serves /metrics on the API port (default from config, 2112)")
}
