package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/walker"
	httpAdapter "github.com/aretw0/walker/pkg/adapters/http"
	"github.com/aretw0/walker/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve [world]",
	Short: "Start the HTTP server",
	Long: `Serves one engine over a JSON API with a server-sent event stream of world changes
and Prometheus metrics on /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port := env.Config.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(registry)

		eng, err := env.NewEngine(
			walker.WithActionHooks(observability.ChainActionHooks(
				observability.LogActionHooks(env.Logger),
				metrics.ActionHooks(),
			)),
			walker.WithTraceHooks(metrics.TraceHooks()),
		)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if err := env.OpenWorld(cmd.Context(), eng, args[0]); err != nil {
				return err
			}
		}
		progs, err := env.Programs()
		if err != nil {
			return err
		}
		store, err := env.Store()
		if err != nil {
			return err
		}

		handler := httpAdapter.NewHandler(eng,
			httpAdapter.WithStore(store),
			httpAdapter.WithPrograms(progs),
			httpAdapter.WithMetrics(registry),
		)
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			env.Logger.Info("starting walker server", "addr", srv.Addr, "store", env.Config.Store.Kind)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			env.Logger.Info("shutting down", "signal", sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				env.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("failed to kill server: %w", err)
				}
			}
			env.Logger.Info("walker server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
}
