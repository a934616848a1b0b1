package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"goom-server/internal/analytics"
	"goom-server/internal/journal"
	"goom-server/internal/logging"
	"goom-server/internal/protocol"
	"goom-server/internal/server"
	"goom-server/internal/settings"
	"goom-server/internal/transport"
	"goom-server/internal/worldcfg"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the world server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, s)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "settings file (YAML)")
	settings.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(ctx context.Context, s settings.Settings) error {
	logger := logging.SetDefault("goom-server", s.LogFormat, s.LogLevel)

	cfg, err := worldcfg.Load(s.World)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(server.NewMetrics(reg)),
	}

	if s.DB != "" {
		db, err := analytics.OpenDB(s.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		tracker := analytics.New(db, logger)
		defer tracker.Stop()
		opts = append(opts, server.WithTracker(tracker))
	}

	if s.JournalDir != "" {
		jw, err := journal.CreateInDir(s.JournalDir, time.Now())
		if err != nil {
			return err
		}
		defer jw.Close()
		logger.Info("journaling ticks", "path", jw.Path())
		opts = append(opts, server.WithJournal(jw))
	}

	var runner *server.Runner
	hub := transport.NewHub(transport.HubConfig{
		MaxConnsPerIP: s.MaxConnsPerIP,
		MaxConns:      s.MaxConns,
		Logger:        logger,
		OnEvent: func(ev protocol.Event) {
			if !runner.Enqueue(ev) {
				logger.Debug("inbox full, event dropped", "type", ev.Type, "from", ev.From)
			}
		},
		OnDisconnect: func(id string) {
			runner.Do(func(srv *server.Server) { srv.RemovePlayer(id) })
		},
	})

	srv, err := server.New(cfg, hub.Broadcast, hub.SendTo, opts...)
	if err != nil {
		return err
	}
	server.RegisterMovementBindings(srv)
	runner = server.NewRunner(srv, s.TickRate, s.InboxSize)

	mux := transport.Routes(hub, transport.NewTokenAuth(s.JWTSecret))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	httpServer := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go hub.Run(ctx)
	go runner.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", s.Addr, "world", s.World, "tick_rate", s.TickRate)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	return nil
}
