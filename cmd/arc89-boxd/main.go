// arc89-boxd serves a configured record store over gRPC.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"xdao.co/arc89/boxstore/cached"
	"xdao.co/arc89/boxstore/grpcstore"
	"xdao.co/arc89/boxstore/storeregistry"
	"xdao.co/arc89/config"
	"xdao.co/arc89/metrics"

	_ "xdao.co/arc89/boxstore/localfs"
	_ "xdao.co/arc89/boxstore/memstore"
)

var Version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	var (
		cfgFile       string
		listen        string
		metricsListen string
		logLevel      string
		listBackends  bool
	)

	rootCmd := &cobra.Command{
		Use:          "arc89-boxd",
		Short:        "Serve an ARC-89 record store over gRPC",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listBackends {
				for _, b := range storeregistry.List(storeregistry.UsageDaemon) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.Name, b.Description)
				}
				return nil
			}

			cfg := config.Default()
			if cfgFile != "" {
				var err error
				if cfg, err = config.Load(cfgFile); err != nil {
					return err
				}
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if metricsListen != "" {
				cfg.MetricsListen = metricsListen
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			setupLogging(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lis, err := net.Listen("tcp", cfg.Listen)
			if err != nil {
				return err
			}
			return serve(ctx, cfg, lis, prometheus.NewRegistry())
		},
	}
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	rootCmd.Flags().StringVar(&listen, "listen", "", "gRPC listen address (overrides config)")
	rootCmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "Prometheus listen address (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.Flags().BoolVar(&listBackends, "list-backends", false, "list supported backends and exit")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// serve runs the gRPC server on lis until ctx is done. reg receives the
// daemon's metrics; nothing is exported over HTTP unless cfg.MetricsListen
// is set.
func serve(ctx context.Context, cfg config.Config, lis net.Listener, reg *prometheus.Registry) error {
	st, closeStore, err := cfg.Store.OpenStore(storeregistry.UsageDaemon)
	if err != nil {
		_ = lis.Close()
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	if c, ok := st.(*cached.Store); ok {
		if err := m.RegisterCache(c); err != nil {
			_ = lis.Close()
			return err
		}
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(m.UnaryServerInterceptor()))
	grpcstore.RegisterBoxStoreServer(srv, &grpcstore.Server{
		Store: m.InstrumentStore(st),
		Log:   log.Logger.With().Str("component", "boxstore").Logger(),
	})

	var httpSrv *http.Server
	if cfg.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		httpSrv = &http.Server{Addr: cfg.MetricsListen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info().Str("addr", cfg.MetricsListen).Msg("metrics listening")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(lis) }()
	log.Info().
		Str("addr", lis.Addr().String()).
		Int("backends", len(cfg.Store.Backends)).
		Str("network", cfg.Network).
		Uint64("app_id", cfg.AppID).
		Msg("arc89-boxd listening")

	select {
	case err = <-errc:
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(shutdownTimeout):
			srv.Stop()
		}
		err = nil
	}

	if httpSrv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(sctx)
	}
	return err
}
