package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core"
	errwrap "github.com/tldsweep/tldsweep/internal/errors"
	"github.com/tldsweep/tldsweep/internal/metrics"
	"github.com/tldsweep/tldsweep/internal/observability"
	"github.com/tldsweep/tldsweep/internal/server"
	"github.com/tldsweep/tldsweep/internal/server/handlers"
)

var (
	serverPort int
	serverHost string
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server with graceful shutdown support.

Ctrl+C (SIGINT) or SIGTERM triggers a graceful shutdown: in-flight
requests get the configured shutdown timeout to finish.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	serverCfg := cfg.Server
	if cmd.Flags().Changed("host") {
		serverCfg.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		serverCfg.Port = serverPort
	}

	observability.InitServerLogger("tldsweep", cfg.Logging.Level)

	if cfg.Metrics.Enabled {
		metricsPort := cfg.Metrics.Port
		if metricsPort == 0 {
			metricsPort = 9090
		}
		if err := observability.InitMetrics("tldsweep", metricsPort); err != nil {
			observability.ServerLogger.Error("Failed to initialize metrics", zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}
	}

	observability.ServerLogger.Info("Initializing server",
		zap.String("service", "tldsweep"),
		zap.String("version", versionInfo.Version),
		zap.String("host", serverCfg.Host),
		zap.Int("port", serverCfg.Port),
		zap.Int("metrics_port", observability.GetMetricsPort()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return errwrap.WrapDatabaseError(ctx, err, "store initialization failed")
	}
	defer st.Close() // nolint:errcheck // best-effort cleanup; errors logged internally

	handlers.InitHealthManager(versionInfo.Version)
	hm := handlers.GetHealthManager()
	hm.RegisterChecker("store", st)
	if cfg.Metrics.Enabled {
		hm.RegisterChecker("telemetry", telemetryHealthChecker{})
	}

	userSets := loadUserTLDSets(cfg)
	sweepHandler := &handlers.SweepHandler{
		Checker:  buildChecker(cfg, st, true),
		Defaults: checkConfigFromApp(cfg),
		TLDSets:  userSets,
	}

	srv := server.New(serverCfg, sweepHandler)

	start := time.Now()
	metrics.SetServerStartTime(start.Unix())
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.SetServerUptime(int64(time.Since(start).Seconds()))
			}
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return errwrap.WrapInternal(ctx, err, "server error")
	case <-ctx.Done():
	}

	shutdownTimeout := serverCfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errwrap.WrapInternal(shutdownCtx, err, "server shutdown failed")
	}

	observability.ServerLogger.Info("HTTP server stopped gracefully")
	if err := observability.ServerLogger.Sync(); err != nil {
		// Sync errors are often benign (stdout/stderr already closed)
		observability.ServerLogger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
	}
	return nil
}

func loadUserTLDSets(cfg *config.Config) []core.TLDSet {
	if cfg == nil || cfg.TLDSetsPath == "" {
		return nil
	}
	sets, err := core.LoadTLDSets(cfg.TLDSetsPath)
	if err != nil {
		observability.ServerLogger.Warn("Failed to load TLD sets",
			zap.String("path", cfg.TLDSetsPath),
			zap.Error(err))
		return nil
	}
	return sets
}
