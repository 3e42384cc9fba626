package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/router"
)

const (
	healthRefreshInterval = 15 * time.Second
	shutdownTimeout       = 30 * time.Second
)

var grpcPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC server",
	Long:  `Start the gRPC server. Its health service reports one entry per generation backend.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides DIALOGUE_GRPC_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer closeCancel()
		a.Close(closeCtx)
	}()

	port := cfg.GRPCPort
	if grpcPort > 0 {
		port = grpcPort
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	recoveryOpt := grpc_recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		slog.ErrorContext(ctx, "Recovered from panic", "panic", p)
		return errors.ToGRPCError(errors.Internalf("panic: %v", p))
	})

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(recoveryOpt),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	go watchBackends(ctx, a.router, healthServer)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("gRPC server starting", "port", port)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down gRPC server")
		healthServer.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// watchBackends re-probes the backends on an interval and mirrors their
// availability into the health service
func watchBackends(ctx context.Context, r router.Service, hs *health.Server) {
	ticker := time.NewTicker(healthRefreshInterval)
	defer ticker.Stop()

	for {
		r.RefreshAvailability(ctx)
		for _, st := range r.Status(ctx) {
			hs.SetServingStatus(healthServiceName(st.Name), servingStatus(st.State))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func healthServiceName(backend string) string {
	return "llm." + strings.ToLower(strings.ReplaceAll(backend, " ", "_"))
}

func servingStatus(state llm.State) grpc_health_v1.HealthCheckResponse_ServingStatus {
	switch state {
	case llm.StateAvailable:
		return grpc_health_v1.HealthCheckResponse_SERVING
	case llm.StateUnavailable:
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	default:
		return grpc_health_v1.HealthCheckResponse_UNKNOWN
	}
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	var lvl slog.Level
	switch level {
	case grpc_logging.LevelDebug:
		lvl = slog.LevelDebug
	case grpc_logging.LevelWarn:
		lvl = slog.LevelWarn
	case grpc_logging.LevelError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.Log(ctx, lvl, msg, fields...)
}
