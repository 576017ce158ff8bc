package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/tripcomposer/config"
	"github.com/Domenick1991/tripcomposer/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server
	log        *logger.Logger
}

func NewServers(cfg *config.Config, handler http.Handler, log *logger.Logger) *Servers {
	if log == nil {
		log = logger.Nop()
	}
	s := &Servers{
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
	if cfg.GRPC.Address != "" {
		s.grpcServer = grpc.NewServer()
		s.health = health.NewServer()
		healthpb.RegisterHealthServer(s.grpcServer, s.health)
	}
	return s
}

// Run starts the HTTP server and, when configured, the gRPC health server.
// It blocks until ctx is canceled or a server fails.
func (s *Servers) Run(ctx context.Context, grpcAddress string) error {
	errCh := make(chan error, 2)

	if s.grpcServer != nil {
		lis, err := net.Listen("tcp", grpcAddress)
		if err != nil {
			return fmt.Errorf("listen gRPC %s: %w", grpcAddress, err)
		}
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		s.log.Info("gRPC health server listening", "address", lis.Addr().String())
		go func() { errCh <- s.grpcServer.Serve(lis) }()
	}

	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.stopGRPC()
		return fmt.Errorf("listen HTTP %s: %w", s.httpServer.Addr, err)
	}
	s.log.Info("HTTP server listening", "address", lis.Addr().String())
	go func() {
		if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.stopGRPC()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.stopGRPC()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func (s *Servers) stopGRPC() {
	if s.grpcServer == nil {
		return
	}
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// Run is a shortcut for NewServers(cfg, handler, log).Run(ctx, cfg.GRPC.Address).
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, log *logger.Logger) error {
	return NewServers(cfg, handler, log).Run(ctx, cfg.GRPC.Address)
}
