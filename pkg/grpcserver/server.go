package grpcserver

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// Server bundles the grpc server with its health service so the caller can
// flip serving status around startup and shutdown.
type Server struct {
	*grpc.Server
	Health *health.Server
}

func New(log *slog.Logger, services ...string) *Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryLogger(log)))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	for _, svc := range append([]string{""}, services...) {
		hs.SetServingStatus(svc, healthpb.HealthCheckResponse_NOT_SERVING)
	}

	return &Server{Server: s, Health: hs}
}

func (s *Server) MarkServing() {
	s.Health.Resume()
}

func (s *Server) MarkNotServing() {
	s.Health.Shutdown()
}

// Stop drains in-flight calls, forcing a stop once timeout elapses.
func (s *Server) Stop(timeout time.Duration) {
	s.MarkNotServing()

	stopped := make(chan struct{})
	go func() {
		s.Server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-time.After(timeout):
		s.Server.Stop()
		<-stopped
	case <-stopped:
	}
}

func unaryLogger(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}
