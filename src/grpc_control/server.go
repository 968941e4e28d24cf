package grpc_control

import (
	"fmt"
	"net"
	"sync"

	"stock-screener/src/logger"
	"stock-screener/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// -----------------------------------------------------------------------------

// ControlServer hosts the control service and the standard health service.
// Health stays NOT_SERVING until the first snapshot is published.
type ControlServer struct {
	Addr    string
	Logger  *logger.Logger
	grpc    *grpc.Server
	health  *health.Server
	mu      sync.Mutex
	serving bool
}

// -----------------------------------------------------------------------------

func NewControlServer(cfg *models.MConfig, service *ControlService, log *logger.Logger) *ControlServer {
	port := cfg.GrpcPort
	if port == 0 {
		port = 50051 // Default fallback
	}

	s := &ControlServer{
		Addr:   fmt.Sprintf("%s:%d", cfg.GrpcHost, port),
		Logger: log,
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
	}

	RegisterScreenerControlServer(s.grpc, service)
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	if service.Orchestrator != nil && service.Orchestrator.Store.Len() > 0 {
		s.markServing()
	}
	return s
}

// -----------------------------------------------------------------------------

// Start blocks serving on Addr.
func (s *ControlServer) Start() error {
	lis, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	return s.Serve(lis)
}

// Serve blocks serving on lis.
func (s *ControlServer) Serve(lis net.Listener) error {
	s.Logger.Info("Starting gRPC Control Server on %s", lis.Addr())
	return s.grpc.Serve(lis)
}

func (s *ControlServer) Stop() error {
	s.health.Shutdown()
	s.grpc.GracefulStop()
	return nil
}

// -----------------------------------------------------------------------------

// Publish flips the health status once a snapshot exists.
func (s *ControlServer) Publish(msg models.MSnapshotMessage) {
	if msg.TotalStocks > 0 {
		s.markServing()
	}
}

func (s *ControlServer) markServing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving {
		return
	}
	s.serving = true
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}
