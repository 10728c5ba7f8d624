package server

import (
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServiceName is the service name reported alongside the overall status.
const HealthServiceName = "gridpath.Sessions"

// HealthServer serves the standard gRPC health protocol.
type HealthServer struct {
	grpc   *grpc.Server
	health *health.Server
}

func NewHealthServer() *HealthServer {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)
	return &HealthServer{grpc: gs, health: hs}
}

// Serve blocks until the listener fails or Shutdown is called.
func (h *HealthServer) Serve(lis net.Listener) error {
	log.Printf("gRPC health listening on %s", lis.Addr())
	return h.grpc.Serve(lis)
}

// Shutdown reports NOT_SERVING for every service, then stops the server
// after in-flight calls finish.
func (h *HealthServer) Shutdown() {
	h.health.Shutdown()
	h.grpc.GracefulStop()
}
