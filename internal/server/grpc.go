package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServiceName is the gRPC health service name reported for the ledger.
const HealthServiceName = "facility.ledger"

// NewGRPCServer returns a server exposing the standard health service and
// reflection. Both the overall and the ledger service start as SERVING.
func NewGRPCServer() (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(HealthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	// Reflection for grpcurl
	reflection.Register(grpcServer)
	return grpcServer, hs
}
