package grpc

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// LoggingInterceptor logs every unary call with its duration.
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)
		if err != nil {
			log.Warn("gRPC request failed", zap.String("method", info.FullMethod), zap.Duration("duration", duration), zap.Error(err))
		} else {
			log.Debug("gRPC request completed", zap.String("method", info.FullMethod), zap.Duration("duration", duration))
		}
		return resp, err
	}
}

// NewHealthServer builds a gRPC server exposing only the standard health and
// reflection services. The returned health.Server starts NOT_SERVING for
// serviceName until a dependency check passes.
func NewHealthServer(serviceName string, log *logger.Logger) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(log.Named("gRPC"))),
	)
	reflection.Register(server)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return server, healthServer
}

// CheckFunc pings one backing dependency.
type CheckFunc func(ctx context.Context) error

// WatchDependencies runs checks every interval and flips serviceName between
// SERVING and NOT_SERVING until ctx is done.
func WatchDependencies(ctx context.Context, hs *health.Server, serviceName string, interval time.Duration, log *logger.Logger, checks map[string]CheckFunc) {
	checkAll := func() {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		for name, check := range checks {
			checkCtx, cancel := context.WithTimeout(ctx, interval)
			err := check(checkCtx)
			cancel()
			if err != nil {
				log.Warn("Dependency check failed", zap.String("dependency", name), zap.Error(err))
				status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			}
		}
		hs.SetServingStatus(serviceName, status)
		hs.SetServingStatus("", status)
	}

	checkAll()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkAll()
		}
	}
}
