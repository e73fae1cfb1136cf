// Package health exposes grpc.health.v1 and keeps its status in line with the
// reachability of Postgres and redis.
package health

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
)

// ServiceName is the name reported next to the overall "" service.
const ServiceName = "expense-tracker"

// CheckTimeout bounds a single dependency probe.
const CheckTimeout = 2 * time.Second

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// ContextPinger is satisfied by *sql.DB and *sqlx.DB.
type ContextPinger interface {
	PingContext(ctx context.Context) error
}

// DBCheck pings a database.
func DBCheck(db ContextPinger) Check {
	return db.PingContext
}

// RedisCheck pings a redis server.
func RedisCheck(client redis.UniversalClient) Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// Server is a gRPC server carrying only the health service.
type Server struct {
	addr     string
	interval time.Duration
	checks   map[string]Check

	mu  sync.Mutex
	lis net.Listener

	Server *grpc.Server
	health *health.Server
}

// New creates a health server listening on addr. checks are probed every interval.
func New(addr string, interval time.Duration, checks map[string]Check) *Server {
	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		addr:     addr,
		interval: interval,
		checks:   checks,
		Server:   s,
		health:   hs,
	}
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lis = lis
	s.mu.Unlock()
	return s.Server.Serve(lis)
}

// Stop marks the service as not serving and stops the gRPC server.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.Server.GracefulStop()
	s.mu.Lock()
	if s.lis != nil {
		_ = s.lis.Close()
	}
	s.mu.Unlock()
}

// Watch probes the dependencies immediately and then every interval until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	s.Probe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

// Probe runs every check once and publishes the resulting status.
func (s *Server) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	var err error
	for name, check := range s.checks {
		checkCtx, cancel := context.WithTimeout(ctx, CheckTimeout)
		if cerr := check(checkCtx); cerr != nil {
			logger.Log.Warnw("health check failed", "dependency", name, "error", cerr)
			err = multierr.Append(err, cerr)
		}
		cancel()
	}

	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Status returns the current status of service ("" for the overall status).
func (s *Server) Status(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
